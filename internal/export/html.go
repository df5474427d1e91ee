package export

import (
	"bytes"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Linkify))

var page = template.Must(template.New("memo").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Investment Memo</title>
<style>body{font-family:sans-serif;max-width:48rem;margin:2rem auto;line-height:1.5}</style>
</head>
<body>
{{.}}
</body>
</html>
`))

// HTMLFragment converts Markdown to an HTML fragment. Raw HTML in the
// input is omitted.
func HTMLFragment(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// HTML writes a standalone preview page.
func HTML(w io.Writer, markdown string) error {
	frag, err := HTMLFragment(markdown)
	if err != nil {
		return err
	}
	return page.Execute(w, template.HTML(frag))
}
