// Package export renders an assembled memo as a downloadable artifact.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/hyperifyio/memogen/internal/memo"
)

// Format is a download format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatPDF      Format = "pdf"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "md", "markdown", "pdf" and "html". Empty means Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Filename is the download name for f.
func (f Format) Filename() string {
	switch f {
	case FormatPDF:
		return "investment_memo.pdf"
	case FormatHTML:
		return "investment_memo.html"
	}
	return memo.Filename
}

func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return memo.ContentType
}

// Write renders the Markdown memo to w in format f.
func Write(w io.Writer, f Format, markdown string) error {
	switch f {
	case FormatMarkdown:
		_, err := io.WriteString(w, markdown)
		return err
	case FormatPDF:
		return PDF(w, markdown)
	case FormatHTML:
		return HTML(w, markdown)
	}
	return fmt.Errorf("unsupported export format %q", string(f))
}
