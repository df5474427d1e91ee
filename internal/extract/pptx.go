package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type presentationXML struct {
	SlideIDs []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

type relationshipsXML struct {
	Items []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type slideXML struct {
	Shapes []struct {
		TxBody *struct {
			Paragraphs []struct {
				Inner []byte `xml:",innerxml"`
			} `xml:"p"`
		} `xml:"txBody"`
	} `xml:"cSld>spTree>sp"`
}

var slideNameRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// PPTX returns the text of every text-bearing shape, slides in presentation
// order and shapes in tree order, each shape followed by a newline.
// Paragraphs inside a shape are separated by newlines.
func PPTX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pptx: %w", err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	slides, err := slideOrder(files)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, name := range slides {
		f, ok := files[name]
		if !ok {
			return "", fmt.Errorf("missing slide part %s", name)
		}
		var s slideXML
		if err := decodePart(f, &s); err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		for _, sh := range s.Shapes {
			if sh.TxBody == nil {
				continue
			}
			paras := make([]string, 0, len(sh.TxBody.Paragraphs))
			for _, p := range sh.TxBody.Paragraphs {
				t, err := paragraphText(p.Inner)
				if err != nil {
					return "", fmt.Errorf("%s: %w", name, err)
				}
				paras = append(paras, t)
			}
			b.WriteString(strings.Join(paras, "\n"))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// slideOrder resolves slide part names from presentation.xml and its
// relationships. Decks without them fall back to numeric part order.
func slideOrder(files map[string]*zip.File) ([]string, error) {
	pres, ok := files["ppt/presentation.xml"]
	rels, relsOK := files["ppt/_rels/presentation.xml.rels"]
	if !ok || !relsOK {
		return slidesByNumber(files)
	}
	var p presentationXML
	if err := decodePart(pres, &p); err != nil {
		return nil, fmt.Errorf("presentation.xml: %w", err)
	}
	var r relationshipsXML
	if err := decodePart(rels, &r); err != nil {
		return nil, fmt.Errorf("presentation.xml.rels: %w", err)
	}
	targets := make(map[string]string, len(r.Items))
	for _, it := range r.Items {
		targets[it.ID] = it.Target
	}
	out := make([]string, 0, len(p.SlideIDs))
	for _, id := range p.SlideIDs {
		t, ok := targets[id.RelID]
		if !ok {
			return nil, fmt.Errorf("slide relationship %q not found", id.RelID)
		}
		if strings.HasPrefix(t, "/") {
			out = append(out, strings.TrimPrefix(t, "/"))
			continue
		}
		out = append(out, path.Join("ppt", t))
	}
	return out, nil
}

func slidesByNumber(files map[string]*zip.File) ([]string, error) {
	type numbered struct {
		n    int
		name string
	}
	var found []numbered
	for name := range files {
		m := slideNameRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		found = append(found, numbered{n, name})
	}
	if len(found) == 0 {
		return nil, errors.New("no slides found")
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })
	out := make([]string, len(found))
	for i, f := range found {
		out[i] = f.name
	}
	return out, nil
}

func decodePart(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}

// paragraphText concatenates a:t runs (including fields) and renders a:br
// as a newline.
func paragraphText(inner []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(inner))
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "br":
				b.WriteString("\n")
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
