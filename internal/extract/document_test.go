package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for _, p := range pages {
		pdf.AddPage()
		pdf.Cell(40, 10, p)
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

type zipEntry struct {
	name, body string
}

func makeZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const (
	pmlNS = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
)

func slidePart(shapes ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><p:sld ` + pmlNS + `><p:cSld><p:spTree>` +
		strings.Join(shapes, "") + `</p:spTree></p:cSld></p:sld>`
}

func textShape(paras ...string) string {
	var b strings.Builder
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="T"/></p:nvSpPr><p:txBody><a:bodyPr/>`)
	for _, p := range paras {
		b.WriteString(`<a:p><a:r><a:t>` + p + `</a:t></a:r></a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
	return b.String()
}

// makePPTX builds a two-slide deck whose presentation order is the reverse of
// the slide part numbering.
func makePPTX(t *testing.T) []byte {
	t.Helper()
	pres := `<?xml version="1.0" encoding="UTF-8"?><p:presentation ` + pmlNS + `><p:sldIdLst>` +
		`<p:sldId id="256" r:id="rId3"/><p:sldId id="257" r:id="rId2"/>` +
		`</p:sldIdLst></p:presentation>`
	rels := `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>` +
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide2.xml"/>` +
		`</Relationships>`
	picture := `<p:pic><p:nvPicPr><p:cNvPr id="9" name="Logo"/></p:nvPicPr></p:pic>`
	return makeZip(t,
		zipEntry{"ppt/presentation.xml", pres},
		zipEntry{"ppt/_rels/presentation.xml.rels", rels},
		zipEntry{"ppt/slides/slide1.xml", slidePart(textShape("Market"), picture, textShape("TAM $4B", "Growing 20%"))},
		zipEntry{"ppt/slides/slide2.xml", slidePart(textShape("Acme Robotics"))},
	)
}

func TestFormatFromName(t *testing.T) {
	cases := map[string]Format{
		"deck.pptx":       FormatPPTX,
		"Pitch.PDF":       FormatPDF,
		"application/pdf": FormatPDF,
		pptxMIME:          FormatPPTX,
		"notes.docx":      FormatUnknown,
		"":                FormatUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatFromName(in), in)
	}
}

func TestPDF_PagesInOrder(t *testing.T) {
	data := makePDF(t, "Acme Corp Pitch", "Raised seed round")
	text, err := Document(data, FormatPDF)
	require.NoError(t, err)
	first := strings.Index(text, "Acme Corp Pitch")
	second := strings.Index(text, "Raised seed round")
	require.GreaterOrEqual(t, first, 0, "text: %q", text)
	require.Greater(t, second, first, "text: %q", text)
}

func TestDocumentText_Idempotent(t *testing.T) {
	data := makePDF(t, "Same every time")
	assert.Equal(t, DocumentText(data, FormatPDF), DocumentText(data, FormatPDF))

	deck := makePPTX(t)
	assert.Equal(t, DocumentText(deck, FormatPPTX), DocumentText(deck, FormatPPTX))
}

func TestDocumentText_MalformedPDF(t *testing.T) {
	got := DocumentText([]byte("this is not a pdf"), FormatPDF)
	assert.True(t, strings.HasPrefix(got, "Error extracting PDF: "), got)
}

func TestDocumentText_MalformedPPTX(t *testing.T) {
	got := DocumentText([]byte("PK garbage"), FormatPPTX)
	assert.True(t, strings.HasPrefix(got, "Error extracting PPTX: "), got)
}

func TestDocument_UnsupportedFormat(t *testing.T) {
	_, err := Document([]byte("x"), Format("docx"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPPTX_PresentationOrderAndShapes(t *testing.T) {
	text, err := PPTX(makePPTX(t))
	require.NoError(t, err)
	assert.Equal(t, "Acme Robotics\nMarket\nTAM $4B\nGrowing 20%\n", text)
}

func TestPPTX_FallbackToPartNumbering(t *testing.T) {
	deck := makeZip(t,
		zipEntry{"ppt/slides/slide10.xml", slidePart(textShape("Ten"))},
		zipEntry{"ppt/slides/slide2.xml", slidePart(textShape("Two"))},
	)
	text, err := PPTX(deck)
	require.NoError(t, err)
	assert.Equal(t, "Two\nTen\n", text)
}

func TestPPTX_LineBreakInParagraph(t *testing.T) {
	shape := `<p:sp><p:txBody><a:p><a:r><a:t>Line one</a:t></a:r><a:br/><a:r><a:t>Line two</a:t></a:r></a:p></p:txBody></p:sp>`
	deck := makeZip(t, zipEntry{"ppt/slides/slide1.xml", slidePart(shape)})
	text, err := PPTX(deck)
	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two\n", text)
}

func TestPPTX_NoSlides(t *testing.T) {
	_, err := PPTX(makeZip(t, zipEntry{"docProps/app.xml", "<x/>"}))
	require.Error(t, err)
}
