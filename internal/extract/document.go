package extract

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Format is the declared container format of an uploaded document.
type Format string

const (
	FormatUnknown Format = ""
	FormatPDF     Format = "pdf"
	FormatPPTX    Format = "pptx"
)

const pptxMIME = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// ErrUnsupportedFormat is returned for any format other than PDF or PPTX.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// FormatFromName maps a file name or a MIME type to a Format. Unknown
// inputs yield FormatUnknown.
func FormatFromName(nameOrType string) Format {
	s := strings.ToLower(strings.TrimSpace(nameOrType))
	if s == "" {
		return FormatUnknown
	}
	if mt, _, err := mime.ParseMediaType(s); err == nil {
		switch mt {
		case "application/pdf":
			return FormatPDF
		case pptxMIME:
			return FormatPPTX
		}
	}
	switch filepath.Ext(s) {
	case ".pdf":
		return FormatPDF
	case ".pptx":
		return FormatPPTX
	}
	return FormatUnknown
}

func (f Format) label() string {
	if f == FormatUnknown {
		return "document"
	}
	return strings.ToUpper(string(f))
}

// Document extracts the text of data according to format. Panics raised by
// the underlying parsers on corrupt input are recovered and returned as
// errors.
func Document(data []byte, format Format) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("corrupt %s: %v", format.label(), r)
		}
	}()
	switch format {
	case FormatPDF:
		text, err = PDF(data)
	case FormatPPTX:
		text, err = PPTX(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
	if err != nil {
		return "", err
	}
	return norm.NFC.String(text), nil
}

// DocumentText never fails: on any extraction error it returns a
// human-readable "Error extracting ..." string in place of the text.
func DocumentText(data []byte, format Format) string {
	text, err := Document(data, format)
	if err != nil {
		return ErrorText(format, err)
	}
	return text
}

// ErrorText is the inline replacement text for a document that failed to
// extract.
func ErrorText(format Format, err error) string {
	return fmt.Sprintf("Error extracting %s: %v", format.label(), err)
}
