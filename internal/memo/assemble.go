package memo

import "strings"

const (
	// Filename is the download name of the assembled memo.
	Filename    = "investment_memo.md"
	ContentType = "text/markdown"
)

// Assemble emits a level-2 heading and the body of every section, in the
// order given, each followed by a blank line.
func Assemble(sections []Section) string {
	var b strings.Builder
	for _, s := range sections {
		b.WriteString("## ")
		b.WriteString(s.Name)
		b.WriteString("\n")
		b.WriteString(s.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}
