package memo

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hyperifyio/memogen/internal/extract"
)

// Input is what the user supplied for one run. Both parts are optional.
type Input struct {
	DocumentName string
	Document     []byte
	// DocumentSupplied marks an uploaded document even when its body is
	// empty, so a zero-byte upload still goes through extraction.
	DocumentSupplied bool
	// Format is detected from DocumentName when left unknown.
	Format extract.Format
	URL    string
}

// HasDocument reports whether a document was supplied, empty or not.
func (in Input) HasDocument() bool { return in.DocumentSupplied || len(in.Document) > 0 }

func (in Input) format() extract.Format {
	if in.Format != extract.FormatUnknown {
		return in.Format
	}
	return extract.FormatFromName(in.DocumentName)
}

// InputSummary is the part of Input kept on a session.
type InputSummary struct {
	DocumentName string         `json:"document_name,omitempty"`
	Format       extract.Format `json:"format,omitempty"`
	URL          string         `json:"url,omitempty"`
}

// Session holds one user's extracted text, section results and notices.
// All methods are safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	input   InputSummary
	text    string
	memo    *Memo
	notices []Notice
}

// NewSession returns an empty session for in with a fresh random ID.
func NewSession(in Input) *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		input:     InputSummary{DocumentName: in.DocumentName, Format: in.format(), URL: in.URL},
	}
}

// Notify records n on the session.
func (s *Session) Notify(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
}

// Notices returns a copy of the notices raised so far, oldest first.
func (s *Session) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notice, len(s.notices))
	copy(out, s.notices)
	return out
}

func (s *Session) setText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

// Text returns the extracted text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *Session) setMemo(m *Memo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memo = m
}

// HasMemo reports whether a generation pass has completed.
func (s *Session) HasMemo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memo != nil
}

// Edit replaces one section's text with a user edit.
func (s *Session) Edit(name, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memo == nil {
		return ErrUnknownSection
	}
	return s.memo.Edit(name, text)
}

// Sections returns the current section results, or nil before generation.
func (s *Session) Sections() []Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memo == nil {
		return nil
	}
	return s.memo.Sections()
}

// Assemble renders the current, post-edit memo.
func (s *Session) Assemble() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memo == nil {
		return ""
	}
	return s.memo.Assemble()
}

// View is the JSON representation of a session.
type View struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Input     InputSummary `json:"input"`
	TextChars int          `json:"text_chars"`
	Sections  []Section    `json:"sections"`
	Notices   []Notice     `json:"notices"`
}

// Snapshot returns a consistent copy of the session state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Input:     s.input,
		TextChars: len([]rune(s.text)),
		Sections:  []Section{},
		Notices:   make([]Notice, len(s.notices)),
	}
	copy(v.Notices, s.notices)
	if s.memo != nil {
		v.Sections = s.memo.Sections()
	}
	return v
}
