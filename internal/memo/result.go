package memo

import (
	"encoding/json"
	"fmt"
)

// Status of one section after a generation pass.
type Status string

const (
	StatusPending Status = "pending"
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Section is one memo entry. Text holds either the generated prose or, when
// Status is StatusFailed, the inline error string shown in its place.
type Section struct {
	Name    string      `json:"name"`
	Text    string      `json:"text"`
	Status  Status      `json:"status"`
	Failure FailureKind `json:"failure,omitempty"`
	Edited  bool        `json:"edited,omitempty"`
}

// Memo is the ordered set of section results. Order is fixed at
// construction and never changes; Put and Edit only replace bodies.
// A Memo is not safe for concurrent use; Session serializes access.
type Memo struct {
	sections []Section
	index    map[string]int
}

// NewMemo returns a memo with one pending entry per section, in list order.
func NewMemo(specs []SectionSpec) *Memo {
	m := &Memo{
		sections: make([]Section, len(specs)),
		index:    make(map[string]int, len(specs)),
	}
	for i, s := range specs {
		m.sections[i] = Section{Name: s.Name, Status: StatusPending}
		m.index[s.Name] = i
	}
	return m
}

// Put stores a generated result under its name.
func (m *Memo) Put(s Section) error {
	i, ok := m.index[s.Name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSection, s.Name)
	}
	m.sections[i] = s
	return nil
}

// Edit overwrites the text of one section with a user edit.
func (m *Memo) Edit(name, text string) error {
	i, ok := m.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	m.sections[i].Text = text
	m.sections[i].Edited = true
	return nil
}

// Sections returns a copy of the entries in memo order.
func (m *Memo) Sections() []Section {
	out := make([]Section, len(m.sections))
	copy(out, m.sections)
	return out
}

// Assemble renders the memo as Markdown.
func (m *Memo) Assemble() string { return Assemble(m.sections) }

// MarshalJSON encodes the entries as an array in memo order.
func (m *Memo) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.sections)
}
