package memo

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SectionSpec is one memo section: its heading and the instruction sent to
// the model.
type SectionSpec struct {
	Name        string `yaml:"name" json:"name"`
	Instruction string `yaml:"instruction" json:"instruction"`
}

var defaultSections = []SectionSpec{
	{"Executive Summary", "Generate a concise, plain-language elevator pitch for the company."},
	{"Quick Facts", "Extract the company's foundation date, details about any funding rounds (amount, type, investors), and any significant contracts or partnerships mentioned."},
	{"Customer Persona", "Describe the ideal customer or target audience for the company's product/service. Who buys it and why?"},
	{"Problem", "Identify the core problem or pain point that the company's product/service is designed to solve."},
	{"Solution", "Describe the actual product, service, or approach the company uses to solve the identified problem. Explain its key features and how it works."},
	{"Customer Voice / Expert Opinion", "Extract any customer testimonials, case studies, or expert opinions that validate the company's offering."},
	{"Founding Team", "List the key founding team members and their roles, along with any notable relevant experience."},
	{"Fundraising and GTM", "Detail the company's fundraising 'ask' (what they are seeking), their go-to-market strategy, and any current traction (e.g., users, revenue, growth metrics)."},
	{"Key Risk", "Identify and describe the main risks or challenges the company might face (e.g., market competition, regulatory, execution)."},
	{"Media (Optional)", "Extract any mentions of media coverage, awards, or significant public recognition."},
}

// DefaultSections returns a fresh copy of the built-in ten sections in memo
// order.
func DefaultSections() []SectionSpec {
	out := make([]SectionSpec, len(defaultSections))
	copy(out, defaultSections)
	return out
}

type sectionsFile struct {
	Sections []SectionSpec `yaml:"sections"`
}

// LoadSections reads a YAML file of the form
//
//	sections:
//	  - name: Executive Summary
//	    instruction: ...
//
// and validates it.
func LoadSections(path string) ([]SectionSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f sectionsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse sections file: %w", err)
	}
	if err := ValidateSections(f.Sections); err != nil {
		return nil, err
	}
	return f.Sections, nil
}

// ValidateSections requires at least one section and non-empty, unique
// names and instructions.
func ValidateSections(specs []SectionSpec) error {
	if len(specs) == 0 {
		return errors.New("sections: at least one section is required")
	}
	seen := make(map[string]struct{}, len(specs))
	for i, s := range specs {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("sections[%d]: name is empty", i)
		}
		if strings.TrimSpace(s.Instruction) == "" {
			return fmt.Errorf("sections[%d] %q: instruction is empty", i, name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("sections[%d]: duplicate name %q", i, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
