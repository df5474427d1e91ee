package memo

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/memogen/internal/extract"
)

// TextSource returns the readable text of a web page. *scrape.Scraper
// satisfies it.
type TextSource interface {
	Text(ctx context.Context, url string) (string, error)
}

// Observer receives progress events. With Concurrency > 1 events arrive from
// several goroutines.
type Observer interface {
	SectionStarted(index int, name string)
	SectionFinished(index int, s Section)
}

type nopObserver struct{}

func (nopObserver) SectionStarted(int, string)   {}
func (nopObserver) SectionFinished(int, Section) {}

// Orchestrator runs extraction and then one generation call per section.
type Orchestrator struct {
	Web       TextSource
	Generator *SectionGenerator
	// Sections defaults to DefaultSections when empty.
	Sections []SectionSpec
	// Concurrency bounds in-flight generation calls. Values below 2 run the
	// sections one after another.
	Concurrency int
}

func (o *Orchestrator) sections() []SectionSpec {
	if len(o.Sections) == 0 {
		return DefaultSections()
	}
	return o.Sections
}

// Extract builds the text for in: document text first, then the website
// text separated by a blank line. Document parse errors and website
// failures are reported through n and never abort extraction.
func (o *Orchestrator) Extract(ctx context.Context, in Input, n Notifier) (string, error) {
	if !in.HasDocument() && strings.TrimSpace(in.URL) == "" {
		notify(n, LevelWarning, SourceInput, "Please upload a pitch deck or provide a website URL.")
		return "", ErrInputMissing
	}

	var text string
	if in.HasDocument() {
		format := in.format()
		docText, err := extract.Document(in.Document, format)
		if err != nil {
			docText = extract.ErrorText(format, err)
			notify(n, LevelError, SourceDocument, docText)
		} else {
			notify(n, LevelInfo, SourceDocument, "Pitch deck processed!")
		}
		text = docText
	}

	if url := strings.TrimSpace(in.URL); url != "" {
		webText, err := o.scrape(ctx, url)
		if err != nil {
			notify(n, LevelError, SourceWebsite, fmt.Sprintf("Error accessing website %s: %v", url, err))
			webText = ""
		} else {
			notify(n, LevelInfo, SourceWebsite, "Website scraped!")
		}
		if text != "" {
			text += "\n\n"
		}
		text += webText
	}

	if strings.TrimSpace(text) == "" {
		notify(n, LevelError, SourceInput, "Could not extract any meaningful text from the provided sources. Please check the files/URL.")
		return text, ErrExtractionEmpty
	}
	return text, nil
}

func (o *Orchestrator) scrape(ctx context.Context, url string) (string, error) {
	if o.Web == nil {
		return "", fmt.Errorf("no website fetcher configured")
	}
	return o.Web.Text(ctx, url)
}

// CheckCredential reports ErrCredentialMissing through n when no API key is
// configured.
func (o *Orchestrator) CheckCredential(n Notifier) error {
	if o.Generator == nil || o.Generator.Credential == "" {
		notify(n, LevelError, SourceSecrets, "API key not found in the secret store. Please configure it for the AI to work.")
		return ErrCredentialMissing
	}
	return nil
}

// Generate calls the section generator once per section and returns the
// results in section order regardless of completion order. Sections not
// started before ctx is done are marked skipped.
func (o *Orchestrator) Generate(ctx context.Context, text string, n Notifier, obs Observer) *Memo {
	if obs == nil {
		obs = nopObserver{}
	}
	specs := o.sections()
	results := make([]Section, len(specs))

	run := func(i int) {
		spec := specs[i]
		if ctx.Err() != nil {
			results[i] = Section{Name: spec.Name, Status: StatusSkipped}
			log.Debug().Str("section", spec.Name).Msg("skipped after cancellation")
			obs.SectionFinished(i, results[i])
			return
		}
		obs.SectionStarted(i, spec.Name)
		results[i] = o.Generator.Generate(ctx, spec, text, n)
		obs.SectionFinished(i, results[i])
	}

	if o.Concurrency < 2 {
		for i := range specs {
			run(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(o.Concurrency)
		for i := range specs {
			i := i
			g.Go(func() error {
				run(i)
				return nil
			})
		}
		_ = g.Wait()
	}

	m := NewMemo(specs)
	for _, r := range results {
		_ = m.Put(r)
	}
	return m
}

// Run executes the whole pipeline on s: extraction, the credential check
// and generation. Precondition failures return their sentinel error before
// any generation call.
func (o *Orchestrator) Run(ctx context.Context, s *Session, in Input, obs Observer) error {
	text, err := o.Extract(ctx, in, s)
	s.setText(text)
	if err != nil {
		return err
	}
	return o.Regenerate(ctx, s, obs)
}

// Regenerate reruns generation on the text already extracted into s,
// replacing any previous results and user edits.
func (o *Orchestrator) Regenerate(ctx context.Context, s *Session, obs Observer) error {
	text := s.Text()
	if strings.TrimSpace(text) == "" {
		notify(s, LevelError, SourceInput, "Could not extract any meaningful text from the provided sources. Please check the files/URL.")
		return ErrExtractionEmpty
	}
	if err := o.CheckCredential(s); err != nil {
		return err
	}
	s.setMemo(o.Generate(ctx, text, s, obs))
	return nil
}
