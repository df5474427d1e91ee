package extract

// Extractor defines a minimal interface for content extraction strategies.
// Implementations can swap readability tactics without changing callers.
type Extractor interface {
	// Extract converts raw HTML bytes into a Page.
	// Implementations should be deterministic and avoid side effects.
	Extract(input []byte) Page
}

// SelectorExtractor uses FromHTML: article, then main, then .content, then
// every visible text node.
type SelectorExtractor struct{}

func (SelectorExtractor) Extract(input []byte) Page {
	return FromHTML(input)
}
