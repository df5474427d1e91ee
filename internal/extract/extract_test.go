package extract

import (
	"strings"
	"testing"
)

func TestFromHTML_PrefersMainOverBody(t *testing.T) {
	html := `<!doctype html>
    <html>
      <head><title>Test Page</title></head>
      <body>
        <nav>Nav should be ignored</nav>
        <main>
          <h1>Main Heading</h1>
          <p>This is the main content paragraph.</p>
        </main>
        <footer>Footer text</footer>
      </body>
    </html>`

	doc := FromHTML([]byte(html))
	if doc.Title != "Test Page" {
		t.Fatalf("expected title 'Test Page', got %q", doc.Title)
	}
	if doc.Selector != "main" {
		t.Fatalf("expected main selector, got %q", doc.Selector)
	}
	if doc.Text != "Main Heading\nThis is the main content paragraph." {
		t.Fatalf("unexpected main text: %q", doc.Text)
	}
	if strings.Contains(doc.Text, "Nav should be ignored") || strings.Contains(doc.Text, "Footer text") {
		t.Fatalf("did not expect text outside main; got %q", doc.Text)
	}
}

func TestFromHTML_ArticleWinsOverMain(t *testing.T) {
	html := `<html><body>
      <main><p>Main text</p></main>
      <article><p>Article text</p></article>
    </body></html>`

	doc := FromHTML([]byte(html))
	if doc.Text != "Article text" {
		t.Fatalf("expected article text only, got %q", doc.Text)
	}
	if doc.Selector != "article" {
		t.Fatalf("expected article selector, got %q", doc.Selector)
	}
}

func TestFromHTML_ContentClassFallback(t *testing.T) {
	html := `<html><body>
      <div class="header">Top banner</div>
      <div class="wrapper content">
        <h2>About   Acme</h2>
        <p>We build <b>rockets</b>.</p>
      </div>
    </body></html>`

	doc := FromHTML([]byte(html))
	if doc.Selector != ".content" {
		t.Fatalf("expected .content selector, got %q", doc.Selector)
	}
	want := "About   Acme\nWe build\nrockets\n."
	if doc.Text != want {
		t.Fatalf("unexpected text\n got: %q\nwant: %q", doc.Text, want)
	}
}

func TestFromHTML_FallbackToVisibleText(t *testing.T) {
	html := `<!doctype html>
    <html>
      <head><title>No Main</title><style>.x{color:red}</style></head>
      <body>
        <h2>Body Heading</h2>
        <script>var hidden = 1;</script>
        <p>Body paragraph</p>
      </body>
    </html>`

	doc := FromHTML([]byte(html))
	if doc.Title != "No Main" {
		t.Fatalf("expected title 'No Main', got %q", doc.Title)
	}
	if doc.Selector != "" {
		t.Fatalf("expected no selector match, got %q", doc.Selector)
	}
	if doc.Text != "Body Heading\nBody paragraph" {
		t.Fatalf("unexpected fallback text: %q", doc.Text)
	}
}

func TestFromHTML_PreservesListItems(t *testing.T) {
	html := `<!doctype html>
    <html>
      <head><title>List</title></head>
      <body>
        <article>
          <h3>Examples</h3>
          <ul>
            <li>First item</li>
            <li>Second item</li>
          </ul>
        </article>
      </body>
    </html>`

	doc := FromHTML([]byte(html))
	if doc.Text != "Examples\nFirst item\nSecond item" {
		t.Fatalf("unexpected list text: %q", doc.Text)
	}
}

func TestSelectorExtractor_MatchesFromHTML(t *testing.T) {
	in := []byte(`<html><body><main>Same</main></body></html>`)
	var e Extractor = SelectorExtractor{}
	if got, want := e.Extract(in), FromHTML(in); got != want {
		t.Fatalf("extractor mismatch: %+v vs %+v", got, want)
	}
}

func TestFromHTML_TrimsButKeepsInnerWhitespace(t *testing.T) {
	html := "<html><body><article><p>  Series   A\tround  </p></article></body></html>"

	doc := FromHTML([]byte(html))
	if doc.Text != "Series   A\tround" {
		t.Fatalf("expected inner whitespace preserved, got %q", doc.Text)
	}
}

func TestPageAndDocumentCoexist(t *testing.T) {
	var page Page = FromHTML([]byte(`<html><head><title>Acme</title></head><body><article>Deck</article></body></html>`))
	if page.Title != "Acme" || page.Text != "Deck" || page.Selector != "article" {
		t.Fatalf("unexpected page: %+v", page)
	}
	if _, err := Document(nil, FormatPDF); err == nil {
		t.Fatal("expected an error for an empty PDF payload")
	}
}
