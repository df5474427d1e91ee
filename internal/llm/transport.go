package llm

import "net/http"

// headerTransport sets fixed headers on every outgoing request.
type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, vs := range t.headers {
		for _, v := range vs {
			r.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(r)
}

// attributionClient returns an HTTP client that adds OpenRouter-style
// attribution headers. With neither value set it returns base unchanged
// (or http.DefaultClient when base is nil).
func attributionClient(base *http.Client, referer, title string) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	if referer == "" && title == "" {
		return base
	}
	h := http.Header{}
	if referer != "" {
		h.Set("HTTP-Referer", referer)
	}
	if title != "" {
		h.Set("X-Title", title)
	}
	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	c := *base
	c.Transport = &headerTransport{base: rt, headers: h}
	return &c
}
