package app

import (
	"net"
	"net/http"
	"time"

	"github.com/hyperifyio/memogen/internal/fetch"
)

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16, // one per in-flight section is plenty
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// newLLMHTTPClient returns the client used for model calls. The per-call
// context deadline is the primary bound; the client timeout adds a margin
// so a stuck connection cannot outlive it.
func newLLMHTTPClient(requestTimeout time.Duration) *http.Client {
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	return &http.Client{
		Transport: newTransport(),
		Timeout:   requestTimeout + 5*time.Second,
	}
}

// newFetchHTTPClient returns the client used for the single website GET.
// Redirect policy is applied by fetch.Client.
func newFetchHTTPClient() *http.Client {
	return &http.Client{
		Transport: newTransport(),
		Timeout:   fetch.DefaultTimeout,
	}
}
