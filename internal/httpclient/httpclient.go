// Package httpclient builds the outbound HTTP clients shared by the provider adapters.
package httpclient

import (
	"net/http"
	"net/url"
	"time"
)

// BrowserUserAgent is sent to Yahoo endpoints, which reject the default Go agent.
const BrowserUserAgent = "Mozilla/5.0"

// New creates an HTTP client with an optional proxy. An unparsable proxy URL is ignored.
func New(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
