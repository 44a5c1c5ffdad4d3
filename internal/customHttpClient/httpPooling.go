package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/kbcurator/internal/config"
)

var (
	transportOnce   sync.Once
	customTransport *http.Transport
)

func transport() *http.Transport {
	transportOnce.Do(func() {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.MaxIdleConns = config.MaxIdleConns
		t.MaxIdleConnsPerHost = config.MaxIdleConnsPerHost
		t.IdleConnTimeout = config.IdleConnTimeout
		customTransport = t
	})
	return customTransport
}

// NewPooledClient returns a client sharing one keep-alive pool across the
// embedding providers.
func NewPooledClient() *http.Client {
	return &http.Client{
		Transport: transport(),
		Timeout:   config.EmbeddingRequestTimeout,
	}
}
