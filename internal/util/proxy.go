package util

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
)

// ProxySelector sends wiki requests through configured proxies, per scheme.
// A scheme without a usable proxy falls back to HTTP_PROXY/HTTPS_PROXY/NO_PROXY.
type ProxySelector struct {
	byScheme map[string]*url.URL
}

// NewProxySelector parses the proxy addresses once. Invalid addresses are logged and ignored.
func NewProxySelector(httpProxy, httpsProxy string) *ProxySelector {
	p := &ProxySelector{byScheme: make(map[string]*url.URL)}
	for scheme, raw := range map[string]string{"http": httpProxy, "https": httpsProxy} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			log.Warn().Err(err).Str("proxy", raw).Msg("ignoring invalid proxy address")
			continue
		}
		p.byScheme[scheme] = u
	}
	// The plain HTTP proxy also carries HTTPS traffic unless one is set for it
	if _, ok := p.byScheme["https"]; !ok {
		if u, ok := p.byScheme["http"]; ok {
			p.byScheme["https"] = u
		}
	}
	return p
}

// Proxy is suitable for http.Transport.Proxy
func (p *ProxySelector) Proxy(req *http.Request) (*url.URL, error) {
	if u, ok := p.byScheme[req.URL.Scheme]; ok {
		return u, nil
	}
	return http.ProxyFromEnvironment(req)
}
