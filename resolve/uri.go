// Package resolve maps drop:// short links on custom domains to the share
// URLs of the deployment that serves them.
//
// A short link drop://{domain}/{id} names a record by domain instead of by
// server origin. The domain publishes its origin in a DNS TXT record at
// _weavedrop.{domain} with a "weavedrop=" prefix; resolution swaps the
// domain for that origin and yields an ordinary share URL. The fragment,
// when present, is preserved verbatim so the capability survives
// resolution.
package resolve

import (
	"fmt"
	"strings"
)

// Scheme is the short link URI scheme.
const Scheme = "drop"

// ShortLink is a parsed drop:// URI.
type ShortLink struct {
	Domain   string
	ID       string
	Fragment string // without leading '#', empty when absent
}

// ParseURI parses a drop://{domain}/{id}[#fragment] short link.
func ParseURI(uri string) (*ShortLink, error) {
	if uri == "" {
		return nil, fmt.Errorf("%w: empty URI", ErrInvalidURI)
	}

	const prefix = Scheme + "://"
	if !strings.HasPrefix(uri, prefix) {
		return nil, fmt.Errorf("%w: missing %s prefix", ErrInvalidURI, prefix)
	}
	rest := strings.TrimPrefix(uri, prefix)

	var fragment string
	if idx := strings.Index(rest, "#"); idx >= 0 {
		fragment = rest[idx+1:]
		rest = rest[:idx]
	}

	domain, id, ok := strings.Cut(rest, "/")
	if !ok || domain == "" || id == "" {
		return nil, fmt.Errorf("%w: want drop://domain/id, got %q", ErrInvalidURI, uri)
	}
	if strings.Contains(id, "/") {
		return nil, fmt.Errorf("%w: unexpected path after id", ErrInvalidURI)
	}
	if strings.ContainsAny(domain, " \t") || !strings.Contains(domain, ".") {
		return nil, fmt.Errorf("%w: %q is not a domain", ErrInvalidURI, domain)
	}

	return &ShortLink{Domain: domain, ID: id, Fragment: fragment}, nil
}

// ShareURL renders the short link against a resolved server origin.
func (l *ShortLink) ShareURL(origin string) string {
	u := origin + "/share/" + l.ID
	if l.Fragment != "" {
		u += "#" + l.Fragment
	}
	return u
}
