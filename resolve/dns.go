package resolve

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// TXTPrefix marks the origin-bearing TXT record.
const TXTPrefix = "weavedrop="

// Resolver defines the DNS lookup interface. This allows tests to mock
// DNS resolution; DNSSECResolver provides a validating implementation.
type Resolver interface {
	// LookupTXT looks up TXT records for the given name.
	LookupTXT(name string) ([]string, error)
}

// defaultResolver wraps the standard net package DNS functions.
type defaultResolver struct{}

func (d *defaultResolver) LookupTXT(name string) ([]string, error) {
	return net.LookupTXT(name)
}

// DefaultResolver is the production DNS resolver using the net package.
var DefaultResolver Resolver = &defaultResolver{}

// TXTName returns the DNS name carrying the origin record for domain.
func TXTName(domain string) string {
	return "_weavedrop." + domain
}

// Resolve looks up the server origin published for domain.
func Resolve(domain string) (string, error) {
	return ResolveWithResolver(domain, DefaultResolver)
}

// ResolveWithResolver looks up _weavedrop.{domain} TXT records and extracts
// the origin from the first record with the "weavedrop=" prefix.
func ResolveWithResolver(domain string, resolver Resolver) (string, error) {
	if domain == "" {
		return "", fmt.Errorf("%w: empty domain", ErrLookupFailed)
	}

	name := TXTName(domain)
	txts, err := resolver.LookupTXT(name)
	if err != nil {
		return "", fmt.Errorf("%w: TXT lookup for %s: %w", ErrLookupFailed, name, err)
	}

	var origin string
	for _, txt := range txts {
		txt = strings.TrimSpace(txt)
		if strings.HasPrefix(txt, TXTPrefix) {
			origin = strings.TrimSpace(strings.TrimPrefix(txt, TXTPrefix))
			break
		}
	}
	if origin == "" {
		return "", fmt.Errorf("%w: no %s TXT record for %s", ErrNoRecord, TXTPrefix, name)
	}

	if err := validateOrigin(origin); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidOrigin, name, err)
	}
	return origin, nil
}

// ResolveLink resolves a drop:// short link to a full share URL, keeping
// any fragment intact.
func ResolveLink(uri string, resolver Resolver) (string, error) {
	link, err := ParseURI(uri)
	if err != nil {
		return "", err
	}
	origin, err := ResolveWithResolver(link.Domain, resolver)
	if err != nil {
		return "", err
	}
	return link.ShareURL(origin), nil
}

// validateOrigin checks the published origin is an absolute http(s) URL
// with a host and no trailing slash.
func validateOrigin(origin string) error {
	if strings.HasSuffix(origin, "/") {
		return fmt.Errorf("trailing slash in %q", origin)
	}
	u, err := url.Parse(origin)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", origin)
	}
	return nil
}
