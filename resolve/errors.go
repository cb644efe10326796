package resolve

import "errors"

var (
	// ErrInvalidURI indicates the string is not a drop:// short link.
	ErrInvalidURI = errors.New("resolve: invalid drop:// URI")

	// ErrLookupFailed indicates the DNS query itself failed.
	ErrLookupFailed = errors.New("resolve: DNS lookup failed")

	// ErrNoRecord indicates the domain publishes no weavedrop TXT record.
	ErrNoRecord = errors.New("resolve: no weavedrop record")

	// ErrInvalidOrigin indicates the published origin is not a usable
	// http(s) URL.
	ErrInvalidOrigin = errors.New("resolve: invalid published origin")

	// ErrDNSSECValidationFailed indicates the response was not
	// authenticated by the upstream resolver.
	ErrDNSSECValidationFailed = errors.New("resolve: DNSSEC validation failed")
)
