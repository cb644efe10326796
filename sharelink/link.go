// Package sharelink implements the capability URL protocol.
//
// A share link is {serverOrigin}/share/{id}#decrypt={key}, where the key is
// standard base64, percent-encoded, and carried only in the URL fragment.
// Fragments are never sent in HTTP requests, so the server that hosts the
// decrypt page never observes the key: possession of the full link is the
// entire access capability.
package sharelink

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/weavedrop/weavedrop-go/envelope"
)

// FragmentPrefix introduces the key inside the URL fragment.
const FragmentPrefix = "decrypt="

// SharePath is the share page route prefix on the server origin.
const SharePath = "/share/"

// Build constructs the capability URL for an encrypted upload.
func Build(serverOrigin, id string, key []byte) string {
	encoded := url.QueryEscape(base64.StdEncoding.EncodeToString(key))
	return serverOrigin + SharePath + id + "#" + FragmentPrefix + encoded
}

// RequestTarget returns the part of a link a client actually sends to the
// server: everything before the fragment.
func RequestTarget(link string) string {
	if idx := strings.Index(link, "#"); idx >= 0 {
		return link[:idx]
	}
	return link
}

// ParseID extracts the record id from a share link's path. The fragment is
// ignored entirely.
func ParseID(link string) (string, error) {
	target := RequestTarget(link)
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}

	idx := strings.LastIndex(u.Path, SharePath)
	if idx < 0 {
		return "", fmt.Errorf("%w: missing %q segment", ErrInvalidLink, SharePath)
	}
	id := u.Path[idx+len(SharePath):]
	if id == "" || strings.Contains(id, "/") {
		return "", fmt.Errorf("%w: missing record id", ErrInvalidLink)
	}
	return id, nil
}

// KeyFromLink recovers the decryption key from a share link's fragment.
//
// The three steps operate purely on the URL string, which is the basis of
// the capability guarantee:
//  1. Extract everything after "#decrypt="; ErrMissingKey if absent.
//  2. Percent-decode, trim whitespace, require valid standard base64;
//     ErrInvalidKeyEncoding otherwise.
//  3. Decode; ErrInvalidKeyLength unless exactly 32 bytes.
func KeyFromLink(link string) ([]byte, error) {
	idx := strings.Index(link, "#")
	if idx < 0 {
		return nil, ErrMissingKey
	}
	frag := link[idx+1:]
	if !strings.HasPrefix(frag, FragmentPrefix) {
		return nil, ErrMissingKey
	}

	encoded := strings.TrimPrefix(frag, FragmentPrefix)
	if encoded == "" {
		return nil, ErrMissingKey
	}

	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
	}
	decoded = strings.TrimSpace(decoded)

	key, err := base64.StdEncoding.DecodeString(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid base64", ErrInvalidKeyEncoding)
	}
	if len(key) != envelope.KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(key), envelope.KeySize)
	}
	return key, nil
}
