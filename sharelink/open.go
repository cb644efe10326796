package sharelink

import (
	"context"

	"github.com/weavedrop/weavedrop-go/envelope"
)

// Fetcher retrieves the raw stored bytes of a record by id. Satisfied by
// network.Service implementations and by cache-backed wrappers.
type Fetcher interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// OpenResult is the outcome of opening a share link.
type OpenResult struct {
	// ID is the record identifier the link points at.
	ID string

	// Data is the decrypted plaintext.
	Data []byte

	// Text reports whether Data classifies as presentable text.
	Text bool
}

// Open executes the client-side decrypt procedure for a share link: parse
// the id and key from the URL, fetch the stored envelope by id, decrypt
// locally, and classify the plaintext.
//
// The key comes exclusively from the URL fragment and is never part of the
// fetch request. Retrieval failures surface the fetcher's error, typically
// network.ErrContentNotFound.
func Open(ctx context.Context, f Fetcher, link string) (*OpenResult, error) {
	id, err := ParseID(link)
	if err != nil {
		return nil, err
	}
	key, err := KeyFromLink(link)
	if err != nil {
		return nil, err
	}

	body, err := f.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	env, err := envelope.Parse(body)
	if err != nil {
		return nil, err
	}
	plaintext, err := envelope.Decrypt(env, key)
	if err != nil {
		return nil, err
	}

	return &OpenResult{ID: id, Data: plaintext, Text: IsText(plaintext)}, nil
}
