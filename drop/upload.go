package drop

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/weavedrop/weavedrop-go/envelope"
	"github.com/weavedrop/weavedrop-go/history"
	"github.com/weavedrop/weavedrop-go/sharelink"
	"github.com/weavedrop/weavedrop-go/tx"
)

// DefaultContentType is used when the caller does not name one.
const DefaultContentType = "application/octet-stream"

// envelopeContentType is the Content-Type tag of encrypted records, whose
// stored form is the envelope JSON rather than the original content.
const envelopeContentType = "application/json"

// UploadOpts holds options for one upload.
type UploadOpts struct {
	Content     []byte
	ContentType string        // original content type; defaults to DefaultContentType
	Filename    string        // optional display name, tagged when a drive exists
	Mode        envelope.Mode // key provenance; zero value is ModeRandom, plaintext needs an explicit ModeNone
	CustomKey   []byte        // required iff Mode == ModeCustom
	Note        string        // free-form note for the history log
	NoDrive     bool          // omit drive tags even when a drive exists
}

// UploadResult is the outcome of one upload.
type UploadResult struct {
	ID       string
	URL      string // canonical retrieval URL: <gateway>/<id>
	ShareURL string // capability URL; empty for unencrypted uploads
	// Key is the encryption key, present only transiently so the caller
	// can display or embed it. It is never persisted alongside ID.
	Key       []byte
	Encrypted bool
	Size      int // original content size in bytes
}

// Upload stores content on the network.
//
// Sequence: resolve key -> encrypt (or pass through) -> tag -> sign ->
// submit. Exactly one network submission happens per call, and a failed
// submission is never retried here. When a drive exists and NoDrive is
// unset the record carries the drive convention tags; otherwise it is a
// plain, unorganized record.
func (e *Engine) Upload(ctx context.Context, opts *UploadOpts) (*UploadResult, error) {
	if opts == nil {
		return nil, fmt.Errorf("drop: nil upload options")
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	key, encrypt, err := envelope.ResolveKey(opts.Mode, opts.CustomKey, e.driveKey)
	if err != nil {
		return nil, err
	}

	payload := opts.Content
	storedType := contentType
	if encrypt {
		env, err := envelope.Encrypt(opts.Content, key)
		if err != nil {
			return nil, err
		}
		if payload, err = env.Marshal(); err != nil {
			return nil, err
		}
		storedType = envelopeContentType
	}

	rec, err := tx.NewRecord(&tx.RecordParams{
		Owner: e.Wallet.Owner(),
		Data:  payload,
		Tags:  e.uploadTags(storedType, opts),
	})
	if err != nil {
		return nil, err
	}
	if err := rec.Sign(e.Wallet.Key); err != nil {
		return nil, err
	}

	id, err := e.Service.Submit(ctx, rec)
	if err != nil {
		return nil, err
	}

	res := &UploadResult{
		ID:        id,
		URL:       e.cfg.Gateway + "/" + id,
		Key:       key,
		Encrypted: encrypt,
		Size:      len(opts.Content),
	}
	if encrypt {
		res.ShareURL = sharelink.Build(e.cfg.ServerOrigin, id, key)
	}

	if e.Cache != nil {
		_ = e.Cache.Put(id, payload)
	}
	if e.History != nil {
		// The persisted link is stripped of its fragment: the key must
		// never be written to disk alongside the id.
		_ = e.History.Record(history.Entry{
			ID:        id,
			URL:       res.URL,
			ShareURL:  sharelink.RequestTarget(res.ShareURL),
			Encrypted: encrypt,
			Size:      int64(len(opts.Content)),
			Note:      opts.Note,
		})
	}

	return res, nil
}

// uploadTags assembles the record tags. App-Name and Content-Type are
// always present; the drive convention tags join them when a drive exists
// and the caller did not opt out.
func (e *Engine) uploadTags(storedType string, opts *UploadOpts) []tx.Tag {
	tags := []tx.Tag{
		{Name: tx.TagAppName, Value: e.cfg.AppName},
		{Name: tx.TagContentType, Value: storedType},
	}

	st := e.Drive.State()
	if st == nil || opts.NoDrive {
		return tags
	}

	tags = append(tags,
		tx.Tag{Name: tx.TagEntityType, Value: tx.EntityFile},
		tx.Tag{Name: tx.TagDriveID, Value: st.DriveID},
		tx.Tag{Name: tx.TagFileID, Value: uuid.NewString()},
		tx.Tag{Name: tx.TagParentFolderID, Value: st.RootFolderID},
		tx.Tag{Name: tx.TagUnixTime, Value: strconv.FormatInt(time.Now().Unix(), 10)},
	)
	if opts.Filename != "" {
		tags = append(tags, tx.Tag{Name: tx.TagFileName, Value: opts.Filename})
	}
	return tags
}
