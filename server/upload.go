package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/weavedrop/weavedrop-go/drop"
	"github.com/weavedrop/weavedrop-go/envelope"
	"github.com/weavedrop/weavedrop-go/network"
)

// maxUploadSize caps the request body the upload endpoint accepts.
const maxUploadSize = 10 << 20

// uploadRequest is the JSON upload body.
type uploadRequest struct {
	Content        string `json:"content"`
	Encoding       string `json:"encoding"` // "" = plain text, "base64" = encoded bytes
	ContentType    string `json:"contentType"`
	Filename       string `json:"filename"`
	EncryptionMode string `json:"encryptionMode"`
	CustomKey      string `json:"customKey"` // base64
	Note           string `json:"note"`
}

// uploadResponse is the JSON upload reply.
type uploadResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	ShareURL  string `json:"shareUrl,omitempty"`
	Encrypted bool   `json:"encrypted"`
	Size      int    `json:"size"`
}

// handleUpload accepts an upload as multipart form data, JSON, or a raw
// body, normalizes it into drop.UploadOpts, and runs the engine.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var (
		opts *drop.UploadOpts
		err  error
	)
	switch {
	case mediaType == "multipart/form-data":
		opts, err = parseMultipartUpload(r)
	case mediaType == "application/json":
		opts, err = parseJSONUpload(r)
	default:
		opts, err = parseRawUpload(r)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(opts.Content) == 0 {
		writeError(w, http.StatusBadRequest, "empty content")
		return
	}

	res, err := s.engine.Upload(r.Context(), opts)
	if err != nil {
		s.log.Error("upload failed", "error", err, "size", len(opts.Content))
		writeError(w, uploadStatus(err), err.Error())
		return
	}

	s.log.Info("upload complete",
		"id", res.ID, "encrypted", res.Encrypted, "size", res.Size)

	writeJSON(w, http.StatusOK, uploadResponse{
		ID:        res.ID,
		URL:       res.URL,
		ShareURL:  res.ShareURL,
		Encrypted: res.Encrypted,
		Size:      res.Size,
	})
}

// uploadStatus maps an upload error to an HTTP status: user errors are
// 400s, a gateway rejection is a 502.
func uploadStatus(err error) int {
	switch {
	case errors.Is(err, envelope.ErrInvalidKey),
		errors.Is(err, envelope.ErrUnknownMode),
		errors.Is(err, envelope.ErrNoDriveKey):
		return http.StatusBadRequest
	case errors.Is(err, network.ErrSubmissionFailed),
		errors.Is(err, network.ErrConnectionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parseMultipartUpload reads the "file" part plus optional form fields
// mode, key (base64), and note.
func parseMultipartUpload(r *http.Request) (*drop.UploadOpts, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, errors.New("invalid multipart form")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("missing form file field \"file\"")
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("read form file")
	}

	mode, err := envelope.ParseMode(r.FormValue("mode"))
	if err != nil {
		return nil, err
	}
	customKey, err := decodeOptionalKey(r.FormValue("key"))
	if err != nil {
		return nil, err
	}

	return &drop.UploadOpts{
		Content:     content,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    sanitizeFilename(header.Filename),
		Mode:        mode,
		CustomKey:   customKey,
		Note:        r.FormValue("note"),
	}, nil
}

// parseJSONUpload reads an uploadRequest body.
func parseJSONUpload(r *http.Request) (*drop.UploadOpts, error) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.New("invalid JSON body")
	}

	var content []byte
	switch req.Encoding {
	case "":
		content = []byte(req.Content)
	case "base64":
		decoded, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			return nil, errors.New("content is not valid base64")
		}
		content = decoded
	default:
		return nil, errors.New("unsupported content encoding " + req.Encoding)
	}

	mode, err := envelope.ParseMode(req.EncryptionMode)
	if err != nil {
		return nil, err
	}
	customKey, err := decodeOptionalKey(req.CustomKey)
	if err != nil {
		return nil, err
	}

	contentType := req.ContentType
	if contentType == "" && req.Encoding == "" {
		contentType = "text/plain"
	}

	return &drop.UploadOpts{
		Content:     content,
		ContentType: contentType,
		Filename:    sanitizeFilename(req.Filename),
		Mode:        mode,
		CustomKey:   customKey,
		Note:        req.Note,
	}, nil
}

// parseRawUpload treats the body as the content itself. Mode, key, and
// note come from headers; the filename from the query string.
func parseRawUpload(r *http.Request) (*drop.UploadOpts, error) {
	content, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.New("read request body")
	}

	mode, err := envelope.ParseMode(r.Header.Get("X-Weavedrop-Mode"))
	if err != nil {
		return nil, err
	}
	customKey, err := decodeOptionalKey(r.Header.Get("X-Weavedrop-Key"))
	if err != nil {
		return nil, err
	}

	return &drop.UploadOpts{
		Content:     content,
		ContentType: r.Header.Get("Content-Type"),
		Filename:    sanitizeFilename(r.URL.Query().Get("filename")),
		Mode:        mode,
		CustomKey:   customKey,
		Note:        r.Header.Get("X-Weavedrop-Note"),
	}, nil
}

// decodeOptionalKey decodes a base64 custom key, tolerating the empty
// string. Length validation belongs to the key policy, not here.
func decodeOptionalKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.New("custom key is not valid base64")
	}
	return key, nil
}
