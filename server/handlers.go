package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/weavedrop/weavedrop-go/network"
)

// historyLimit bounds the /api/history response.
const historyLimit = 50

// historyEntry is one row of the /api/history response.
type historyEntry struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	ShareURL  string `json:"shareUrl,omitempty"`
	CreatedAt string `json:"createdAt"`
	Encrypted bool   `json:"encrypted"`
	Size      int64  `json:"size"`
	Note      string `json:"note,omitempty"`
}

// handleHistory returns the most recent uploads, newest first. A
// deployment without a history store gets an empty list, not an error.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries := []historyEntry{}
	if s.engine.History != nil {
		recent, err := s.engine.History.Recent(historyLimit)
		if err != nil {
			s.log.Error("history query failed", "error", err)
			writeError(w, http.StatusInternalServerError, "history unavailable")
			return
		}
		for _, e := range recent {
			entries = append(entries, historyEntry{
				ID:        e.ID,
				URL:       e.URL,
				ShareURL:  e.ShareURL,
				CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
				Encrypted: e.Encrypted,
				Size:      e.Size,
				Note:      e.Note,
			})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"uploads": entries})
}

// statusResponse is the /api/status reply.
type statusResponse struct {
	Address string              `json:"address"`
	Drive   *driveStatus        `json:"drive"`
	Gateway *network.NodeStatus `json:"gateway,omitempty"`
}

type driveStatus struct {
	DriveID      string `json:"driveId"`
	RootFolderID string `json:"rootFolderId"`
}

// handleStatus reports the wallet identity, drive state, and (best
// effort) the gateway node status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Address: s.engine.Wallet.Address()}

	if st := s.engine.Drive.State(); st != nil {
		resp.Drive = &driveStatus{DriveID: st.DriveID, RootFolderID: st.RootFolderID}
	}

	if node, err := s.engine.Service.Status(r.Context()); err == nil {
		resp.Gateway = node
	} else {
		s.log.Warn("gateway status unavailable", "error", err)
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleRaw proxies the stored bytes of a record through the engine's
// cache-backed retrieval path. The share page fetches the envelope from
// here so the browser needs no gateway CORS setup.
func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !validID(id) {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	data, err := s.engine.Fetch(r.Context(), id)
	if err != nil {
		if errors.Is(err, network.ErrContentNotFound) {
			writeError(w, http.StatusNotFound, "content not found")
			return
		}
		s.log.Error("raw fetch failed", "id", id, "error", err)
		writeError(w, http.StatusBadGateway, "retrieval failed")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = w.Write(data)
}
