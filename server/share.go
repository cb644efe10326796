package server

import (
	_ "embed"
	"html/template"
	"net/http"
)

//go:embed share.html
var sharePage string

var shareTemplate = template.Must(template.New("share").Parse(sharePage))

// handleShare serves the static client-side decrypt page. The record id is
// the only value injected server-side; the decryption key lives in the URL
// fragment, which the browser never sends here.
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !validID(id) {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// The page embeds no secrets, but its fragment-carrying URL should
	// not end up in shared caches.
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Referrer-Policy", "no-referrer")

	if err := shareTemplate.Execute(w, struct{ ID string }{ID: id}); err != nil {
		s.log.Error("share page render failed", "id", id, "error", err)
	}
}
