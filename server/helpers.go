package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
)

// idPattern matches the base64url record ids the network assigns.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// validID reports whether id looks like a record identifier. Keeps path
// garbage out of gateway requests and out of the share page template.
func validID(id string) bool {
	return idPattern.MatchString(id)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response with the given status code and
// message.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// sanitizeFilename strips directory traversal, quotes, and CR/LF from a
// filename so it is safe in tags and Content-Disposition headers. Empty
// input stays empty.
func sanitizeFilename(name string) string {
	if name == "" {
		return ""
	}
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(name)
	name = strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(name)
	if name == "" || name == "." || name == ".." {
		return "download"
	}
	return name
}
