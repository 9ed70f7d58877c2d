package dashboard

import (
	"net/http"
	"strings"

	"rentdash/internal/session"
)

// Session endpoints cover what the browser would otherwise keep in local
// storage: the upstream bearer token, the signed-in admin profile and the
// theme preference.

func (h *Handlers) handleSessionToken(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var body struct {
			Token   string                `json:"token"`
			Profile *session.AdminProfile `json:"profile,omitempty"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if strings.TrimSpace(body.Token) == "" {
			writeError(w, http.StatusBadRequest, "token is required")
			return
		}
		if err := h.session.SetToken(r.Context(), body.Token); err != nil {
			writeError(w, http.StatusInternalServerError, "store token failed")
			return
		}
		if body.Profile != nil {
			if err := h.session.SetProfile(r.Context(), body.Profile); err != nil {
				writeError(w, http.StatusInternalServerError, "store profile failed")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "stored"})

	case http.MethodDelete:
		if err := h.session.ClearToken(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "clear token failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handlers) handleSessionProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	profile, err := h.session.Profile(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "read profile failed")
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "no profile stored")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handlers) handleSessionTheme(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		theme, err := h.session.Theme(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "read theme failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"theme": theme})

	case http.MethodPut:
		var body struct {
			Theme string `json:"theme"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		theme := strings.TrimSpace(body.Theme)
		if theme != "light" && theme != "dark" {
			writeError(w, http.StatusBadRequest, "theme must be light or dark")
			return
		}
		if err := h.session.SetTheme(r.Context(), theme); err != nil {
			writeError(w, http.StatusInternalServerError, "store theme failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"theme": theme})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
