package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/lovincyrus/darkcyber-vault/internal/ui"
	"github.com/lovincyrus/darkcyber-vault/internal/vault"
)

// GET /ui?q=
func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, r.URL.Query().Get("q"), "")
}

func (s *Server) renderPage(w http.ResponseWriter, status int, query, notice string) {
	var buf bytes.Buffer
	if err := ui.Render(&buf, ui.BuildPage(s.vault, query, notice)); err != nil {
		s.log.Error().Err(err).Msg("rendering dashboard")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// backToUI ends every form intent with a redirect so a reload never repeats it.
func backToUI(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/ui", http.StatusSeeOther)
}

// POST /ui/upload
func (s *Server) handleUIUpload(w http.ResponseWriter, r *http.Request) {
	req, err := readUpload(r)
	if err == nil {
		_, err = s.vault.Upload(r.Context(), req)
	}
	switch {
	case err == nil:
	case errors.Is(err, vault.ErrFileTooLarge), errors.Is(err, errUploadTooLarge):
		s.renderPage(w, http.StatusRequestEntityTooLarge, "", s.vault.Limits().UploadNotice())
		return
	default:
		s.log.Warn().Err(err).Msg("dashboard upload rejected")
	}
	backToUI(w, r)
}

// POST /ui/files/{id}/scan
func (s *Server) handleUIScan(w http.ResponseWriter, r *http.Request) {
	if !s.aiLimit.allow() {
		s.renderPage(w, http.StatusTooManyRequests, "", "Analysis quota exhausted. Retry shortly.")
		return
	}
	if _, err := s.vault.Scan(r.Context(), r.PathValue("id")); err != nil {
		s.log.Warn().Err(err).Str("id", r.PathValue("id")).Msg("dashboard scan skipped")
	}
	backToUI(w, r)
}

// POST /ui/files/{id}/delete
func (s *Server) handleUIDelete(w http.ResponseWriter, r *http.Request) {
	s.vault.Delete(r.PathValue("id"))
	backToUI(w, r)
}

// POST /ui/chat
func (s *Server) handleUIChat(w http.ResponseWriter, r *http.Request) {
	msg := r.FormValue("message")
	if !s.aiLimit.allow() {
		s.renderPage(w, http.StatusTooManyRequests, "", "Communication quota exhausted. Retry shortly.")
		return
	}
	if _, err := s.vault.SendMessage(r.Context(), msg); err != nil && !errors.Is(err, vault.ErrEmptyMessage) {
		s.log.Warn().Err(err).Msg("dashboard message skipped")
	}
	backToUI(w, r)
}
