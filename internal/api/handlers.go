package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/lovincyrus/darkcyber-vault/internal/vault"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
	multipartMemory      = 8 << 20
)

var errUploadTooLarge = errors.New("request body too large")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, constraint, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "constraint": constraint})
}

// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	activity, err := s.vault.ActivityCount()
	if err != nil {
		s.log.Warn().Err(err).Msg("counting activity")
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"files":    s.vault.Stats().FileCount,
		"activity": activity,
	})
}

// GET /vault/files?q=
// Payloads are omitted from listings; fetch a single file for its data.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files := s.vault.Search(r.URL.Query().Get("q"))
	for i := range files {
		files[i].Data = ""
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"files":    files,
		"count":    len(files),
		"scanning": s.vault.Scanning(),
	})
}

// GET /vault/files/{id}
func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	rec, err := s.vault.Get(r.PathValue("id"))
	if err != nil {
		s.handleVaultError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// POST /vault/files (multipart, field "file")
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	req, err := readUpload(r)
	if err != nil {
		s.handleVaultError(w, err)
		return
	}
	rec, err := s.vault.Upload(r.Context(), req)
	if err != nil {
		s.handleVaultError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// DELETE /vault/files/{id}
func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.vault.Delete(id) {
		s.handleVaultError(w, vault.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// POST /vault/files/{id}/scan
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if !s.aiLimit.allow() {
		writeError(w, http.StatusTooManyRequests, "rate_limited", "too many analysis requests, try again later")
		return
	}
	rec, err := s.vault.Scan(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleVaultError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GET /vault/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.vault.Stats())
}

// GET /vault/chat
func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"messages": s.vault.Conversation(),
		"busy":     s.vault.ChatBusy(),
	})
}

// POST /vault/chat
func (s *Server) handleSendChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if !s.aiLimit.allow() {
		writeError(w, http.StatusTooManyRequests, "rate_limited", "too many messages, try again later")
		return
	}
	msg, err := s.vault.SendMessage(r.Context(), body.Message)
	if err != nil {
		s.handleVaultError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// GET /vault/activity?limit=
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = min(n, maxActivityLimit)
	}
	entries, err := s.vault.Activity(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("reading activity")
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

// readUpload extracts the "file" part of a multipart request.
func readUpload(r *http.Request) (vault.UploadRequest, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return vault.UploadRequest{}, errUploadTooLarge
		}
		return vault.UploadRequest{}, vault.ErrInvalidUpload
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return vault.UploadRequest{}, vault.ErrInvalidUpload
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return vault.UploadRequest{}, vault.ErrInvalidUpload
	}
	ctype := hdr.Header.Get("Content-Type")
	if ctype == "" {
		ctype = mime.TypeByExtension(filepath.Ext(hdr.Filename))
	}
	return vault.UploadRequest{Name: hdr.Filename, Type: ctype, Data: data}, nil
}

func (s *Server) handleVaultError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, vault.ErrFileTooLarge), errors.Is(err, errUploadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", s.vault.Limits().UploadNotice())
	case errors.Is(err, vault.ErrInvalidUpload):
		writeError(w, http.StatusBadRequest, "invalid_request", "multipart field \"file\" with a file name is required")
	case errors.Is(err, vault.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "file not found")
	case errors.Is(err, vault.ErrScanInProgress):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, vault.ErrChatBusy):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, vault.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
