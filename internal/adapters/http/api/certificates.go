// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// CertificateDependencies defines the interface for certificate lookups.
type CertificateDependencies interface {
	CertificateNames(ctx context.Context, event string, refresh bool) ([]string, error)
	Certificate(ctx context.Context, event, name string) ([]byte, error)
}

// CertificatesHandler handles certificate listing and download requests.
type CertificatesHandler struct {
	deps CertificateDependencies
}

// NewCertificatesHandler creates a new certificates handler.
func NewCertificatesHandler(deps CertificateDependencies) *CertificatesHandler {
	return &CertificatesHandler{deps: deps}
}

// HandleCertificates handles GET /certificates/{event}?refresh= and
// GET /certificates/{event}/{name}?download= requests.
func (h *CertificatesHandler) HandleCertificates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	// Extract path parameters after /certificates/
	path := strings.TrimPrefix(r.URL.Path, "/certificates/")
	if path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	event := parts[0]
	if len(parts) == 1 {
		h.handleNames(w, r, event)
		return
	}
	h.handleDownload(w, r, event, parts[1])
}

// handleNames lists the display names available for one event.
func (h *CertificatesHandler) handleNames(w http.ResponseWriter, r *http.Request, event string) {
	names, err := h.deps.CertificateNames(r.Context(), event, parseRefresh(r))
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// handleDownload serves one certificate image, optionally as an attachment.
func (h *CertificatesHandler) handleDownload(w http.ResponseWriter, r *http.Request, event, name string) {
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	img, err := h.deps.Certificate(r.Context(), event, name)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if v, err := strconv.ParseBool(r.URL.Query().Get("download")); err == nil && v {
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`_certificate.png"`)
	}
	_, _ = w.Write(img)
}
