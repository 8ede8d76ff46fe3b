package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/logger"
)

type uploadResponse struct {
	Message         string `json:"message"`
	Pages           int    `json:"pages"`
	AlreadyIngested bool   `json:"already_ingested"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type clauseResponse struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Type     string         `json:"type"`
	Distance float64        `json:"distance"`
	Metadata map[string]any `json:"metadata"`
}

type fileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"Hello": "World"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		status := http.StatusBadRequest
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, "A file upload is required", err)
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		writeError(w, http.StatusBadRequest, "A file name is required", domain.ErrInvalidInput)
		return
	}

	path, err := s.stage(file, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not store the upload", err)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Removing staged upload %s: %v", path, err)
		}
	}()
	logger.Debug("Stored upload %q at %s", name, path)

	result, err := s.ports.Ingestion.Ingest(r.Context(), path, name)
	s.metrics.recordUpload(result, err)
	if err != nil {
		logger.Error("Ingesting %q: %v", name, err)
		writeError(w, statusFor(err), "An error occurred during document processing", err)
		return
	}

	message := "Document parsed successfully"
	if result.AlreadyIngested {
		message = "Document already processed"
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		Message:         message,
		Pages:           result.PagesProcessed,
		AlreadyIngested: result.AlreadyIngested,
	})
}

// stage copies the upload into a temp file that keeps the original
// extension, so parsers can detect the document type.
func (s *Server) stage(src io.Reader, name string) (string, error) {
	tmp, err := os.CreateTemp(s.tempDir, "wilson-upload-*"+strings.ToLower(filepath.Ext(name)))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmp.Name(), nil
}

func (s *Server) handleClauses(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	candidates, err := s.ports.Clause.ExtractAll(r.Context(), filename)
	if err != nil {
		writeError(w, statusFor(err), "Could not extract clauses", err)
		return
	}
	s.metrics.recordCandidates(candidates)

	out := make([]clauseResponse, len(candidates))
	for i := range candidates {
		out[i] = toClauseResponse(&candidates[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	docs, err := s.ports.Document.List(r.Context())
	if err != nil {
		writeError(w, statusFor(err), "Could not list files", err)
		return
	}

	out := make([]fileResponse, len(docs))
	for i, d := range docs {
		out[i] = fileResponse{ID: d.ID, Name: d.Name, CreatedAt: d.IngestedAt}
	}
	writeJSON(w, http.StatusOK, out)
}

// toClauseResponse shapes a candidate the way the web frontend reads it:
// heading labels under "Header N" keys next to the page and file name.
func toClauseResponse(c *domain.ClauseCandidate) clauseResponse {
	meta := map[string]any{
		"page_number": c.Metadata.PageNumber,
		"file_name":   c.Metadata.DocumentName,
	}
	for level := 1; level <= domain.MaxHeadingLevel; level++ {
		if label := c.Metadata.Headings.Level(level); label != "" {
			meta[fmt.Sprintf("Header %d", level)] = label
		}
	}

	return clauseResponse{
		ID:       c.ID,
		Text:     c.Text,
		Type:     c.ClauseType.String(),
		Distance: c.Distance,
		Metadata: meta,
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrParseFailure), errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	writeJSON(w, status, errorResponse{Message: message, Error: err.Error()})
}
