package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"

	"github.com/scraptools/txml/pkg/storage"
	"github.com/scraptools/txml/pkg/txml"
	"github.com/scraptools/txml/pkg/xmltree"
)

// Server holds the conversion service state
type Server struct {
	config  ServerConfig
	metrics *Metrics
	docs    *storage.DocumentStore // nil when storage is disabled
}

// NewServer creates a new conversion service
func NewServer(config ServerConfig, metrics *Metrics, docs *storage.DocumentStore) *Server {
	if config.Indent <= 0 {
		config.Indent = 2
	}
	return &Server{
		config:  config,
		metrics: metrics,
		docs:    docs,
	}
}

// handleHealth reports service liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "ok"})
}

// handleDecode converts a binary TXML request body to XML. With ?store=true
// the result is persisted and its id returned instead of the XML body.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	doc, err := txml.Decode(body)
	if err != nil {
		s.metrics.RecordConversion("decode", false, len(body), time.Since(start))
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	out, err := xmltree.Marshal(doc, s.config.Indent)
	if err != nil {
		s.metrics.RecordConversion("decode", false, len(body), time.Since(start))
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordConversion("decode", true, len(body), time.Since(start))

	if r.URL.Query().Get("store") == "true" {
		s.storeResult(w, out)
		return
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// handleEncode converts an XML request body to binary TXML. With ?store=true
// the result is persisted and its id returned instead of the binary body.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	doc, err := xmltree.Unmarshal(body)
	if err != nil {
		s.metrics.RecordConversion("encode", false, len(body), time.Since(start))
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	out, err := txml.Encode(doc)
	if err != nil {
		s.metrics.RecordConversion("encode", false, len(body), time.Since(start))
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.metrics.RecordConversion("encode", true, len(body), time.Since(start))

	if r.URL.Query().Get("store") == "true" {
		s.storeResult(w, out)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// handleGetDocument fetches a previously stored conversion result
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	if s.docs == nil {
		sendError(w, "Document storage is disabled", http.StatusNotFound)
		return
	}

	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid document id", http.StatusBadRequest)
		return
	}

	data, err := s.docs.Get(&id)
	if err != nil {
		s.metrics.RecordStoreOperation("get", false)
		if errors.Is(err, pebble.ErrNotFound) {
			sendError(w, "Document not found", http.StatusNotFound)
			return
		}
		sendError(w, "Failed to read document", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordStoreOperation("get", true)

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) storeResult(w http.ResponseWriter, data []byte) {
	if s.docs == nil {
		sendError(w, "Document storage is disabled", http.StatusBadRequest)
		return
	}
	id, err := s.docs.Put(data)
	if err != nil {
		s.metrics.RecordStoreOperation("put", false)
		sendError(w, "Failed to store document", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordStoreOperation("put", true)
	sendSuccess(w, StoredDocument{ID: id.String(), Size: len(data)})
}
