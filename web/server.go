// Package web serves the merged catalog as a read-only JSON API. Filtering
// happens per request against the current snapshot; reloads swap the snapshot
// without blocking readers.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xa0627-sys/momoshop-watch/catalog"
	"github.com/xa0627-sys/momoshop-watch/fetch"
	"github.com/xa0627-sys/momoshop-watch/internal/logutil"
	"github.com/xa0627-sys/momoshop-watch/storage"
)

const defaultHistoryLimit = 20

// ReloadFunc runs the pipeline again and installs the result into the holder.
type ReloadFunc func(ctx context.Context) error

// LoadJournal reads journaled loads.
type LoadJournal interface {
	ListLoads(limit int) ([]storage.LoadRun, error)
	GetLoad(id int64) (storage.LoadRun, error)
}

type Server struct {
	holder  *catalog.Holder
	reload  ReloadFunc
	journal LoadJournal
	mux     *http.ServeMux
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type sourcesResponse struct {
	Sources []SourceRow `json:"sources"`
}

type historyResponse struct {
	Loads []LoadRow `json:"loads"`
}

type errorResponse struct {
	Error  string         `json:"error"`
	Status catalog.Status `json:"status"`
}

// NewServer builds the API handler. reload and journal may be nil; the
// matching endpoints then answer 501.
func NewServer(holder *catalog.Holder, reload ReloadFunc, journal LoadJournal) http.Handler {
	server := &Server{
		holder:  holder,
		reload:  reload,
		journal: journal,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", server.handleAPIProducts)
	mux.HandleFunc("GET /api/categories", server.handleAPICategories)
	mux.HandleFunc("GET /api/sources", server.handleAPISources)
	mux.HandleFunc("GET /api/status", server.handleAPIStatus)
	mux.HandleFunc("GET /api/history", server.handleAPIHistory)
	mux.HandleFunc("GET /api/history/{id}", server.handleAPIHistoryEntry)
	mux.HandleFunc("POST /api/reload", server.handleAPIReload)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleAPIProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	selector := catalog.NewSelector(query.Get("category"), query.Get("source"), query.Get("keyword"))

	writeJSON(w, http.StatusOK, BuildProductsView(s.holder.Current(), selector))
}

func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	categories := s.holder.Current().Categories()
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: categories})
}

func (s *Server) handleAPISources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sourcesResponse{Sources: BuildSourceRows(s.holder.Current())})
}

func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.holder.Status())
}

func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "load journal is not configured", http.StatusNotImplemented)
		return
	}

	limit := defaultHistoryLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit (expected a non-negative integer)", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := s.journal.ListLoads(limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("list loads: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Loads: BuildLoadRows(runs)})
}

func (s *Server) handleAPIHistoryEntry(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "load journal is not configured", http.StatusNotImplemented)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid load id (expected a positive integer)", http.StatusBadRequest)
		return
	}

	run, err := s.journal.GetLoad(id)
	if err != nil {
		if errors.Is(err, storage.ErrLoadNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("get load: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, BuildLoadRow(run))
}

func (s *Server) handleAPIReload(w http.ResponseWriter, r *http.Request) {
	if s.reload == nil {
		http.Error(w, "reload is not configured", http.StatusNotImplemented)
		return
	}

	if err := s.reload(r.Context()); err != nil {
		logutil.Log.WithFields(logrus.Fields{"error": err}).Warn("reload failed")
		writeJSON(w, reloadErrorStatus(err), errorResponse{Error: err.Error(), Status: s.holder.Status()})
		return
	}
	writeJSON(w, http.StatusOK, s.holder.Status())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func reloadErrorStatus(err error) int {
	if errors.Is(err, fetch.ErrUnavailable) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
