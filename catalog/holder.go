package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xa0627-sys/momoshop-watch/importer"
	"github.com/xa0627-sys/momoshop-watch/internal/logutil"
)

// Loader runs the import pipeline and merges its output into a new Store.
type Loader struct {
	Fetcher    importer.Fetcher
	Adapters   []*importer.Adapter
	Classifier Classifier
}

func (l *Loader) Load(ctx context.Context) (*Store, *importer.Result, error) {
	result, err := importer.Run(ctx, l.Fetcher, l.Adapters)
	if err != nil {
		return nil, nil, err
	}

	store := Merge(l.Classifier, result.Descriptors(), result.Batches()...)
	logutil.Log.WithFields(logrus.Fields{
		"files":      result.FilesLoaded,
		"rows":       result.RowsRead,
		"retained":   store.Len(),
		"categories": len(store.categories),
	}).Info("catalog loaded")

	return store, result, nil
}

// Status describes the outcome of the most recent load attempt.
type Status struct {
	Loaded   bool      `json:"loaded"`
	Products int       `json:"products"`
	Message  string    `json:"message"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`
}

// Holder publishes catalog snapshots atomically. Readers always observe
// either the previous or the fully loaded store, never a partial one.
type Holder struct {
	store  atomic.Pointer[Store]
	status atomic.Pointer[Status]

	reloadMu sync.Mutex
}

func NewHolder() *Holder {
	holder := &Holder{}
	holder.store.Store(Empty())
	holder.status.Store(&Status{Message: "no data loaded"})
	return holder
}

func (h *Holder) Current() *Store {
	return h.store.Load()
}

func (h *Holder) Status() Status {
	return *h.status.Load()
}

// Install publishes store as the current snapshot.
func (h *Holder) Install(store *Store) {
	h.store.Store(store)
	h.status.Store(&Status{
		Loaded:   true,
		Products: store.Len(),
		Message:  fmt.Sprintf("Loaded %d products", store.Len()),
		At:       time.Now(),
	})
}

// Reload runs loader and installs its store. On failure the previous
// snapshot stays current and the error is returned unchanged.
func (h *Holder) Reload(ctx context.Context, loader *Loader) (*importer.Result, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	store, result, err := loader.Load(ctx)
	if err != nil {
		previous := h.Status()
		h.status.Store(&Status{
			Loaded:   previous.Loaded,
			Products: h.Current().Len(),
			Message:  fmt.Sprintf("Load failed: %v", err),
			Error:    err.Error(),
			At:       time.Now(),
		})
		return nil, err
	}

	h.Install(store)
	return result, nil
}
