package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xa0627-sys/momoshop-watch/catalog"
	"github.com/xa0627-sys/momoshop-watch/config"
	"github.com/xa0627-sys/momoshop-watch/fetch"
	"github.com/xa0627-sys/momoshop-watch/importer"
	"github.com/xa0627-sys/momoshop-watch/internal/logutil"
	"github.com/xa0627-sys/momoshop-watch/storage"
)

// journal records load attempts. A nil journal disables journaling.
type journal interface {
	RecordLoad(run storage.LoadRun) (int64, error)
}

func buildLoader(cfg *config.Config) (*catalog.Loader, error) {
	fetcher, err := fetch.ForLocation(cfg.Data.Location, fetch.Options{
		RetryMax: cfg.Fetch.RetryMax,
		Timeout:  cfg.Fetch.Timeout,
	})
	if err != nil {
		return nil, err
	}

	adapters, err := importer.NewAdapters(cfg.Sources)
	if err != nil {
		return nil, err
	}

	return &catalog.Loader{
		Fetcher:    fetcher,
		Adapters:   adapters,
		Classifier: catalog.NewClassifier(cfg.Classifier),
	}, nil
}

// reloadCatalog runs loader into holder and journals the attempt. A journal
// failure is logged and never masks the load outcome.
func reloadCatalog(ctx context.Context, holder *catalog.Holder, loader *catalog.Loader, j journal) (*importer.Result, error) {
	startedAt := time.Now()
	result, loadErr := holder.Reload(ctx, loader)

	if j != nil {
		run := storage.NewLoadRun(startedAt, result, holder.Current(), loadErr)
		if _, err := j.RecordLoad(run); err != nil {
			logutil.Log.WithFields(logrus.Fields{"error": err}).Warn("journal load failed")
		}
	}

	if loadErr != nil {
		return nil, fmt.Errorf("load catalog: %w", loadErr)
	}
	return result, nil
}

// openJournal opens the configured journal unless disabled.
func openJournal(cfg *config.Config, disabled bool) (*storage.SQLiteStore, error) {
	if disabled {
		return nil, nil
	}
	return storage.OpenSQLite(cfg.Journal.Path)
}

// asJournal avoids handing a typed nil store to reloadCatalog.
func asJournal(store *storage.SQLiteStore) journal {
	if store == nil {
		return nil
	}
	return store
}
