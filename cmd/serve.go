package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xa0627-sys/momoshop-watch/catalog"
	"github.com/xa0627-sys/momoshop-watch/config"
	"github.com/xa0627-sys/momoshop-watch/internal/logutil"
	"github.com/xa0627-sys/momoshop-watch/web"
)

var (
	servePort      int
	serveNoJournal bool
	serveInterval  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the catalog and serve it as a read-only JSON API",
	Long: `Load every configured source, then start an HTTP server exposing the merged catalog.

Endpoints:
  GET  /api/products?category=&source=&keyword=
  GET  /api/categories
  GET  /api/sources
  GET  /api/status
  GET  /api/history?limit=
  POST /api/reload

A failed initial load does not stop the server; the catalog stays empty and
/api/status reports the failure until a reload succeeds.`,
	Example: `
  # Serve on the configured port (server.port)
  momoshop-watch serve

  # Serve on port 9090 and reload every 15 minutes
  momoshop-watch serve --port 9090 --reload-every 15m
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		loader, err := buildLoader(cfg)
		if err != nil {
			return err
		}

		store, err := openJournal(cfg, serveNoJournal)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		holder := catalog.NewHolder()
		reload := func(ctx context.Context) error {
			_, err := reloadCatalog(ctx, holder, loader, asJournal(store))
			return err
		}
		if err := reload(cmd.Context()); err != nil {
			logutil.Log.WithFields(logrus.Fields{"error": err}).Warn("initial load failed")
		}

		var journal web.LoadJournal
		if store != nil {
			journal = store
		}

		port := resolveServePort(cmd.Flags().Changed("port"), servePort, cfg.Server.Port)
		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           web.NewServer(holder, reload, journal),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()
		fmt.Printf("Listening on http://localhost:%d\n", port)

		stopReload := startPeriodicReload(serveInterval, reload)
		defer stopReload()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func resolveServePort(flagChanged bool, flagPort, configPort int) int {
	if flagChanged || configPort <= 0 {
		return flagPort
	}
	return configPort
}

// startPeriodicReload reloads every interval until the returned stop function
// is called. A non-positive interval disables periodic reloads.
func startPeriodicReload(interval time.Duration, reload web.ReloadFunc) func() {
	if interval <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := reload(ctx); err != nil {
					logutil.Log.WithFields(logrus.Fields{"error": err}).Warn("periodic reload failed")
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port (default from server.port)")
	serveCmd.Flags().BoolVar(&serveNoJournal, "no-journal", false, "Do not journal loads and disable /api/history")
	serveCmd.Flags().DurationVar(&serveInterval, "reload-every", 0, "Reload the catalog periodically, e.g. 15m (0 = only on POST /api/reload)")
}
