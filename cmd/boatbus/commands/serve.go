package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/telnet2/go-practice/go-boatbus/internal/boatdata"
	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/logging"
	"github.com/telnet2/go-practice/go-boatbus/internal/server"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 30 * time.Second

var (
	servePort     int
	serveHostname string
	serveSeed     string
	serveWatch    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the boatbus server",
	Long: `Start the boatbus server. It hosts one boat rental page on the event
bus and exposes the boat API, the bus and its event streams over HTTP.

The seed file is applied when the store is empty. With --watch the seed
file is re-applied on every change and the page refreshes its results.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveHostname, "hostname", "", "Hostname to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveSeed, "seed", "", "YAML seed file")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the seed file when it changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	appConfig, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		appConfig.Server.Port = servePort
	}
	if serveHostname != "" {
		appConfig.Server.Hostname = serveHostname
	}
	if serveSeed != "" {
		appConfig.Seed = serveSeed
	}
	if serveWatch {
		appConfig.WatchSeed = true
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("version", Version).
		Str("storage", appConfig.Storage).
		Msg("starting boatbus server")

	store, err := openStore(appConfig)
	if err != nil {
		return err
	}
	if err := seedIfEmpty(ctx, store, appConfig); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}

	var data boatdata.Service = store
	var cache *boatdata.Cached
	if !appConfig.Cache.Disabled {
		cache, err = boatdata.NewCached(store, appConfig.Cache.Size)
		if err != nil {
			return err
		}
		data = cache
	}

	bus := event.NewBus()
	defer bus.Close()

	srv, err := server.New(server.FromAppConfig(appConfig), bus, data)
	if err != nil {
		return err
	}

	var watcher *boatdata.Watcher
	if appConfig.WatchSeed && appConfig.Seed != "" {
		watcher, err = boatdata.NewWatcher(appConfig.Seed, boatdata.Reloader(store, cache, bus))
		if err != nil {
			srv.Close()
			return fmt.Errorf("watch seed: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	if watcher != nil {
		watcher.Start(gctx)
		g.Go(func() error {
			<-gctx.Done()
			return watcher.Stop()
		})
	}

	g.Go(func() error {
		fmt.Fprintf(cmd.OutOrStdout(), "Server listening on http://%s\n", srv.Addr())
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		// Ending the event streams first lets Shutdown drain them.
		srv.Close()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logging.Info().Msg("server stopped")
	return nil
}
