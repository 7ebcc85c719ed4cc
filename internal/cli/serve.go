package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/okian/draftboard/internal/adapters/http/api"
	"github.com/okian/draftboard/internal/adapters/http/site"
	"github.com/okian/draftboard/internal/adapters/http/swagger"
	"github.com/okian/draftboard/internal/adapters/repository"
	service "github.com/okian/draftboard/internal/app"
	"github.com/okian/draftboard/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd(e *env) *cobra.Command {
	var boardPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a board over a read-only HTTP API",
		Long: `Load a JSON board export and serve it read-only. SIGHUP re-reads the
board file and swaps it in without dropping requests.`,
		Example: `  draftboard serve --board players-final.json --addr :9080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.serve(cmd.Context(), boardPath)
		},
	}

	cmd.Flags().StringVar(&boardPath, "board", "players-final.json", "JSON board export")
	cmd.Flags().String("addr", "", "listen address (default from config, :9080)")
	cmd.Flags().Int("max-page-limit", 0, "largest accepted ?limit")
	return cmd
}

// newMux wires every route of the board view.
func newMux(ctx context.Context, store repository.Store, boardDir string) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux, boardDir)
	api.NewServer(store).Register(ctx, mux)
	return mux
}

func (e *env) serve(ctx context.Context, boardPath string) error {
	store := repository.NewBoardStore(repository.WithMaxLimit(e.cfg.MaxPageLimit))
	if err := e.reload(ctx, store, boardPath); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              e.cfg.Addr,
		Handler:           newMux(ctx, store, filepath.Dir(boardPath)),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	errCh := make(chan error, 1)
	go func() {
		e.log.Info(ctx, "starting HTTP server", logger.String("addr", e.cfg.Addr), logger.String("board", boardPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errors.Wrap(err, "http server")
		}
		close(errCh)
	}()

	for {
		select {
		case <-hup:
			if err := e.reload(ctx, store, boardPath); err != nil {
				e.log.Error(ctx, "board reload failed, keeping previous board", logger.Error(err))
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			e.log.Info(ctx, "shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errors.Wrap(err, "server shutdown")
			}
			e.log.Info(ctx, "server stopped")
			return nil
		}
	}
}

func (e *env) reload(ctx context.Context, store *repository.BoardStore, boardPath string) error {
	players, err := service.ReadBoard(boardPath)
	if err != nil {
		return err
	}
	store.Replace(ctx, players)
	e.log.Info(ctx, "board published", logger.String("board", boardPath), logger.Int("players", len(players)))
	return nil
}
