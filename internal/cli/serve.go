package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/issuegantt/internal/logger"
	"github.com/existflow/issuegantt/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the schedule over HTTP",
	Long: `Serve the chart endpoints (/data, /refreshData, /additionalData,
/getIssueURL, /updateIssue).

Examples:
  issuegantt serve
  issuegantt serve --addr :3000 --refresh`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config)")
	serveCmd.Flags().Bool("refresh", false, "Refresh from GitHub before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
		if _, err := a.syncer.Refresh(ctx); err != nil {
			return fmt.Errorf("initial refresh failed: %w", err)
		}
	}

	addr := cfg.Server.Addr
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		addr = v
	}

	srv := server.New(server.Options{
		Syncer:     a.syncer,
		Projector:  a.projector,
		Milestones: a.db,
		SortBy:     a.sortKey,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()
	fmt.Printf("Serving %s/%s on %s\n", cfg.GitHub.Owner, cfg.GitHub.Repo, addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
