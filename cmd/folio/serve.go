package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
)

func (c *cli) serveCmd() *cobra.Command {
	var (
		watch    bool
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site",
		Long: `Serve loads the content collections, opens the comment store (or connects to
the configured comment service), and serves the site. With --watch the content
directory is reloaded whenever a file changes; a reload that fails keeps the
previous content.

No templates are compiled into this binary, so every route answers with its
view model as JSON. Embed the folio package to serve HTML.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app := folio.New(c.cfg, folio.ViewFuncs{}, folio.WithLogger(c.logger))
			if err := app.Init(); err != nil {
				return err
			}

			if watch {
				go func() {
					if err := app.Library.Watch(ctx, c.cfg.ContentDir, debounce); err != nil {
						c.logger.Error().Err(err).Msg("content watcher stopped")
					}
				}()
			}

			errc := make(chan error, 1)
			go func() { errc <- app.Start() }()

			select {
			case err := <-errc:
				app.Close()
				return err
			case <-ctx.Done():
			}

			c.logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "reload content when files change")
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "wait this long after the last change before reloading")
	return cmd
}
