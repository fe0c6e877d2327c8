package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/mindmap/pkg/logging"
	"github.com/vanderheijden86/mindmap/pkg/measure"
	"github.com/vanderheijden86/mindmap/pkg/persist"
	"github.com/vanderheijden86/mindmap/pkg/preview"
	"github.com/vanderheijden86/mindmap/pkg/watcher"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Serve a live SVG preview of a map",
		Long: `The serve command renders the map as SVG in the browser. The page
reloads whenever the file changes, so it can sit next to the terminal editor.

Example:
  mm serve ideas.json
  mm serve ideas.json --addr :8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if addr == "" {
				addr = a.cfg.Preview.Addr
			}
			return a.serve(ctx, cmd.OutOrStdout(), args[0], addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func (a *app) serve(ctx context.Context, out io.Writer, path, addr string) error {
	if _, err := persist.Load(path); err != nil {
		return err
	}
	font, err := measure.NewFont(a.cfg.FontOptions())
	if err != nil {
		return err
	}

	w, err := watcher.New(path, watcher.WithDebounceDuration(watcher.DefaultDebounceDuration))
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	hub := preview.NewHub()
	defer hub.Close()
	srv := &http.Server{
		Handler:           preview.NewServer(w.Path(), a.cfg.LayoutEngine(), font, a.cfg.Center(), hub),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	fmt.Fprintf(out, "Serving %s at http://%s/\n", path, ln.Addr())
	logging.Info("preview started", "path", w.Path(), "addr", ln.Addr().String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return hub.Run(gctx, w.Changed())
	})
	g.Go(func() error {
		<-gctx.Done()
		// Event streams only end when the hub closes.
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	err = g.Wait()
	logging.Info("preview stopped", "path", w.Path(), "error", err)
	return err
}
