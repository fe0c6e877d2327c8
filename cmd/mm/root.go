package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/mindmap/pkg/config"
	"github.com/vanderheijden86/mindmap/pkg/editor"
	"github.com/vanderheijden86/mindmap/pkg/library"
	"github.com/vanderheijden86/mindmap/pkg/logging"
	"github.com/vanderheijden86/mindmap/pkg/ui"
	"github.com/vanderheijden86/mindmap/pkg/watcher"
)

// app carries the settings shared by every subcommand.
type app struct {
	configPath string
	debug      bool
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "mm [file]",
		Short: "Edit radial mind maps in the terminal",
		Long: `mm edits mind maps laid out around a central topic. Topics are added
with tab and enter, moved by dragging them with the mouse, and saved as JSON.

A file that does not exist yet is created. Without a file, mm starts a new
untitled map.

Example:
  mm ideas.json
  mm serve ideas.json --addr 127.0.0.1:8080`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logging.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEditor(cmd.Context(), args)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: user and project config)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "write a debug log")

	root.AddCommand(
		newServeCmd(a),
		newExportCmd(a),
		newCheckCmd(a),
		newRecentCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and starts logging.
func (a *app) setup() error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFiles(a.configPath)
	} else {
		dir, werr := os.Getwd()
		if werr != nil {
			return werr
		}
		a.cfg, err = config.Load(dir)
	}
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if a.debug {
		level = slog.LevelDebug
	}
	if err := logging.Init(logging.Options{
		Enabled: a.cfg.Log.Enabled || a.debug,
		LogDir:  a.cfg.Log.Dir,
		Level:   level,
	}); err != nil {
		return fmt.Errorf("start logging: %w", err)
	}
	logging.Debug("config loaded", "path", a.configPath)
	return nil
}

// openLibrary opens the recent-documents store. Failure is logged and
// the editor runs without it.
func (a *app) openLibrary() *library.Library {
	lib, err := library.Open(a.cfg.Library.Path)
	if err != nil {
		logging.Warn("recent documents unavailable", "path", a.cfg.Library.Path, "error", err)
		return nil
	}
	return lib
}

func (a *app) runEditor(ctx context.Context, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("mm needs a terminal; use `mm serve` for a browser preview or `mm export` for SVG")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	lib := a.openLibrary()
	if lib != nil {
		defer lib.Close()
	}

	opts := ui.EditorOptions(a.cfg)
	opts.Library = lib
	ed := editor.New(opts)
	if len(args) == 1 {
		if err := openOrCreate(ctx, ed, args[0]); err != nil {
			return err
		}
	}

	m := ui.NewModel(ed, a.cfg.Cells()).
		WithLibrary(lib).
		WithWatch(watcher.DefaultDebounceDuration)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if fm, ok := final.(ui.Model); ok {
		fm.Close()
	} else {
		m.Close()
	}
	return err
}

// openOrCreate opens path, or saves a new map there when it does not exist.
func openOrCreate(ctx context.Context, ed *editor.Editor, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logging.Info("creating new map", "path", path)
		return ed.SaveAs(ctx, path)
	}
	return ed.Open(ctx, path)
}
