// Package config loads editor settings from YAML files.
//
// Settings are layered: built-in defaults, then the user file
// (~/.config/mindmap/config.yaml), then the project file (.mindmap/config.yaml
// in the nearest enclosing directory that has one). Each layer only overrides
// the keys it sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/mindmap/pkg/drag"
	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/library"
	"github.com/vanderheijden86/mindmap/pkg/measure"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/viewport"
)

// FileName is the name of a config file inside a config directory.
const FileName = "config.yaml"

// ProjectDirName is the per-project config directory.
const ProjectDirName = ".mindmap"

// Config is the full set of settings.
type Config struct {
	Layout   LayoutConfig   `yaml:"layout"`
	Terminal TerminalConfig `yaml:"terminal"`
	Drag     DragConfig     `yaml:"drag"`
	Viewport ViewportConfig `yaml:"viewport"`
	Font     FontConfig     `yaml:"font"`
	Preview  PreviewConfig  `yaml:"preview"`
	Library  LibraryConfig  `yaml:"library"`
	Log      LogConfig      `yaml:"log"`
}

// LayoutConfig holds pixel spacing for the SVG rendering.
type LayoutConfig struct {
	HorizontalMargin float64 `yaml:"horizontal_margin"`
	SiblingGap       float64 `yaml:"sibling_gap"`
	SectorGap        float64 `yaml:"sector_gap"`
	CenterX          float64 `yaml:"center_x"`
	CenterY          float64 `yaml:"center_y"`
}

// TerminalConfig holds the cell-based equivalents used by the TUI.
type TerminalConfig struct {
	HorizontalMargin float64 `yaml:"horizontal_margin"`
	SiblingGap       float64 `yaml:"sibling_gap"`
	SectorGap        float64 `yaml:"sector_gap"`
	MaxTextWidth     int     `yaml:"max_text_width"`
	RegionMargin     float64 `yaml:"region_margin"`
	DragThreshold    float64 `yaml:"drag_threshold"`
	ScrollMargin     float64 `yaml:"scroll_margin"`
}

// DragConfig tunes the drag gesture, in pixels.
type DragConfig struct {
	Threshold    float64 `yaml:"threshold"`
	ScrollMargin float64 `yaml:"scroll_margin"`
	ScrollEvery  int     `yaml:"scroll_every"`
}

// ViewportConfig tunes scrolling.
type ViewportConfig struct {
	RegionMargin  float64 `yaml:"region_margin"`
	VisibleMargin float64 `yaml:"visible_margin"`
}

// FontConfig sizes the font used for pixel measurement.
type FontConfig struct {
	Size      float64 `yaml:"size"`
	RootSize  float64 `yaml:"root_size"`
	WrapWidth float64 `yaml:"wrap_width"`
}

// PreviewConfig configures `mm serve`.
type PreviewConfig struct {
	Addr string `yaml:"addr"`
}

// LibraryConfig locates the recent-documents database.
type LibraryConfig struct {
	Path string `yaml:"path"`
}

// LogConfig enables the debug log.
type LogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Default returns the built-in settings.
func Default() Config {
	l := layout.DefaultConfig()
	d := drag.DefaultConfig()
	v := viewport.DefaultConfig()
	f := measure.DefaultFontOptions()
	return Config{
		Layout: LayoutConfig{
			HorizontalMargin: l.HorizontalMargin,
			SiblingGap:       l.SiblingGap,
			SectorGap:        l.SectorGap,
			CenterX:          v.Center.X,
			CenterY:          v.Center.Y,
		},
		Terminal: TerminalConfig{
			HorizontalMargin: 4,
			SiblingGap:       1,
			SectorGap:        1,
			MaxTextWidth:     measure.DefaultCells().MaxWidth,
			RegionMargin:     20,
			DragThreshold:    0,
			ScrollMargin:     2,
		},
		Drag: DragConfig{
			Threshold:    d.Threshold,
			ScrollMargin: d.ScrollMargin,
			ScrollEvery:  d.ScrollEvery,
		},
		Viewport: ViewportConfig{
			RegionMargin:  v.RegionMargin,
			VisibleMargin: v.VisibleMargin,
		},
		Font: FontConfig{
			Size:      f.Size,
			RootSize:  f.RootSize,
			WrapWidth: f.WrapWidth,
		},
		Preview: PreviewConfig{Addr: "127.0.0.1:7420"},
		Library: LibraryConfig{Path: library.DefaultPath()},
	}
}

// Validate rejects settings the layout cannot work with.
func (c *Config) Validate() error {
	nonNeg := []struct {
		name string
		v    float64
	}{
		{"layout.horizontal_margin", c.Layout.HorizontalMargin},
		{"layout.sibling_gap", c.Layout.SiblingGap},
		{"layout.sector_gap", c.Layout.SectorGap},
		{"terminal.horizontal_margin", c.Terminal.HorizontalMargin},
		{"terminal.sibling_gap", c.Terminal.SiblingGap},
		{"terminal.sector_gap", c.Terminal.SectorGap},
		{"terminal.region_margin", c.Terminal.RegionMargin},
		{"terminal.drag_threshold", c.Terminal.DragThreshold},
		{"terminal.scroll_margin", c.Terminal.ScrollMargin},
		{"drag.threshold", c.Drag.Threshold},
		{"drag.scroll_margin", c.Drag.ScrollMargin},
		{"viewport.region_margin", c.Viewport.RegionMargin},
		{"viewport.visible_margin", c.Viewport.VisibleMargin},
	}
	for _, f := range nonNeg {
		if f.v < 0 {
			return fmt.Errorf("%s must not be negative, got %v", f.name, f.v)
		}
	}
	if c.Viewport.VisibleMargin >= 0.5 {
		return fmt.Errorf("viewport.visible_margin must be below 0.5, got %v", c.Viewport.VisibleMargin)
	}
	if c.Drag.ScrollEvery < 1 {
		return fmt.Errorf("drag.scroll_every must be at least 1, got %d", c.Drag.ScrollEvery)
	}
	if c.Terminal.MaxTextWidth < 1 {
		return fmt.Errorf("terminal.max_text_width must be at least 1, got %d", c.Terminal.MaxTextWidth)
	}
	if c.Font.Size <= 0 || c.Font.RootSize <= 0 {
		return fmt.Errorf("font sizes must be positive, got %v/%v", c.Font.Size, c.Font.RootSize)
	}
	if c.Font.WrapWidth <= 0 {
		return fmt.Errorf("font.wrap_width must be positive, got %v", c.Font.WrapWidth)
	}
	return nil
}

// Load returns the defaults overlaid with the user file and the project
// file found from dir. Missing files are skipped.
func Load(dir string) (Config, error) {
	var paths []string
	if user, ok := UserDir(); ok {
		paths = append(paths, filepath.Join(user, FileName))
	}
	if proj, ok := FindProjectDir(dir); ok {
		paths = append(paths, filepath.Join(proj, ProjectDirName, FileName))
	}
	return LoadFiles(paths...)
}

// LoadFiles returns the defaults overlaid with each file in order.
func LoadFiles(paths ...string) (Config, error) {
	cfg := Default()
	for _, p := range paths {
		if err := overlay(&cfg, p); err != nil {
			return Config{}, err
		}
	}
	cfg.Library.Path = expandHome(cfg.Library.Path)
	cfg.Log.Dir = expandHome(cfg.Log.Dir)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func overlay(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// LayoutEngine returns the pixel layout spacing.
func (c Config) LayoutEngine() layout.Config {
	return layout.Config{
		HorizontalMargin: c.Layout.HorizontalMargin,
		SiblingGap:       c.Layout.SiblingGap,
		SectorGap:        c.Layout.SectorGap,
	}
}

// TerminalLayout returns the cell layout spacing.
func (c Config) TerminalLayout() layout.Config {
	return layout.Config{
		HorizontalMargin: c.Terminal.HorizontalMargin,
		SiblingGap:       c.Terminal.SiblingGap,
		SectorGap:        c.Terminal.SectorGap,
	}
}

// Center returns the logical position of the root.
func (c Config) Center() model.Point {
	return model.Point{X: c.Layout.CenterX, Y: c.Layout.CenterY}
}

// DragGesture returns the pixel drag settings.
func (c Config) DragGesture() drag.Config {
	return drag.Config{
		Threshold:    c.Drag.Threshold,
		ScrollMargin: c.Drag.ScrollMargin,
		ScrollEvery:  c.Drag.ScrollEvery,
	}
}

// TerminalDrag returns the drag settings in cells.
func (c Config) TerminalDrag() drag.Config {
	return drag.Config{
		Threshold:    c.Terminal.DragThreshold,
		ScrollMargin: c.Terminal.ScrollMargin,
		ScrollEvery:  c.Drag.ScrollEvery,
	}
}

// View returns the pixel viewport settings.
func (c Config) View() viewport.Config {
	v := viewport.DefaultConfig()
	v.Center = c.Center()
	v.RegionMargin = c.Viewport.RegionMargin
	v.VisibleMargin = c.Viewport.VisibleMargin
	return v
}

// TerminalView returns the viewport settings in cells.
func (c Config) TerminalView() viewport.Config {
	v := c.View()
	v.RegionMargin = c.Terminal.RegionMargin
	v.ScrollUnit = 1
	return v
}

// Cells returns the terminal text measurer.
func (c Config) Cells() measure.Cells {
	m := measure.DefaultCells()
	m.MaxWidth = c.Terminal.MaxTextWidth
	return m
}

// FontOptions returns the pixel font settings.
func (c Config) FontOptions() measure.FontOptions {
	f := measure.DefaultFontOptions()
	f.Size = c.Font.Size
	f.RootSize = c.Font.RootSize
	f.WrapWidth = c.Font.WrapWidth
	return f
}
