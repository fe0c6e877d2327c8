// Package preview serves a live SVG rendering of a mind-map file to a
// browser. The page reloads itself whenever the file changes on disk.
package preview

import (
	"bytes"
	"fmt"
	"html"
	"net/http"
	"path/filepath"

	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/logging"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/persist"
	"github.com/vanderheijden86/mindmap/pkg/render"
	"github.com/vanderheijden86/mindmap/pkg/render/svg"
)

// EventsPath is where browsers subscribe to reload events.
const EventsPath = "/__preview__/events"

// Measurer measures and wraps node text in pixels.
type Measurer interface {
	layout.Measurer
	svg.Wrapper
}

// Server renders the document at Path on every request.
type Server struct {
	path   string
	engine *layout.Engine
	wrap   svg.Wrapper
	theme  svg.Theme
	center model.Point
	hub    *Hub
	mux    *http.ServeMux
}

// NewServer creates a preview server for the file at path.
func NewServer(path string, cfg layout.Config, m Measurer, center model.Point, hub *Hub) *Server {
	s := &Server{
		path:   path,
		engine: layout.New(cfg, m),
		wrap:   m,
		theme:  svg.DefaultTheme(),
		center: center,
		hub:    hub,
		mux:    http.NewServeMux(),
	}
	s.mux.Handle("GET /{$}", liveReload(http.HandlerFunc(s.handleIndex)))
	s.mux.HandleFunc("GET /map.svg", s.handleSVG)
	s.mux.Handle("GET "+EventsPath, hub)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	title := html.EscapeString(filepath.Base(s.path))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, title)
}

func (s *Server) handleSVG(w http.ResponseWriter, _ *http.Request) {
	t, err := persist.Load(s.path)
	if err != nil {
		logging.Warn("preview load failed", "path", s.path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.engine.Apply(t, s.center)

	var buf bytes.Buffer
	svg.Write(&buf, render.Scene{Tree: t}, s.wrap, s.theme)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>body{margin:0;background:#fafafa}object{display:block;margin:auto}</style>
</head>
<body>
<object type="image/svg+xml" data="/map.svg"></object>
</body>
</html>`
