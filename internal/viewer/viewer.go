// Package viewer serves a live card preview in the browser. It watches the
// project file, its illustrations and the asset directory, re-renders on
// change and pushes reload events to the open preview pages.
package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/tokeeto/shoggoth/internal/assets"
	"github.com/tokeeto/shoggoth/internal/project"
	"github.com/tokeeto/shoggoth/internal/render"
	"github.com/tokeeto/shoggoth/internal/watch"
)

const page = `<!DOCTYPE html>
<html>
<head>
<title>shoggoth</title>
<style>
body { background: #1d1d24; color: #ddd; font-family: sans-serif; text-align: center; }
img { max-height: 80vh; margin: 8px; }
button { font-size: 1.1em; margin: 4px; }
</style>
</head>
<body>
<div>
<img id="front" src="/card/front.png">
<img id="back" src="/card/back.png">
</div>
<div>
<button onclick="move('/prev')">&larr;</button>
<span id="status"></span>
<button onclick="move('/next')">&rarr;</button>
</div>
<script>
function refresh() {
  const stamp = Date.now();
  document.getElementById('front').src = '/card/front.png?t=' + stamp;
  document.getElementById('back').src = '/card/back.png?t=' + stamp;
  fetch('/state').then(r => r.json()).then(s => {
    document.getElementById('status').textContent = s.name + ' (' + (s.index + 1) + '/' + s.total + ')';
  });
}
function move(path) { fetch(path, {method: 'POST'}).then(refresh); }
const ws = new WebSocket('ws://' + location.host + '/ws');
ws.onmessage = refresh;
window.addEventListener('keydown', e => {
  if (e.key === 'ArrowLeft') move('/prev');
  if (e.key === 'ArrowRight') move('/next');
});
refresh();
</script>
</body>
</html>`

// Server is the viewer mode backend.
type Server struct {
	filePath string
	dirs     assets.Dirs
	renderer *render.Renderer
	monitor  *watch.Monitor
	hub      *hub
	log      *slog.Logger

	mu    sync.Mutex
	proj  *project.Project
	cards []*project.Card
	index int
}

// NewServer loads the project and prepares the preview server.
func NewServer(filePath string, dirs assets.Dirs, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		filePath: filePath,
		dirs:     dirs,
		renderer: render.New(dirs, log),
		hub:      newHub(log),
		log:      log,
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	s.monitor = watch.New(
		[]string{filepath.Dir(filePath), dirs.Root},
		s.onChange,
		log,
	)
	s.monitor.AddFile(filePath)
	s.refreshWatchedFiles()
	return s, nil
}

// reload re-reads the project file and positions the viewer on the card
// whose data changed, if any.
func (s *Server) reload() error {
	proj, err := project.Load(s.filePath, s.dirs)
	if err != nil {
		return err
	}
	cards := proj.Cards()

	s.mu.Lock()
	previous := s.cards
	s.proj = proj
	s.cards = cards
	if index := findChangedCard(previous, cards); index >= 0 {
		s.index = index
	}
	if s.index >= len(cards) {
		s.index = 0
	}
	s.mu.Unlock()
	return nil
}

// findChangedCard returns the index of the first card in next whose data
// differs from the matching card in previous, or -1 when nothing moved.
func findChangedCard(previous, next []*project.Card) int {
	if len(previous) == 0 {
		return -1
	}
	byID := map[string]string{}
	for _, card := range previous {
		byID[card.ID()] = cardFingerprint(card)
	}
	for index, card := range next {
		before, known := byID[card.ID()]
		if !known || before != cardFingerprint(card) {
			return index
		}
	}
	return -1
}

func cardFingerprint(card *project.Card) string {
	raw, err := json.Marshal(card.Data)
	if err != nil {
		return ""
	}
	return string(raw)
}

func (s *Server) onChange(path string) {
	s.log.Debug("file changed", "path", path)
	s.renderer.InvalidateCache()
	if err := s.reload(); err != nil {
		s.log.Warn("reload failed", "path", s.filePath, "error", err)
		return
	}
	s.refreshWatchedFiles()
	s.hub.broadcast("reload")
}

// refreshWatchedFiles points the monitor at the illustrations of the
// current project in addition to the project file itself.
func (s *Server) refreshWatchedFiles() {
	s.mu.Lock()
	cards := s.cards
	s.mu.Unlock()

	files := []string{s.filePath}
	for _, card := range cards {
		for _, illustration := range card.Illustrations() {
			if resolved, ok := card.Project().FindFile(illustration); ok {
				files = append(files, resolved)
			} else {
				files = append(files, illustration)
			}
		}
	}
	s.monitor.SetFiles(files)
}

func (s *Server) current() *project.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cards) == 0 {
		return nil
	}
	return s.cards[s.index]
}

func (s *Server) move(delta int) {
	s.mu.Lock()
	if len(s.cards) > 0 {
		s.index = ((s.index+delta)%len(s.cards) + len(s.cards)) % len(s.cards)
	}
	s.mu.Unlock()
}

// router builds the gin handler tree.
func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	})
	router.GET("/state", s.handleState)
	router.GET("/card/front.png", s.faceHandler(true))
	router.GET("/card/back.png", s.faceHandler(false))
	router.POST("/next", func(c *gin.Context) {
		s.move(1)
		c.Status(http.StatusNoContent)
	})
	router.POST("/prev", func(c *gin.Context) {
		s.move(-1)
		c.Status(http.StatusNoContent)
	})
	router.GET("/ws", s.handleWebsocket)
	return router
}

func (s *Server) handleState(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := gin.H{"name": "", "index": s.index, "total": len(s.cards)}
	if s.index < len(s.cards) {
		state["name"] = s.cards[s.index].Name()
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) faceHandler(front bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		card := s.current()
		if card == nil {
			c.Status(http.StatusNotFound)
			return
		}
		face := card.Back
		if front {
			face = card.Front
		}
		img, err := s.renderer.RenderFace(face, false)
		if err != nil {
			c.String(http.StatusInternalServerError, "render failed: %v", err)
			return
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			c.String(http.StatusInternalServerError, "encode failed: %v", err)
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}

func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}
	s.hub.add(conn)
	go func() {
		defer s.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Run serves the preview until the context is cancelled.
func (s *Server) Run(ctx context.Context, bind string) error {
	if err := s.monitor.Start(); err != nil {
		return err
	}
	defer s.monitor.Stop()
	defer s.hub.closeAll()

	server := &http.Server{Addr: bind, Handler: s.router()}
	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()
	s.log.Info("viewer running", "address", fmt.Sprintf("http://%s/", bind), "project", s.filePath)

	select {
	case <-ctx.Done():
		return server.Shutdown(context.Background())
	case err := <-errs:
		return err
	}
}
