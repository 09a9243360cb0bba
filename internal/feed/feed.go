// Package feed serves a live scroll session over websocket.
//
// A page connects, reports its scroll position and the state of its video element,
// and receives scope frames plus the play, pause, rate and seek commands that keep
// the video on the scroll. Each connection gets its own scheduler, Scroller and
// Synchronizer.
package feed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/ivlev/scrolly/internal/config"
	"github.com/ivlev/scrolly/internal/effects"
	"github.com/ivlev/scrolly/internal/media"
	"github.com/ivlev/scrolly/internal/scope"
	"github.com/ivlev/scrolly/internal/scrolly"
	"github.com/ivlev/scrolly/internal/source"
	"github.com/ivlev/scrolly/internal/syncer"
	"github.com/ivlev/scrolly/internal/ticker"
)

//go:embed client.html
var clientPage []byte

const frameBuffer = 64

type Server struct {
	VideoFile string // Served as /video.mp4 when set

	cfg     config.Config
	heights []float64
	effect  effects.Effect
	logger  *slog.Logger

	sessions atomic.Int64
}

// NewServer serves sessions over a layout of the given block heights. A nil effect
// follows progress through the whole layout.
func NewServer(cfg config.Config, heights []float64, eff effects.Effect, logger *slog.Logger) *Server {
	if eff == nil {
		eff = &effects.Full{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, heights: heights, effect: eff, logger: logger}
}

// Sessions reports the number of open connections.
func (s *Server) Sessions() int {
	return int(s.sessions.Load())
}

// Handler serves the client page on / and the websocket on /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/video.mp4", func(w http.ResponseWriter, r *http.Request) {
		if s.VideoFile == "" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, s.VideoFile)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(clientPage)
	})
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return fmt.Errorf("feed: listen %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("feed: accept failed", "error", err)
		return
	}
	defer c.CloseNow()

	s.sessions.Add(1)
	defer s.sessions.Add(-1)

	sess := s.newSession()
	s.logger.Info("feed: session opened", "session", sess.id, "remote", r.RemoteAddr)

	err = sess.run(r.Context(), c)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
		websocket.CloseStatus(err) == websocket.StatusGoingAway:
	default:
		s.logger.Warn("feed: session failed", "session", sess.id, "error", err)
	}
	s.logger.Info("feed: session closed", "session", sess.id)
	c.Close(websocket.StatusNormalClosure, "")
}

type session struct {
	id     string
	cfg    config.Config
	effect effects.Effect
	logger *slog.Logger

	sched    *ticker.Ticker
	remote   *media.Remote
	scroller *scrolly.Scroller
	sync     *syncer.Synchronizer

	out chan Frame
}

func (s *Server) newSession() *session {
	id := uuid.NewString()
	logger := s.logger.With("session", id)
	sched := ticker.NewTicker(s.cfg.TickRate)
	remote := media.NewRemote()

	sess := &session{
		id:       id,
		cfg:      s.cfg,
		effect:   s.effect,
		logger:   logger,
		sched:    sched,
		remote:   remote,
		scroller: scrolly.New(s.cfg, sched, source.Static(s.heights), logger),
		sync: syncer.New(remote, sched, syncer.Options{
			Framerate: s.cfg.Framerate,
			MaxSpeed:  s.cfg.MaxSpeed,
			Logger:    logger,
		}),
		out: make(chan Frame, frameBuffer),
	}
	sess.scroller.OnRender(sess.render)
	return sess
}

// run drives the session until the connection or ctx ends.
func (sess *session) run(ctx context.Context, c *websocket.Conn) error {
	g, ctx := errgroup.WithContext(ctx)

	sess.out <- Frame{Type: "hello", Session: sess.id, DontUseSticky: sess.cfg.DontUseSticky}
	sess.sync.Start()
	sess.sched.Request(sess.flush)
	// first measurement
	sess.scroller.Scroll(0)

	g.Go(func() error { return sess.sched.Start(ctx) })
	g.Go(func() error { return sess.read(ctx, c) })
	g.Go(func() error { return sess.write(ctx, c) })

	err := g.Wait()

	// the scheduler loop has returned, so the engine state is ours again
	sess.sync.Close()
	sess.scroller.Stop()
	return err
}

func (sess *session) read(ctx context.Context, c *websocket.Conn) error {
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, c, &msg); err != nil {
			return err
		}
		sess.handle(msg)
	}
}

func (sess *session) handle(msg ClientMessage) {
	switch msg.Type {
	case "scroll":
		sess.scroller.Scroll(msg.Position)
	case "container":
		sess.scroller.ScrollContainer(msg.ContainerTop)
	case "resize":
		sess.scroller.Resize(msg.Height)
	case "media":
		if msg.Media != nil {
			sess.remote.Report(*msg.Media)
		}
	default:
		sess.logger.Debug("feed: unknown message", "type", msg.Type)
	}
}

func (sess *session) write(ctx context.Context, c *websocket.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-sess.out:
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, c, f)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

// render runs on the scheduler goroutine.
func (sess *session) render(s scope.Scope) {
	p := sess.effect.Progress(s)
	sess.sync.SetProgress(p)
	sess.send(Frame{
		Type:  "scope",
		Scope: newSnapshot(s, p),
		Sync:  newSyncSnapshot(sess.sync.State()),
	})
}

// flush forwards the commands queued by the synchronizer and the rewind loop
// once per tick.
func (sess *session) flush(time.Time) {
	sess.sched.Request(sess.flush)
	if cmds := sess.remote.Drain(); len(cmds) > 0 {
		sess.send(Frame{Type: "commands", Commands: cmds})
	}
}

// send never blocks the scheduler; a slow client loses frames.
func (sess *session) send(f Frame) {
	select {
	case sess.out <- f:
	default:
		sess.logger.Debug("feed: client too slow, frame dropped", "type", f.Type)
	}
}
