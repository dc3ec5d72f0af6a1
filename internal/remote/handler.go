// Package remote hosts headless gallery sessions for browser clients over
// WebSocket. Each connection owns one session; the client forwards pointer
// capture, key and selection events and receives frame snapshots.
package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"gallery-engine/internal/assemble"
	"gallery-engine/internal/backend"
	"gallery-engine/internal/focus"
	"gallery-engine/internal/navigation"
	"gallery-engine/internal/session"
)

const (
	DefaultTick = time.Second / 30
	writeWait   = 5 * time.Second
	// maxStep caps a frame's physics step after a stall.
	maxStep = 0.1
)

type HandlerConfig struct {
	Source    Source
	Templates TemplateResolver
	Outbound  session.Outbound
	Session   session.Options
	Tick      time.Duration
	Logger    *slog.Logger
}

// Handler upgrades /ws?exhibition=<id>&locale=<tag> requests and runs one
// session per connection.
type Handler struct {
	source    Source
	templates TemplateResolver
	outbound  session.Outbound
	opts      session.Options
	tick      time.Duration
	log       *slog.Logger
	assembler *assemble.Assembler
	upgrader  websocket.Upgrader

	active atomic.Int64
}

func NewHandler(cfg HandlerConfig) *Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	tick := cfg.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Handler{
		source:    cfg.Source,
		templates: cfg.Templates,
		outbound:  cfg.Outbound,
		opts:      cfg.Session,
		tick:      tick,
		log:       log,
		assembler: assemble.NewAssembler(log),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Active is the number of open sessions.
func (h *Handler) Active() int64 {
	return h.active.Load()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("exhibition")
	if id == "" {
		http.Error(w, "missing exhibition", http.StatusBadRequest)
		return
	}
	if h.source == nil {
		http.Error(w, "no exhibition source", http.StatusServiceUnavailable)
		return
	}

	ex, err := h.source.Exhibition(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, backend.ErrNotFound) {
			http.Error(w, "unknown exhibition", http.StatusNotFound)
			return
		}
		h.log.Error("remote: load exhibition", "exhibition", id, "err", err)
		http.Error(w, "exhibition unavailable", http.StatusBadGateway)
		return
	}
	if !ex.Gallery.Resolved() {
		if h.templates == nil {
			http.Error(w, "gallery template unavailable", http.StatusBadGateway)
			return
		}
		if err := h.templates.Resolve(&ex); err != nil {
			h.log.Error("remote: resolve template", "exhibition", id, "err", err)
			http.Error(w, "gallery template unavailable", http.StatusBadGateway)
			return
		}
	}
	cfg := h.assembler.Assemble(ex, r.URL.Query().Get("locale"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("remote: upgrade failed", "exhibition", id, "err", err)
		return
	}
	h.serve(conn, cfg)
}

// conn serialises writes; only the session goroutine writes.
type conn struct {
	ws  *websocket.Conn
	err error
}

func (c *conn) send(v any) {
	if c.err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.err = err
		return
	}
	c.write(data)
}

func (c *conn) write(data []byte) {
	if c.err != nil {
		return
	}
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	c.err = c.ws.WriteMessage(websocket.TextMessage, data)
}

// surface relays pointer capture requests to the browser, which answers
// with captureChanged or captureError messages. A release takes effect as
// soon as it is sent, like a local pointer lock.
type surface struct {
	send     func(v any)
	captured bool
}

func (s *surface) RequestPointerCapture() {
	s.send(signalMessage{Type: TypeRequestCapture})
}

func (s *surface) ExitPointerCapture() {
	s.captured = false
	s.send(signalMessage{Type: TypeReleaseCapture})
}

func (s *surface) PointerCaptured() bool { return s.captured }

// relay queues msg on s. Capture reports that match the surface's current
// state only acknowledge a change already applied and are dropped, so a
// late release acknowledgement cannot switch off a fresh activation.
func relay(s *session.Session, surf *surface, msg clientMessage) error {
	ev, err := msg.event()
	if err != nil {
		return err
	}
	if cc, ok := ev.(navigation.CaptureChanged); ok {
		if cc.Captured == surf.captured {
			return nil
		}
		surf.captured = cc.Captured
	}
	s.Enqueue(ev)
	return nil
}

// outbound forwards to the configured sink; a nil sink discards.
type outbound struct {
	next session.Outbound
}

func (o outbound) ArtworkFocused(id string, ev focus.ArtworkFocused) {
	if o.next != nil {
		o.next.ArtworkFocused(id, ev)
	}
}

func (o outbound) LikeToggled(id, artworkID string) {
	if o.next != nil {
		o.next.LikeToggled(id, artworkID)
	}
}

func (o outbound) TimeSpent(id string, seconds float64) {
	if o.next != nil {
		o.next.TimeSpent(id, seconds)
	}
}

func (h *Handler) serve(ws *websocket.Conn, cfg assemble.Config) {
	h.active.Add(1)
	defer h.active.Add(-1)
	defer ws.Close()

	log := h.log.With("exhibition", cfg.ID)
	c := &conn{ws: ws}
	surf := &surface{send: c.send}

	opts := h.opts
	opts.Outbound = outbound{next: h.outbound}
	if opts.Logger == nil {
		opts.Logger = log
	}

	start := time.Now()
	s := session.New(cfg, surf, start, opts)
	defer func() { s.Close(time.Now()) }()

	c.send(welcomeMessage{Type: TypeWelcome, Gallery: cfg})
	if c.err != nil {
		log.Debug("remote: welcome failed", "err", c.err)
		return
	}

	in := make(chan clientMessage, 64)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(in)
		for {
			_, payload, err := ws.ReadMessage()
			if err != nil {
				return
			}
			var msg clientMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				log.Debug("remote: discarding malformed message", "err", err)
				continue
			}
			select {
			case in <- msg:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	last := start
	var seq uint64
	var prev []byte
	for {
		select {
		case msg, ok := <-in:
			if !ok {
				// apply whatever the client sent before hanging up
				s.Frame(time.Now(), 0)
				return
			}
			if err := relay(s, surf, msg); err != nil {
				c.send(signalMessage{Type: TypeError, Reason: err.Error()})
			}

		case now := <-ticker.C:
			dt := min(now.Sub(last).Seconds(), maxStep)
			last = now
			snap := s.Frame(now, dt)

			body, err := json.Marshal(snap)
			if err != nil {
				log.Error("remote: encode frame", "err", err)
				return
			}
			if bytes.Equal(body, prev) {
				continue
			}
			prev = body
			seq++
			c.send(frameMessage{Type: TypeFrame, Seq: seq, Frame: snap})
		}

		if c.err != nil {
			log.Debug("remote: write failed", "err", c.err)
			return
		}
	}
}
