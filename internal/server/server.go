// Package server exposes the dice engine over HTTP for remote front-ends.
//
// It plays the part of the graphical shell: a roll request returns the
// formatted summary (or "Error: ..." text), every successful roll lands in a
// bounded history, and history entries are pushed to WebSocket subscribers.
package server

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/bft-labs/diceroller/internal/history"
	"github.com/bft-labs/diceroller/pkg/dice"
	"github.com/bft-labs/diceroller/pkg/log"
)

// SessionHeader carries the caller's session ID. Requests without it share
// the anonymous session.
const SessionHeader = "X-Session-ID"

// maxSessions caps the per-session roller cache. The least recently used
// session is evicted first; if it comes back its stream restarts from the
// seed.
const maxSessions = 1024

const shutdownTimeout = 5 * time.Second

// Config holds server settings.
type Config struct {
	Listen  string
	MaxDice int
	Sides   int
	// Seed, when non-zero, gives every session a reproducible stream derived
	// from the seed and the session ID.
	Seed uint64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for requests and roll events.
func WithLogger(logger log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server is the HTTP front-end. It is safe for concurrent use.
type Server struct {
	cfg      Config
	echo     *echo.Echo
	history  *history.Log
	logger   log.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	sides       int
	shared      *dice.Roller
	sessions    map[string]*list.Element
	recent      *list.List // of *session, most recently used first
	maxSessions int

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a Server recording rolls into hist.
func New(cfg Config, hist *history.Log, opts ...Option) *Server {
	if cfg.MaxDice < 1 {
		cfg.MaxDice = 2
	}
	if cfg.Sides < 1 {
		cfg.Sides = dice.DefaultSides
	}

	s := &Server{
		cfg:      cfg,
		echo:     echo.New(),
		history:  hist,
		logger:   log.NewNoopLogger(),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		sides:    cfg.Sides,
		shared:   dice.New(),
		sessions: make(map[string]*list.Element),
		recent:   list.New(),
		done:     make(chan struct{}),

		maxSessions: maxSessions,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("request",
				log.String("method", v.Method),
				log.String("uri", v.URI),
				log.Int("status", v.Status),
				log.Duration("latency", v.Latency),
				log.String("request_id", v.RequestID),
			)
			return nil
		},
	}))

	api := s.echo.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.POST("/roll", s.handleRoll)
	api.GET("/history", s.handleHistory)

	s.echo.GET("/ws", s.handleEvents)
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on cfg.Listen until ctx is cancelled, then shuts down.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(s.cfg.Listen)
	}()
	s.logger.Info("server listening", log.String("listen", s.cfg.Listen))

	select {
	case err := <-errCh:
		s.close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", s.cfg.Listen, err)
	case <-ctx.Done():
	}

	s.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// close releases WebSocket streams, which Shutdown does not track.
func (s *Server) close() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Sides returns the number of faces currently rolled.
func (s *Server) Sides() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sides
}

// SetSides changes the number of faces for subsequent rolls.
func (s *Server) SetSides(sides int) error {
	if err := (dice.RollRequest{Count: 1, Sides: sides}).Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	prev := s.sides
	s.sides = sides
	s.mu.Unlock()
	if prev != sides {
		s.logger.Info("sides updated", log.Int("from", prev), log.Int("to", sides))
	}
	return nil
}

// Roll rolls count dice for session and records the result.
func (s *Server) Roll(session string, count int) (history.Entry, error) {
	if count > s.cfg.MaxDice {
		return history.Entry{}, &dice.ArgumentError{
			Arg: "num_dice",
			Msg: fmt.Sprintf("num_dice must be <= %d", s.cfg.MaxDice),
		}
	}

	roller, sides := s.rollerFor(session)
	values, err := roller.RollMany(count, sides)
	if err != nil {
		return history.Entry{}, err
	}
	text, err := dice.Format(values)
	if err != nil {
		return history.Entry{}, err
	}

	e := s.history.Append(history.Entry{
		Session: session,
		Dice:    values,
		Total:   values.Total(),
		Text:    text,
	})
	s.logger.Debug("rolled",
		log.String("session", session),
		log.Ints("dice", values),
		log.Uint64("seq", e.Seq),
	)
	return e, nil
}

func (s *Server) rollerFor(session string) (*dice.Roller, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Seed == 0 {
		return s.shared, s.sides
	}
	if el, ok := s.sessions[session]; ok {
		s.recent.MoveToFront(el)
		return el.Value.(*sessionRoller).roller, s.sides
	}
	for s.recent.Len() >= s.maxSessions {
		oldest := s.recent.Back()
		s.recent.Remove(oldest)
		delete(s.sessions, oldest.Value.(*sessionRoller).id)
	}
	r := dice.New(dice.WithSource(dice.NewSourceWithStream(s.cfg.Seed, sessionStream(session))))
	s.sessions[session] = s.recent.PushFront(&sessionRoller{id: session, roller: r})
	return r, s.sides
}

type sessionRoller struct {
	id     string
	roller *dice.Roller
}

func sessionStream(session string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(session))
	return h.Sum64()
}
