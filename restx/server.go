package restx

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/embworks/restx/internal/obs"
)

const defaultBufSize = 4 << 10

// Server serves HTTP/1.1 requests from its own TCP listener. Routes are
// registered between New and Start; the route table is immutable while
// serving. The accept loop handles each connection synchronously to
// completion, so a single Server serves one request at a time; run more
// instances for concurrent throughput.
type Server[T any] struct {
	// ReadTimeout, when set, bounds how long a connection may take to
	// deliver its request before parsing gives up. Without it a stalled
	// client blocks the accept loop indefinitely.
	ReadTimeout time.Duration
	// Logger and Meter receive connection-scoped events and measurements.
	// Nil disables them.
	Logger obs.Logger
	Meter  obs.Meter

	ln       net.Listener
	routes   verbRoutes[RouteFunc[T]]
	ctx      T
	bufSize  int
	shutdown *atomic.Bool
}

// Option configures a Server at construction time.
type Option[T any] func(*Server[T])

// WithReadTimeout bounds how long each connection may take to deliver its
// request.
func WithReadTimeout[T any](d time.Duration) Option[T] {
	return func(s *Server[T]) { s.ReadTimeout = d }
}

// WithLogger sets the server's logger.
func WithLogger[T any](l obs.Logger) Option[T] {
	return func(s *Server[T]) { s.Logger = l }
}

// WithMeter sets the server's meter.
func WithMeter[T any](m obs.Meter) Option[T] {
	return func(s *Server[T]) { s.Meter = m }
}

// New binds a TCP listener on addr. bufSize is the per-connection buffer
// limit: it bounds single-read allocation and is the maximum accepted
// fixed body size (values <= 0 fall back to 4 KiB). ctx is the shared
// application context handed read-only to every handler constructor.
func New[T any](addr string, bufSize int, ctx T, opts ...Option[T]) (*Server[T], error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("restx: listen %s: %w", addr, err)
	}
	if bufSize <= 0 {
		bufSize = defaultBufSize
	}
	s := &Server[T]{
		ln:       ln,
		routes:   newVerbRoutes[RouteFunc[T]](),
		ctx:      ctx,
		bufSize:  bufSize,
		shutdown: new(atomic.Bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Addr returns the listener address; with ":0" this is how the bound port
// is discovered.
func (s *Server[T]) Addr() net.Addr { return s.ln.Addr() }

// Port returns the bound TCP port.
func (s *Server[T]) Port() int { return s.ln.Addr().(*net.TCPAddr).Port }

// Register adds a route for verb. Patterns use /-separated literal
// segments and :name parameter segments. Conflicts are reported as
// ErrRouteExists or ParamMismatchError, never by panicking.
func (s *Server[T]) Register(verb Verb, path string, fn RouteFunc[T]) error {
	return s.routes.forVerb(verb).add(path, fn)
}

func (s *Server[T]) Get(path string, fn RouteFunc[T]) error { return s.Register(GET, path, fn) }

func (s *Server[T]) Post(path string, fn RouteFunc[T]) error { return s.Register(POST, path, fn) }

func (s *Server[T]) Put(path string, fn RouteFunc[T]) error { return s.Register(PUT, path, fn) }

func (s *Server[T]) Patch(path string, fn RouteFunc[T]) error { return s.Register(PATCH, path, fn) }

func (s *Server[T]) Delete(path string, fn RouteFunc[T]) error { return s.Register(DELETE, path, fn) }

// Start runs the accept loop on the calling goroutine and returns once
// Stop is observed or the listener fails. Connection-scoped errors never
// terminate the loop.
func (s *Server[T]) Start() error {
	defer s.ln.Close()
	s.logf(obs.Info, "serving on %s", s.ln.Addr())
	for {
		c, err := s.ln.Accept()
		if s.shutdown.Load() {
			if err == nil {
				_ = c.Close()
			}
			s.logf(obs.Info, "shutting down")
			return nil
		}
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logf(obs.Warn, "accept: %v", err)
			continue
		}
		s.handleConn(c)
	}
}

// Stop requests shutdown. The accept loop may be blocked in Accept, so a
// throwaway connection is dialed to wake it; the loop sees the flag on its
// next iteration and exits.
func (s *Server[T]) Stop() {
	if s.shutdown.Swap(true) {
		return
	}
	if c, err := net.Dial("tcp", s.ln.Addr().String()); err == nil {
		_ = c.Close()
	}
}

// Stopped reports whether shutdown has been requested.
func (s *Server[T]) Stopped() bool { return s.shutdown.Load() }

func (s *Server[T]) logf(level obs.Level, format string, args ...any) {
	if s.Logger == nil {
		return
	}
	s.Logger.Logf(level, format, args...)
}

func (s *Server[T]) meter() obs.Meter {
	if s.Meter != nil {
		return s.Meter
	}
	return obs.NopMeter{}
}

// SpawnedServer is the handle for a server whose accept loop runs on its
// own goroutine.
type SpawnedServer struct {
	stop    func()
	stopped func() bool
	done    chan error

	once sync.Once
	err  error
}

// Spawn starts the server's accept loop on a new goroutine so the caller
// is not blocked. Routes must be registered before Spawn.
func Spawn[T any](s *Server[T]) *SpawnedServer {
	done := make(chan error, 1)
	go func() { done <- s.Start() }()
	return &SpawnedServer{stop: s.Stop, stopped: s.Stopped, done: done}
}

// Stop requests shutdown; safe to call more than once.
func (h *SpawnedServer) Stop() { h.stop() }

// Stopped reports whether shutdown has been requested.
func (h *SpawnedServer) Stopped() bool { return h.stopped() }

// Wait blocks until the accept loop has exited and returns its error.
func (h *SpawnedServer) Wait() error {
	h.once.Do(func() { h.err = <-h.done })
	return h.err
}
