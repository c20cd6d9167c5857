package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/telnet2/go-practice/go-boatbus/internal/boatdata"
	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/logging"
	"github.com/telnet2/go-practice/go-boatbus/internal/navigation"
	"github.com/telnet2/go-practice/go-boatbus/internal/notify"
	"github.com/telnet2/go-practice/go-boatbus/internal/widget"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// Config holds server configuration.
type Config struct {
	Port         int
	Hostname     string
	CORSOrigins  []string // empty allows any origin
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MirrorPatterns select the channels streamed to SSE and WebSocket clients.
	MirrorPatterns []string
	MirrorBuffer   int64

	// Location, when set, is where the hosted page looks for nearby boats.
	Location *types.GeoPoint

	// ToastHistory is the number of hosted page toasts kept for /page.
	ToastHistory int
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:         4096,
		Hostname:     "127.0.0.1",
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // No write timeout for SSE
		MirrorBuffer: 100,
		ToastHistory: 20,
	}
}

// FromAppConfig builds a server configuration from resolved application config.
func FromAppConfig(cfg *types.Config) *Config {
	sc := DefaultConfig()
	if cfg == nil {
		return sc
	}
	if cfg.Server != nil {
		if cfg.Server.Port != 0 {
			sc.Port = cfg.Server.Port
		}
		if cfg.Server.Hostname != "" {
			sc.Hostname = cfg.Server.Hostname
		}
		sc.CORSOrigins = cfg.Server.CORS
	}
	if cfg.Events != nil {
		sc.MirrorPatterns = cfg.Events.Mirror
		if cfg.Events.Buffer > 0 {
			sc.MirrorBuffer = cfg.Events.Buffer
		}
	}
	sc.Location = cfg.Location
	return sc
}

// Server is the HTTP server.
type Server struct {
	config   *Config
	router   *chi.Mux
	httpSrv  *http.Server
	bus      *event.Bus
	mirror   *event.Mirror
	data     boatdata.Service
	page     *widget.Page
	toasts   *notify.Recorder
	nav      *navigation.Recorder
	upgrader websocket.Upgrader
	log      zerolog.Logger

	refreshSub *event.Subscription

	mu      sync.Mutex
	clients map[string]*wsClient
}

// New creates a server over bus and data, mirrors the bus for streaming
// clients and connects the hosted page.
func New(cfg *Config, bus *event.Bus, data boatdata.Service) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	mirror, err := event.NewMirror(bus, event.MirrorConfig{
		Patterns: cfg.MirrorPatterns,
		Buffer:   cfg.MirrorBuffer,
	})
	if err != nil {
		return nil, fmt.Errorf("mirror bus: %w", err)
	}

	s := &Server{
		config:  cfg,
		router:  chi.NewRouter(),
		bus:     bus,
		mirror:  mirror,
		data:    data,
		toasts:  notify.NewRecorder(cfg.ToastHistory),
		nav:     navigation.NewRecorder(),
		log:     logging.Component("server"),
		clients: make(map[string]*wsClient),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // origins are enforced by the CORS middleware
			},
		},
	}

	if err := s.connectPage(); err != nil {
		mirror.Close()
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// connectPage mounts the hosted page and keeps its results in step with
// data reloads.
func (s *Server) connectPage() error {
	env := widget.NewEnv(s.bus, s.data)
	env.Toast = notify.Multi(notify.NewLogger(), s.toasts)
	env.Nav = navigation.Logged(s.nav)

	page, err := widget.NewPage(env)
	if err != nil {
		return err
	}
	s.page = page

	ctx, cancel := context.WithTimeout(context.Background(), widget.DefaultTimeout)
	defer cancel()
	if err := page.Connect(ctx); err != nil {
		// The page stays mounted and recovers on the next refresh.
		s.log.Warn().Err(err).Msg("hosted page connected with errors")
	}
	if loc := s.config.Location; loc != nil {
		if err := page.NearMe.SetLocation(ctx, loc.Latitude, loc.Longitude); err != nil {
			s.log.Warn().Err(err).Msg("loading nearby boats")
		}
	}

	s.refreshSub, err = event.On(s.bus, event.Broad(), func(m event.BoatListRefreshed) {
		ctx, cancel := context.WithTimeout(context.Background(), widget.DefaultTimeout)
		defer cancel()
		if err := s.page.Results.Refresh(ctx); err != nil {
			s.log.Warn().Err(err).Msg("refreshing hosted page")
		}
	})
	if err != nil {
		page.Disconnect()
		return err
	}
	return nil
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	// Request ID
	s.router.Use(middleware.RequestID)

	// Logging
	s.router.Use(s.requestLogger)

	// Recover from panics
	s.router.Use(middleware.Recoverer)

	// Real IP
	s.router.Use(middleware.RealIP)

	// CORS
	if s.config.EnableCORS {
		origins := s.config.CORSOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
}

// requestLogger logs each request through zerolog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("requestID", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Hostname, strconv.Itoa(s.config.Port))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:         s.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.log.Info().Str("addr", s.httpSrv.Addr).Msg("listening")
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeClients()
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Close disconnects the hosted page and stops mirroring the bus. The bus
// itself belongs to the caller.
func (s *Server) Close() error {
	s.closeClients()
	s.refreshSub.Cancel()
	s.page.Disconnect()
	return s.mirror.Close()
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Page returns the hosted page.
func (s *Server) Page() *widget.Page {
	return s.page
}
