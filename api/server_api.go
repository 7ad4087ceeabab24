package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/saeidalz13/battleship-hotseat/db/sqlc"
	mb "github.com/saeidalz13/battleship-hotseat/models/battleship"
	mc "github.com/saeidalz13/battleship-hotseat/models/connection"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	defaultPort     = "8000"
	shutdownTimeout = time.Second * 10
)

type Server struct {
	port           string
	stage          string
	allowedOrigins map[string]bool
	querier        sqlc.Querier
	serverIpNet    net.IPNet

	GameManager      *mb.BattleshipGameManager
	SessionManager   *mc.BattleshipSessionManager
	Db               sqlc.DbManager
	requestProcessor RequestProcessor
}

type Option func(*Server) error

func NewServer(optFuncs ...Option) *Server {
	server := Server{
		port:           defaultPort,
		stage:          StageDev,
		allowedOrigins: make(map[string]bool),
	}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			panic(err)
		}
	}

	server.serverIpNet = findServerIpNet()
	server.Db = sqlc.NewDbManager(server.querier, server.serverIpNet)
	server.GameManager = mb.NewBattleshipGameManager()
	server.SessionManager = mc.NewBattleshipSessionManager()
	server.requestProcessor = NewRequestProcessor(
		server.SessionManager,
		server.GameManager,
		server.Db.Analytics,
		server.newUpgrader(),
	)

	return &server
}

func WithPort(port string) Option {
	return func(s *Server) error {
		if port == "" {
			return errors.New("port cannot be empty")
		}
		s.port = port
		return nil
	}
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != StageProd && stage != StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		s.stage = stage
		return nil
	}
}

// Only consulted in prod; dev accepts every origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) error {
		for _, origin := range origins {
			if origin != "" {
				s.allowedOrigins[origin] = true
			}
		}
		return nil
	}
}

// A nil querier leaves analytics disabled.
func WithQuerier(q sqlc.Querier) Option {
	return func(s *Server) error {
		s.querier = q
		return nil
	}
}

func (s *Server) ServerIpNet() net.IPNet {
	return s.serverIpNet
}

func (s *Server) newUpgrader() *websocket.Upgrader {
	upgrader := websocket.Upgrader{
		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		// a full fleet placement is the largest frame the client sends
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
	}

	switch s.stage {
	case StageProd:
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return s.allowedOrigins[r.Header.Get("Origin")]
		}
	default:
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}

	return &upgrader
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/games/{gameUuid}", s.handleGetGame)

	// no timeout middleware here; the websocket outlives any request deadline
	r.Method(http.MethodGet, "/battleship", s.requestProcessor)

	return r
}

// Run blocks until ctx is cancelled and then shuts the server down.
func (s *Server) Run(ctx context.Context) error {
	go s.SessionManager.CleanupPeriodically(ctx)

	server := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: time.Second * 5,
		IdleTimeout:       time.Second * 60,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening to port %s...\n", s.port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// Picks the first non loopback IPv4 address of the machine.
// Analytics rows are keyed by it.
func findServerIpNet() net.IPNet {
	loopback := net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(32, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Printf("failed to list network interfaces: %s\n", err)
		return loopback
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip := ipnet.IP.To4(); ip != nil && !ip.IsLoopback() {
				return net.IPNet{IP: ip, Mask: net.CIDRMask(32, 32)}
			}
		}
	}

	return loopback
}
