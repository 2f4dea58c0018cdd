package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"syscall"

	"github.com/PrjctQ/qcore/pkg/config"
)

// Server manages the HTTP listener lifecycle.
type Server struct {
	cfg    *config.Config
	server *http.Server
	port   int
}

// New creates a new server instance with the provided handler
func New(cfg *config.Config, handler http.Handler) *Server {
	return &Server{
		cfg:  cfg,
		port: cfg.App.Port,
		server: &http.Server{
			Handler:        handler,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.IdleTimeout,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
	}
}

// Port returns the port the server actually bound, which may differ from the
// configured one after in-use retries.
func (s *Server) Port() int {
	return s.port
}

// Start binds the listener and serves. When the configured port is already in
// use, the next port up is tried, up to the configured retry ceiling.
func (s *Server) Start() error {
	port := s.cfg.App.Port

	for attempt := 0; ; attempt++ {
		addr := fmt.Sprintf(":%d", port)

		listener, err := net.Listen("tcp", addr)
		if err != nil {
			if errors.Is(err, syscall.EADDRINUSE) && attempt < s.cfg.App.PortRetries {
				slog.Warn("port already in use, trying next",
					"port", port,
					"next_port", port+1,
					"attempt", attempt+1,
					"max_retries", s.cfg.App.PortRetries,
				)
				port++
				continue
			}
			return fmt.Errorf("bind listener on %s: %w", addr, err)
		}

		s.port = port
		slog.Info("server started",
			"port", port,
			"env", s.cfg.App.Env,
			"read_timeout", s.cfg.Server.ReadTimeout,
			"write_timeout", s.cfg.Server.WriteTimeout,
		)

		return s.server.Serve(listener)
	}
}

// Shutdown gracefully shuts down the server: it stops accepting new
// connections and waits for in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	return s.server.Shutdown(ctx)
}
