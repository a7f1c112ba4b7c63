package synapse

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// ServerConfig holds configuration for the Synapse web server
type ServerConfig struct {
	// Port is the port to listen on (default: 8080)
	Port string

	// Host is the host to bind to (default: "")
	Host string

	// EnableCORS enables CORS middleware (default: true)
	EnableCORS bool

	// EnableLogger enables request logging middleware (default: true)
	EnableLogger bool

	// EnableRecover enables panic recovery middleware (default: true)
	EnableRecover bool

	// ShutdownTimeout is the timeout for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns a server configuration with sensible defaults
func DefaultServerConfig() *ServerConfig {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &ServerConfig{
		Port:            port,
		Host:            "",
		EnableCORS:      true,
		EnableLogger:    true,
		EnableRecover:   true,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Server wraps a web server implementation with lifecycle handling:
// config-driven global middleware and signal-driven graceful shutdown
type Server struct {
	ws     WebServerInterface
	config *ServerConfig
}

// NewServer creates a new Synapse server around the given web server
func NewServer(ws WebServerInterface, config *ServerConfig) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}

	if config.EnableRecover {
		ws.Use(RecoverMiddleware())
	}
	if config.EnableLogger {
		ws.Use(LoggerMiddleware())
	}
	if config.EnableCORS {
		ws.Use(CORSMiddleware())
	}

	return &Server{
		ws:     ws,
		config: config,
	}
}

// WebServer returns the wrapped web server for route compilation
func (s *Server) WebServer() WebServerInterface {
	return s.ws
}

// Start starts the server and blocks until shutdown. SIGINT and SIGTERM
// trigger a graceful stop bounded by the configured timeout.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)
		log.Printf("Starting %s server on %s", s.ws.Name(), addr)
		if err := s.ws.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.ws.Stop(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server shutdown complete")
	return nil
}
