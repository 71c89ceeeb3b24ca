package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/appraisal-comps/internal/db"
	"github.com/appraisal-comps/internal/store"
	"github.com/appraisal-comps/internal/web/handlers"
	"github.com/appraisal-comps/internal/web/middleware"
)

// Server represents the review web server
type Server struct {
	config     *Config
	conn       *db.Connection
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a new review server instance. The database connection is
// only opened when the database feature is enabled; otherwise rows are served
// from the scored CSV.
func NewServer(config *Config) (*Server, error) {
	server := &Server{config: config}

	if config.Features.UseDatabase {
		conn, err := db.NewConnection()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		server.conn = conn
	}

	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	reviewHandler := &handlers.ReviewHandler{
		FeedbackCSV: s.config.Paths.FeedbackCSV,
		ScoredCSV:   s.config.Paths.ScoredCSV,
	}
	if s.conn != nil {
		reviewHandler.Store = store.NewStore(s.conn)
	}

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", handlers.Health).Methods("GET")
	api.HandleFunc("/appraisals", reviewHandler.ListAppraisals).Methods("GET")
	api.HandleFunc("/appraisals/{id}/rows", reviewHandler.GetRows).Methods("GET")
	api.HandleFunc("/feedback", reviewHandler.PostFeedback).Methods("POST")

	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestLogging())
}

// Start starts the web server and blocks until shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		fmt.Printf("Starting review server on http://%s\n", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server error: %v\n", err)
		}
	}()

	<-stop
	fmt.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("Server shutdown error: %v\n", err)
	}

	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			fmt.Printf("Database close error: %v\n", err)
		}
	}

	fmt.Println("Server stopped")
	return nil
}
