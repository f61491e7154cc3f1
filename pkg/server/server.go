package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/mhelmih/docureco/pkg/config"
	"github.com/mhelmih/docureco/pkg/store"
)

type Server struct {
	Store  store.Store
	DB     *gorm.DB
	Config *config.Config
	Router *mux.Router
	srv    *http.Server
}

func NewServer(st store.Store, db *gorm.DB, cfg *config.Config, host string, port string) *Server {
	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Store:  st,
		DB:     db,
		Config: cfg,
		Router: router,
		srv:    srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops the server, waiting for in-flight requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
