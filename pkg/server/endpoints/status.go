package endpoints

import (
	"net/http"
	"os"

	"gorm.io/gorm"

	"github.com/mhelmih/docureco/pkg/server"
)

// StatusResponse represents the response from /
type StatusResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HealthResponse represents the response from /health
type HealthResponse struct {
	Status string `json:"status"`
}

// RegisterStatusEndpoints registers the status and health endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Service status (no auth required)
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")

	// GET /health - Database connectivity check
	s.Router.HandleFunc("/health", handleHealth(s.DB)).Methods("GET")
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("DOCURECO_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{Name: "docureco", Version: version})
	}
}

func handleHealth(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "error"})
			return
		}
		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
