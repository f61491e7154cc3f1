package endpoints

import (
	"github.com/mhelmih/docureco/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterMapsEndpoints(srv)
	RegisterRecommendationsEndpoints(srv)
}
