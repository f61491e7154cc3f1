// Package server provides the read-only HTTP API over stored traceability
// maps and recommendations.
//
// It uses gorilla/mux for routing and gorilla/handlers for request logging.
//
// # Server Setup
//
//	srv := server.NewServer(store, db, cfg, host, port)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - / - service name and version
//   - /health - database connectivity check
//   - /maps/{owner}/{repo} - full baseline map (?branch=, default main)
//   - /maps/{owner}/{repo}/stats - per-artifact counts
//   - /recommendations/{owner}/{repo}/{pr} - stored recommendations for a PR
package server
