package endpoints

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mhelmih/docureco/pkg/server"
	"github.com/mhelmih/docureco/pkg/store"
)

// RegisterMapsEndpoints registers the baseline map endpoints
func RegisterMapsEndpoints(s *server.Server) {
	st := s.Store

	// GET /maps/{owner}/{repo}/stats - Per-artifact counts
	s.Router.HandleFunc("/maps/{owner}/{repo}/stats", handleMapStats(st)).Methods("GET")

	// GET /maps/{owner}/{repo} - Full baseline map
	s.Router.HandleFunc("/maps/{owner}/{repo}", handleGetMap(st)).Methods("GET")
}

func repositoryAndBranch(r *http.Request) (string, string) {
	vars := mux.Vars(r)
	repository := vars["owner"] + "/" + vars["repo"]
	branch := r.URL.Query().Get("branch")
	if branch == "" {
		branch = "main"
	}
	return repository, branch
}

func handleGetMap(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repository, branch := repositoryAndBranch(r)

		m, err := st.GetBaselineMap(repository, branch)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "no baseline map for "+repository+"@"+branch)
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to load baseline map")
			return
		}
		respondWithJSON(w, http.StatusOK, m)
	}
}

func handleMapStats(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repository, branch := repositoryAndBranch(r)

		stats, err := st.BaselineMapStats(repository, branch)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "no baseline map for "+repository+"@"+branch)
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to load baseline map stats")
			return
		}
		respondWithJSON(w, http.StatusOK, stats)
	}
}
