package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mhelmih/docureco/pkg/server"
	"github.com/mhelmih/docureco/pkg/store"
)

// RegisterRecommendationsEndpoints registers the recommendation endpoints
func RegisterRecommendationsEndpoints(s *server.Server) {
	// GET /recommendations/{owner}/{repo}/{pr} - Stored recommendations for a PR
	s.Router.HandleFunc("/recommendations/{owner}/{repo}/{pr:[0-9]+}", handleListRecommendations(s.Store)).Methods("GET")
}

func handleListRecommendations(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		repository := vars["owner"] + "/" + vars["repo"]
		prNumber, err := strconv.Atoi(vars["pr"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid PR number")
			return
		}

		recs, err := st.ListRecommendations(repository, prNumber)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to load recommendations")
			return
		}
		respondWithJSON(w, http.StatusOK, recs)
	}
}
