package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/profitscout/scout-api/internal/artifacts"
	"github.com/profitscout/scout-api/pkg/logger"
)

// ArtifactHandler serves resolved research artifacts
type ArtifactHandler struct {
	service *artifacts.Service
	logger  *logger.Logger
}

// NewArtifactHandler creates a new artifact handler
func NewArtifactHandler(service *artifacts.Service, log *logger.Logger) *ArtifactHandler {
	return &ArtifactHandler{service: service, logger: log}
}

// Get returns the best-matching artifact for a dataset/id/as_of request
// GET /v1/{dataset}/{id}?as_of=latest|YYYY-MM-DD
func (h *ArtifactHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	dataset := vars["dataset"]
	id := vars["id"]

	asOf := r.URL.Query().Get("as_of")
	if asOf == "" {
		asOf = "latest"
	}

	cacheControl(w, 120)

	envelope, err := h.service.Resolve(ctx, dataset, id, asOf)
	if err != nil {
		if errors.Is(err, artifacts.ErrNotFound) {
			respondNotFound(w, "Item not found.",
				fmt.Sprintf("No %s artifact for ID=%s (as_of=%s).", dataset, strings.ToUpper(id), asOf))
			return
		}

		h.logger.WithError(err).WithFields(map[string]interface{}{
			"dataset": dataset,
			"id":      id,
			"as_of":   asOf,
		}).Error("Failed to resolve artifact")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve artifact")
		return
	}

	respondJSON(w, http.StatusOK, envelope)
}
