package handlers

import (
	"net/http"

	"github.com/profitscout/scout-api/internal/artifacts"
	"github.com/profitscout/scout-api/pkg/logger"
)

// DatasetHandler serves the dataset discovery listing
type DatasetHandler struct {
	service *artifacts.Service
	logger  *logger.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service *artifacts.Service, log *logger.Logger) *DatasetHandler {
	return &DatasetHandler{service: service, logger: log}
}

// List returns the available dataset names
// GET /v1
func (h *DatasetHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheControl(w, 300)

	datasets, fallback, err := h.service.Datasets(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list datasets")
		respondError(w, http.StatusInternalServerError, "Could not retrieve datasets.")
		return
	}

	response := map[string]interface{}{
		"datasets": datasets,
	}
	if fallback {
		response["hint"] = "fallback"
	}

	respondJSON(w, http.StatusOK, response)
}
