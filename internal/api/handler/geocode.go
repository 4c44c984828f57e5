package handler

import (
	"net/http"

	"github.com/evrider/rideassist/internal/api/models"
	"github.com/evrider/rideassist/internal/api/response"
	"github.com/evrider/rideassist/internal/geocode"
)

// GeocodeHandler handles place suggestion endpoints.
type GeocodeHandler struct {
	service *geocode.Service
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(service *geocode.Service) *GeocodeHandler {
	return &GeocodeHandler{service: service}
}

// Suggest handles GET /v1/geocode/suggest?q= - typeahead place suggestions.
// Short queries and provider failures both yield an empty suggestion list.
func (h *GeocodeHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	places := h.service.Suggest(r.Context(), query)
	if places == nil {
		places = []geocode.Place{}
	}

	response.JSON(w, r, http.StatusOK, models.SuggestResponse{Suggestions: places})
}
