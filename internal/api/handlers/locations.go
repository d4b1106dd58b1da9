package handlers

import (
	"log"
	"net/http"
	"tour-composer-service/internal/api/dto"
	"tour-composer-service/internal/ports"

	"github.com/julienschmidt/httprouter"
)

type LocationHandler struct {
	Catalog ports.LocationCatalog
}

// List returns the locations a visit can point at.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	locs, err := h.Catalog.ListLocations(r.Context())
	if err != nil {
		log.Printf("list locations failed: err=%v", err)
		writeError(w, r, http.StatusBadGateway, "failed to list locations")
		return
	}

	res := dto.ListLocationResponse{Locations: make([]dto.LocationResponse, 0, len(locs))}
	for _, l := range locs {
		medias := l.Medias
		if medias == nil {
			medias = []string{}
		}
		res.Locations = append(res.Locations, dto.LocationResponse{
			ID:        l.ID,
			Name:      l.Name,
			Address:   l.Address,
			Category:  l.Category,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
			OpenTime:  l.OpenTime,
			CloseTime: l.CloseTime,
			Medias:    medias,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
