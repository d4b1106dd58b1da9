package api

import (
	"net/http"
	"tour-composer-service/internal/api/handlers"
	"tour-composer-service/internal/ports"
	"tour-composer-service/internal/session"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

type RouterDeps struct {
	Sessions    *session.Registry
	Catalog     ports.LocationCatalog
	CORSOrigins []string
	Limiter     *RateLimiter
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	router := httprouter.New()

	locHandler := &handlers.LocationHandler{Catalog: deps.Catalog}
	wizHandler := &handlers.WizardHandler{Sessions: deps.Sessions}

	limit := func(h httprouter.Handle) httprouter.Handle { return h }
	if deps.Limiter != nil {
		limit = deps.Limiter.Limit
	}

	router.HandlerFunc(http.MethodGet, "/health", handlers.Health)
	router.GET("/locations", limit(locHandler.List))

	router.POST("/wizards", limit(wizHandler.Create))
	router.GET("/wizards/:id", limit(wizHandler.Get))
	router.DELETE("/wizards/:id", limit(wizHandler.Delete))
	router.PUT("/wizards/:id/basic-info", limit(wizHandler.SetBasicInfo))
	router.PUT("/wizards/:id/schedules", limit(wizHandler.SetSchedules))
	router.POST("/wizards/:id/next", limit(wizHandler.Next))
	router.POST("/wizards/:id/back", limit(wizHandler.Back))
	router.POST("/wizards/:id/visits", limit(wizHandler.AddVisit))
	router.PUT("/wizards/:id/visits/:index", limit(wizHandler.EditVisit))
	router.DELETE("/wizards/:id/visits/:index", limit(wizHandler.RemoveVisit))
	router.GET("/wizards/:id/days/:day", limit(wizHandler.Day))
	router.GET("/wizards/:id/stats", limit(wizHandler.Stats))
	router.POST("/wizards/:id/submit", limit(wizHandler.Submit))

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return requestIDMiddleware(loggingMiddleware(c.Handler(router)))
}
