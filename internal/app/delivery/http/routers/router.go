package routers

import (
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/app/delivery/http/controllers"
	"openmrs-billing-e2e/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	runController *controllers.RunController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "x-api-key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.RateLimit())
	router.Use(middlewares.ErrorHandler)
	router.NotFound(middlewares.NotFound)

	router.Route(internalConfig.App.EndpointPrefix, func(r chi.Router) {
		r.Route("/suites", func(r chi.Router) {
			attachSuiteRoutes(r, middlewares, runController)
		})

		r.Route("/runs", func(r chi.Router) {
			attachRunRoutes(r, middlewares, runController)
		})
	})
}
