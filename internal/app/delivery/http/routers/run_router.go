package routers

import (
	"openmrs-billing-e2e/internal/app/delivery/http/controllers"
	"openmrs-billing-e2e/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachRunRoutes(router chi.Router, middlewares *middlewares.Middlewares, runController *controllers.RunController) {
	router.With(middlewares.RequireAPIKey).Post("/", runController.StartRun)
	router.Get("/", runController.ListRuns)
	router.Get("/{runID}", runController.GetRun)
}
