package routers

import (
	"openmrs-billing-e2e/internal/app/delivery/http/controllers"
	"openmrs-billing-e2e/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachSuiteRoutes(router chi.Router, middlewares *middlewares.Middlewares, runController *controllers.RunController) {
	router.Get("/", runController.ListSuites)
}
