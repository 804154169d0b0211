package main

import (
	"context"
	"log"
	"net/http"
	"openmrs-billing-e2e/internal/app/bootstrap"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/app/delivery/http/controllers"
	"openmrs-billing-e2e/internal/app/delivery/http/middlewares"
	"openmrs-billing-e2e/internal/app/delivery/http/routers"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	if err := internalConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	app, err := bootstrap.Open(driverConfig, internalConfig, true)
	if err != nil {
		log.Fatalf("Failed to bootstrap the runner: %v", err)
	}

	services, err := bootstrap.NewServices(app)
	if err != nil {
		log.Fatalf("Failed to wire services: %v", err)
	}

	bootstrapingTheApp(app, services)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: app.Router,
	}

	go func() {
		app.Logger.Info("Runner API listening", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Waiting for runs in flight to finish..")
	if err := services.Close(); err != nil {
		log.Printf("Failed to close run event publisher: %v", err)
	}

	releaseCtx, releaseCancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer releaseCancel()

	if err := app.Shutdown(releaseCtx); err != nil {
		log.Printf("Failed to release drivers: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(app *config.Bootstrap, services *bootstrap.Services) {
	// Middlewares
	middlewareInstance := middlewares.NewMiddlewares(app.Logger, app.InternalConfig)
	if app.InternalConfig.App.APIKey == "" {
		app.Logger.Warn("APP_API_KEY is empty, POST /runs is not protected")
	}

	// Runs
	runController := controllers.NewRunController(app.Logger, services.Runs)

	routers.SetupRoutes(app.Router, app.InternalConfig, middlewareInstance, runController)
}
