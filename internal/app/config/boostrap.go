package config

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/playwright-community/playwright-go"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Bootstrap holds the drivers shared by the HTTP server and the CLI. Optional
// drivers are nil when their service is not configured.
type Bootstrap struct {
	Router         *chi.Mux
	Redis          *redis.Client
	MongoDB        *mongo.Client
	Minio          *minio.Client
	Logger         *zap.Logger
	RabbitMQ       *amqp091.Connection
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	Browser        playwright.Browser
	// BrowserStop stops the playwright driver and its browser.
	BrowserStop func() error
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.BrowserStop != nil {
		if err := b.BrowserStop(); err != nil {
			return err
		}
		log.Println("Successfully stopped browser")
	}

	if b.Redis != nil {
		err := b.Redis.Close()
		if err != nil {
			return err
		}
		log.Println("Successfully closing Redis")
	}

	if b.MongoDB != nil {
		err := b.MongoDB.Disconnect(ctx)
		if err != nil {
			return err
		}
		log.Println("Successfully closing MongoDB")
	}

	if b.RabbitMQ != nil {
		err := b.RabbitMQ.Close()
		if err != nil {
			return err
		}
		log.Println("Successfully closing RabbitMQ")
	}

	// Sync fails on stdout for some terminals, nothing to recover there.
	_ = b.Logger.Sync()
	log.Println("Successfully closing Logger")

	return nil
}
