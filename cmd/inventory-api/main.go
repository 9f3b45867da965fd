package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/warehouse/inventory/internal/config"
	"github.com/warehouse/inventory/internal/db"
	"github.com/warehouse/inventory/internal/handler"
	"github.com/warehouse/inventory/internal/queue"
	"github.com/warehouse/inventory/internal/repo"
	"github.com/warehouse/inventory/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName+"-api", cfg.LogLevel)
	defer log.Sync()

	ctx := context.Background()
	client, err := db.Connect(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
	if err != nil {
		log.Fatal("failed to connect to DynamoDB", zap.Error(err))
	}
	sqsClient, err := queue.Connect(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
	if err != nil {
		log.Fatal("failed to connect to SQS", zap.Error(err))
	}

	repository := repo.New(client, cfg.TableName)
	restock := queue.NewRestockSender(sqsClient, cfg.RestockQueueURL, log)
	api := handler.NewAPI(repository, restock, log)

	log.Info("inventory api starting",
		zap.String("table", cfg.TableName),
		zap.String("restock_queue", cfg.RestockQueueURL),
	)
	lambda.Start(api.Handle)
}
