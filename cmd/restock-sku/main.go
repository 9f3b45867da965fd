package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/warehouse/inventory/internal/config"
	"github.com/warehouse/inventory/internal/db"
	"github.com/warehouse/inventory/internal/handler"
	"github.com/warehouse/inventory/internal/repo"
	"github.com/warehouse/inventory/internal/service"
	"github.com/warehouse/inventory/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName+"-restock-sku", cfg.LogLevel)
	defer log.Sync()

	client, err := db.Connect(context.Background(), cfg.AWSRegion, cfg.AWSEndpoint)
	if err != nil {
		log.Fatal("failed to connect to DynamoDB", zap.Error(err))
	}

	repository := repo.New(client, cfg.TableName)
	worker := service.NewRestockSkuWorker(repository, log)

	log.Info("restock-sku worker starting", zap.String("table", cfg.TableName))
	lambda.Start(handler.NewSQSHandler(log, handler.RestockRecordHandler(worker)))
}
