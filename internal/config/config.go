package config

import (
	"os"
)

// Config holds all configuration for the inventory service functions
type Config struct {
	ServiceName     string
	TableName       string
	RestockQueueURL string
	AWSRegion       string
	AWSEndpoint     string
	LogLevel        string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		ServiceName:     getEnv("SERVICE_NAME", "inventory"),
		TableName:       getEnv("TABLE_NAME", "warehouse-inventory"),
		RestockQueueURL: getEnv("RESTOCK_QUEUE_URL", ""),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		AWSEndpoint:     getEnv("AWS_ENDPOINT_URL", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
