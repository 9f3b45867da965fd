package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"github.com/warehouse/inventory/internal/apperr"
	"github.com/warehouse/inventory/internal/domain"
)

// SQSAPI is the subset of the SQS client the sender uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Connect builds an SQS client for the given region, honoring an
// endpoint override for local development.
func Connect(ctx context.Context, region, endpoint string) (*sqs.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return client, nil
}

// RestockSender enqueues restock work for the restock worker.
type RestockSender struct {
	client   SQSAPI
	queueURL string
	log      *zap.Logger
}

// NewRestockSender creates a RestockSender bound to a queue.
func NewRestockSender(client SQSAPI, queueURL string, log *zap.Logger) *RestockSender {
	return &RestockSender{client: client, queueURL: queueURL, log: log}
}

// SendRestock enqueues a SKU_RESTOCK_REQUESTED message for the fact.
func (s *RestockSender) SendRestock(ctx context.Context, fact domain.SkuRestock) error {
	const op = "send restock message"

	data, err := json.Marshal(RestockData{SKU: fact.SKU, Units: fact.Units, LotID: fact.LotID})
	if err != nil {
		return apperr.New(apperr.KindInvalidInput, op, err)
	}
	body, err := json.Marshal(Message{EventName: MessageSkuRestockRequested, EventData: data})
	if err != nil {
		return apperr.New(apperr.KindInvalidInput, op, err)
	}

	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    &s.queueURL,
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return apperr.New(apperr.KindInfrastructure, op, err)
	}

	s.log.Info("restock message enqueued",
		zap.String("sku", fact.SKU),
		zap.String("lot_id", fact.LotID),
		zap.Int64("units", fact.Units),
	)
	return nil
}
