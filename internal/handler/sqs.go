// Package handler adapts Lambda event sources to the worker services.
// SQS workers report partial batch failures: only transient errors are
// handed back for redelivery, everything else is logged and dropped.
package handler

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/warehouse/inventory/internal/apperr"
	"github.com/warehouse/inventory/internal/domain"
	"github.com/warehouse/inventory/internal/queue"
	"github.com/warehouse/inventory/internal/service"
)

// RecordHandler processes the body of one queue record.
type RecordHandler func(ctx context.Context, body []byte) error

// SQSHandler is the Lambda entrypoint signature for SQS-triggered
// functions.
type SQSHandler func(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error)

// NewSQSHandler wraps a record handler with the queue delivery contract:
// each record is processed independently; a transient failure is
// reported back so the transport redelivers it, a non-transient failure
// removes the record from the queue.
func NewSQSHandler(log *zap.Logger, handle RecordHandler) SQSHandler {
	return func(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
		var response events.SQSEventResponse
		for _, record := range event.Records {
			err := handle(ctx, []byte(record.Body))
			if err == nil {
				continue
			}
			if apperr.IsTransient(err) {
				log.Error("record failed, scheduling redelivery",
					zap.String("message_id", record.MessageId),
					zap.Error(err),
				)
				response.BatchItemFailures = append(response.BatchItemFailures, events.SQSBatchItemFailure{
					ItemIdentifier: record.MessageId,
				})
				continue
			}
			log.Error("dropping record",
				zap.String("message_id", record.MessageId),
				zap.String("error_kind", apperr.KindOf(err).String()),
				zap.Error(err),
			)
		}
		return response, nil
	}
}

// AllocateRecordHandler decodes order-created messages and feeds them to
// the allocation worker.
func AllocateRecordHandler(worker *service.AllocateOrderStockWorker) RecordHandler {
	return func(ctx context.Context, body []byte) error {
		var data queue.OrderCreatedData
		if err := decodeMessage(body, &data); err != nil {
			return err
		}
		fact, err := domain.NewOrderCreated(data.OrderID, data.SKU, data.UserID, data.Units, data.Price)
		if err != nil {
			return err
		}
		return worker.Handle(ctx, fact)
	}
}

// DeallocateRecordHandler decodes payment-rejected messages and feeds
// them to the deallocation worker.
func DeallocateRecordHandler(worker *service.DeallocateOrderPaymentRejectedWorker) RecordHandler {
	return func(ctx context.Context, body []byte) error {
		var data queue.PaymentRejectedData
		if err := decodeMessage(body, &data); err != nil {
			return err
		}
		fact, err := domain.NewPaymentRejected(data.OrderID, data.SKU)
		if err != nil {
			return err
		}
		return worker.Handle(ctx, fact)
	}
}

// RestockRecordHandler decodes restock messages and feeds them to the
// restock worker.
func RestockRecordHandler(worker *service.RestockSkuWorker) RecordHandler {
	return func(ctx context.Context, body []byte) error {
		var data queue.RestockData
		if err := decodeMessage(body, &data); err != nil {
			return err
		}
		fact, err := domain.NewSkuRestock(data.SKU, data.LotID, data.Units)
		if err != nil {
			return err
		}
		return worker.Handle(ctx, fact)
	}
}

func decodeMessage(body []byte, data interface{}) error {
	const op = "decode queue message"

	var message queue.Message
	if err := json.Unmarshal(body, &message); err != nil {
		return apperr.New(apperr.KindInvalidInput, op, err)
	}
	if len(message.EventData) == 0 {
		return apperr.Newf(apperr.KindInvalidInput, op, "message %q has no eventData", message.EventName)
	}
	if err := json.Unmarshal(message.EventData, data); err != nil {
		return apperr.New(apperr.KindInvalidInput, op, err)
	}
	return nil
}
