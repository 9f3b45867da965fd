// Package events persists domain events with write-once semantics. An
// event is keyed by (subject, event name); raising the same event twice
// is detected by the store's precondition, never retried.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/warehouse/inventory/internal/apperr"
	"github.com/warehouse/inventory/internal/db"
	"github.com/warehouse/inventory/internal/domain"
)

// Store writes domain events into the event log.
type Store struct {
	client db.API
	table  string
	log    *zap.Logger
}

// NewStore creates a Store bound to a table.
func NewStore(client db.API, table string, log *zap.Logger) *Store {
	return &Store{client: client, table: table, log: log}
}

// Raise records the event, failing with a duplicate-event kind when the
// same (subject, eventName) was already recorded.
func (s *Store) Raise(ctx context.Context, event domain.Event) error {
	const op = "raise domain event"

	record := db.NewEventRecord(event, time.Now())
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return apperr.New(apperr.KindInvalidInput, op, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.table,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(pk)"),
	})
	if err == nil {
		s.log.Info("domain event raised",
			zap.String("event_name", event.Name),
			zap.String("subject", event.Subject),
		)
		return nil
	}

	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return apperr.Newf(apperr.KindDuplicateEvent, op, "event %s already raised for %s", event.Name, event.Subject)
	}
	return apperr.New(apperr.KindInfrastructure, op, err)
}
