package repo

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/warehouse/inventory/internal/db"
	"github.com/warehouse/inventory/internal/domain"
)

// BuildAllocateTransaction turns an order-created fact into the two-item
// allocation write plan:
//
//	item 0: create the allocation record, guarded on the record not
//	        existing yet;
//	item 1: subtract the units from the SKU counter, guarded on the
//	        counter existing with at least that many units.
//
// Pure transformation, no side effects.
func BuildAllocateTransaction(table string, fact domain.OrderCreated, now time.Time) ([]types.TransactWriteItem, error) {
	record := db.NewAllocationRecord(fact, now)
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal allocation record: %w", err)
	}

	counterPK, counterSK := db.CounterKey(fact.SKU)
	return []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(table),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(pk)"),
			},
		},
		{
			Update: &types.Update{
				TableName:           aws.String(table),
				Key:                 stringKey(counterPK, counterSK),
				UpdateExpression:    aws.String("SET units = units - :units, updatedAt = :updatedAt"),
				ConditionExpression: aws.String("attribute_exists(pk) AND units >= :units"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":units":     numberValue(fact.Units),
					":updatedAt": &types.AttributeValueMemberS{Value: db.Timestamp(now)},
				},
			},
		},
	}, nil
}

// BuildDeallocateTransaction turns a read allocation snapshot into the
// compensating two-item write plan:
//
//	item 0: flip the allocation record to PAYMENT_REJECTED, guarded on
//	        the record still matching the snapshot's orderId, sku and
//	        units with status ALLOCATED;
//	item 1: add the units back to the SKU counter, guarded on the
//	        counter existing.
//
// The snapshot match closes the read-then-write race window: a stale
// snapshot or an already compensated order fails its precondition.
func BuildDeallocateTransaction(table string, snapshot domain.OrderAllocation, now time.Time) []types.TransactWriteItem {
	allocPK, allocSK := db.AllocationKey(snapshot.SKU, snapshot.OrderID)
	counterPK, counterSK := db.CounterKey(snapshot.SKU)
	ts := &types.AttributeValueMemberS{Value: db.Timestamp(now)}

	return []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:           aws.String(table),
				Key:                 stringKey(allocPK, allocSK),
				UpdateExpression:    aws.String("SET allocationStatus = :rejected, updatedAt = :updatedAt"),
				ConditionExpression: aws.String("attribute_exists(pk) AND orderId = :orderId AND sku = :sku AND units = :units AND allocationStatus = :allocated"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":rejected":  &types.AttributeValueMemberS{Value: string(domain.AllocationStatusPaymentRejected)},
					":orderId":   &types.AttributeValueMemberS{Value: snapshot.OrderID},
					":sku":       &types.AttributeValueMemberS{Value: snapshot.SKU},
					":units":     numberValue(snapshot.Units),
					":allocated": &types.AttributeValueMemberS{Value: string(domain.AllocationStatusAllocated)},
					":updatedAt": ts,
				},
			},
		},
		{
			Update: &types.Update{
				TableName:           aws.String(table),
				Key:                 stringKey(counterPK, counterSK),
				UpdateExpression:    aws.String("SET units = units + :units, updatedAt = :updatedAt"),
				ConditionExpression: aws.String("attribute_exists(pk)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":units":     numberValue(snapshot.Units),
					":updatedAt": ts,
				},
			},
		},
	}
}

// BuildRestockTransaction turns a restock fact into the two-item write
// plan that makes the additive counter update idempotent per lot:
//
//	item 0: record the SKU_RESTOCKED event for the lot, guarded on the
//	        event not existing yet;
//	item 1: upsert the SKU counter, adding the units.
//
// A redelivered lot fails item 0, which classifies as a duplicate event
// and is skipped by the worker.
func BuildRestockTransaction(table string, fact domain.SkuRestock, now time.Time) ([]types.TransactWriteItem, error) {
	record := db.NewEventRecord(domain.NewSkuRestockedEvent(fact), now)
	eventItem, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal restock event record: %w", err)
	}

	counterPK, counterSK := db.CounterKey(fact.SKU)
	ts := db.Timestamp(now)
	return []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(table),
				Item:                eventItem,
				ConditionExpression: aws.String("attribute_not_exists(pk)"),
			},
		},
		{
			Update: &types.Update{
				TableName:        aws.String(table),
				Key:              stringKey(counterPK, counterSK),
				UpdateExpression: aws.String("SET recordType = :recordType, sku = :sku, updatedAt = :updatedAt, createdAt = if_not_exists(createdAt, :updatedAt) ADD units :units"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":recordType": &types.AttributeValueMemberS{Value: db.RecordTypeSkuCounter},
					":sku":        &types.AttributeValueMemberS{Value: fact.SKU},
					":units":      numberValue(fact.Units),
					":updatedAt":  &types.AttributeValueMemberS{Value: ts},
				},
			},
		},
	}, nil
}

func stringKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: pk},
		"sk": &types.AttributeValueMemberS{Value: sk},
	}
}

func numberValue(n int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}
}
