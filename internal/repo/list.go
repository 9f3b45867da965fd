package repo

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/warehouse/inventory/internal/apperr"
	"github.com/warehouse/inventory/internal/db"
	"github.com/warehouse/inventory/internal/domain"
)

// ListSkus returns all SKU counters, ordered by SKU.
func (r *InventoryRepo) ListSkus(ctx context.Context) ([]domain.SkuCounter, error) {
	const op = "list skus"

	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        &r.table,
		FilterExpression: aws.String("recordType = :recordType"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":recordType": &types.AttributeValueMemberS{Value: db.RecordTypeSkuCounter},
		},
	})
	if err != nil {
		return nil, apperr.New(apperr.KindInfrastructure, op, err)
	}

	counters := make([]domain.SkuCounter, 0, len(out.Items))
	for _, item := range out.Items {
		var record db.CounterRecord
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			return nil, apperr.New(apperr.KindInfrastructure, op, err)
		}
		counter, err := record.ToSkuCounter()
		if err != nil {
			return nil, apperr.New(apperr.KindInfrastructure, op, err)
		}
		counters = append(counters, counter)
	}

	sort.Slice(counters, func(i, j int) bool { return counters[i].SKU < counters[j].SKU })
	return counters, nil
}
