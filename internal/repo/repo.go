// Package repo implements the transactional data access of the inventory
// service against the single DynamoDB table: the allocation and
// deallocation write plans, their execution, and the classification of
// precondition failures into domain outcomes.
package repo

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/warehouse/inventory/internal/db"
)

// InventoryRepo executes the allocation protocol against the table.
type InventoryRepo struct {
	client db.API
	table  string
}

// New creates an InventoryRepo bound to a table.
func New(client db.API, table string) *InventoryRepo {
	return &InventoryRepo{client: client, table: table}
}

func conditionalCheckFailed(reason types.CancellationReason) bool {
	return reason.Code != nil && *reason.Code == "ConditionalCheckFailed"
}
