// Package dbtest provides an in-memory stand-in for the DynamoDB table,
// implementing db.API with real evaluation of the condition and update
// expressions the service issues. Tests use it to exercise the
// transactional protocol, including per-item cancellation reasons.
package dbtest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const conditionalCheckFailed = "ConditionalCheckFailed"

// Fake is an in-memory single-table store.
type Fake struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	failNext error
}

// New creates an empty Fake.
func New() *Fake {
	return &Fake{items: make(map[string]map[string]types.AttributeValue)}
}

// FailNext makes the next API call return err instead of executing.
func (f *Fake) FailNext(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = err
}

// Seed inserts an item without any condition checks.
func (f *Fake) Seed(item map[string]types.AttributeValue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[itemKey(item)] = copyItem(item)
}

// Item returns the stored item for pk/sk, or nil.
func (f *Fake) Item(pk, sk string) map[string]types.AttributeValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[pk+"\x00"+sk]
	if !ok {
		return nil
	}
	return copyItem(item)
}

// Len returns the number of stored items.
func (f *Fake) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

func (f *Fake) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

// GetItem implements db.API.
func (f *Fake) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, err
	}

	item, ok := f.items[itemKey(params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

// PutItem implements db.API.
func (f *Fake) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, err
	}

	key := itemKey(params.Item)
	existing, exists := f.items[key]
	if params.ConditionExpression != nil {
		if !evalCondition(*params.ConditionExpression, existing, exists, params.ExpressionAttributeValues) {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}
	f.items[key] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

// TransactWriteItems implements db.API. All conditions are evaluated
// against the current state; if any fails, nothing is applied and the
// per-item cancellation reasons are reported.
func (f *Fake) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, err
	}

	reasons := make([]types.CancellationReason, len(params.TransactItems))
	failed := false
	for i, item := range params.TransactItems {
		reasons[i] = types.CancellationReason{Code: aws.String("None")}
		var condition *string
		var values map[string]types.AttributeValue
		var key string
		switch {
		case item.Put != nil:
			condition = item.Put.ConditionExpression
			values = item.Put.ExpressionAttributeValues
			key = itemKey(item.Put.Item)
		case item.Update != nil:
			condition = item.Update.ConditionExpression
			values = item.Update.ExpressionAttributeValues
			key = itemKey(item.Update.Key)
		default:
			return nil, fmt.Errorf("dbtest: unsupported transact item %d", i)
		}
		existing, exists := f.items[key]
		if condition != nil && !evalCondition(*condition, existing, exists, values) {
			reasons[i] = types.CancellationReason{
				Code:    aws.String(conditionalCheckFailed),
				Message: aws.String("The conditional request failed"),
			}
			failed = true
		}
	}

	if failed {
		return nil, &types.TransactionCanceledException{
			Message:             aws.String("Transaction cancelled, please refer cancellation reasons for specific reasons"),
			CancellationReasons: reasons,
		}
	}

	for _, item := range params.TransactItems {
		switch {
		case item.Put != nil:
			f.items[itemKey(item.Put.Item)] = copyItem(item.Put.Item)
		case item.Update != nil:
			key := itemKey(item.Update.Key)
			existing, exists := f.items[key]
			if !exists {
				existing = copyItem(item.Update.Key)
			}
			updated, err := applyUpdate(existing, *item.Update.UpdateExpression, item.Update.ExpressionAttributeValues)
			if err != nil {
				return nil, err
			}
			f.items[key] = updated
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

// Scan implements db.API with support for simple equality filters.
func (f *Fake) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, err
	}

	var out []map[string]types.AttributeValue
	for _, item := range f.items {
		if params.FilterExpression != nil {
			if !evalCondition(*params.FilterExpression, item, true, params.ExpressionAttributeValues) {
				continue
			}
		}
		out = append(out, copyItem(item))
	}
	return &dynamodb.ScanOutput{Items: out, Count: int32(len(out))}, nil
}

func itemKey(item map[string]types.AttributeValue) string {
	return stringAttr(item, "pk") + "\x00" + stringAttr(item, "sk")
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if s, ok := item[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

// evalCondition evaluates a conjunction of attribute_exists /
// attribute_not_exists / "name <op> :value" terms against one item.
func evalCondition(expr string, item map[string]types.AttributeValue, exists bool, values map[string]types.AttributeValue) bool {
	for _, term := range strings.Split(expr, " AND ") {
		term = strings.TrimSpace(term)
		switch {
		case strings.HasPrefix(term, "attribute_not_exists("):
			if exists {
				return false
			}
		case strings.HasPrefix(term, "attribute_exists("):
			if !exists {
				return false
			}
		default:
			parts := strings.Fields(term)
			if len(parts) != 3 {
				return false
			}
			if !exists {
				return false
			}
			attr, ok := item[parts[0]]
			if !ok {
				return false
			}
			want, ok := values[parts[2]]
			if !ok {
				return false
			}
			if !compare(attr, want, parts[1]) {
				return false
			}
		}
	}
	return true
}

func compare(attr, want types.AttributeValue, op string) bool {
	switch a := attr.(type) {
	case *types.AttributeValueMemberS:
		w, ok := want.(*types.AttributeValueMemberS)
		if !ok {
			return false
		}
		switch op {
		case "=":
			return a.Value == w.Value
		case ">=":
			return a.Value >= w.Value
		}
	case *types.AttributeValueMemberN:
		w, ok := want.(*types.AttributeValueMemberN)
		if !ok {
			return false
		}
		av, err1 := strconv.ParseFloat(a.Value, 64)
		wv, err2 := strconv.ParseFloat(w.Value, 64)
		if err1 != nil || err2 != nil {
			return false
		}
		switch op {
		case "=":
			return av == wv
		case ">=":
			return av >= wv
		}
	}
	return false
}

// applyUpdate interprets the SET / ADD update expressions the service
// issues and returns the updated item.
func applyUpdate(item map[string]types.AttributeValue, expr string, values map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	out := copyItem(item)
	for keyword, body := range splitSections(expr) {
		switch keyword {
		case "SET":
			for _, assignment := range splitTopLevel(body) {
				name, valueExpr, ok := strings.Cut(assignment, "=")
				if !ok {
					return nil, fmt.Errorf("dbtest: malformed SET assignment %q", assignment)
				}
				value, err := evalValue(strings.TrimSpace(valueExpr), out, values)
				if err != nil {
					return nil, err
				}
				out[strings.TrimSpace(name)] = value
			}
		case "ADD":
			for _, action := range splitTopLevel(body) {
				parts := strings.Fields(action)
				if len(parts) != 2 {
					return nil, fmt.Errorf("dbtest: malformed ADD action %q", action)
				}
				delta, err := numberValue(values[parts[1]])
				if err != nil {
					return nil, err
				}
				current := 0.0
				if existing, ok := out[parts[0]]; ok {
					current, err = numberValue(existing)
					if err != nil {
						return nil, err
					}
				}
				out[parts[0]] = &types.AttributeValueMemberN{Value: formatNumber(current + delta)}
			}
		default:
			return nil, fmt.Errorf("dbtest: unsupported update clause %q", keyword)
		}
	}
	return out, nil
}

// evalValue resolves a SET value expression: a placeholder, arithmetic on
// an attribute, or if_not_exists.
func evalValue(expr string, item map[string]types.AttributeValue, values map[string]types.AttributeValue) (types.AttributeValue, error) {
	if strings.HasPrefix(expr, ":") {
		v, ok := values[expr]
		if !ok {
			return nil, fmt.Errorf("dbtest: missing expression value %s", expr)
		}
		return v, nil
	}
	if strings.HasPrefix(expr, "if_not_exists(") && strings.HasSuffix(expr, ")") {
		inner := strings.TrimSuffix(strings.TrimPrefix(expr, "if_not_exists("), ")")
		name, fallback, ok := strings.Cut(inner, ",")
		if !ok {
			return nil, fmt.Errorf("dbtest: malformed if_not_exists %q", expr)
		}
		if existing, present := item[strings.TrimSpace(name)]; present {
			return existing, nil
		}
		return evalValue(strings.TrimSpace(fallback), item, values)
	}
	if parts := strings.Fields(expr); len(parts) == 3 {
		current, err := numberValue(item[parts[0]])
		if err != nil {
			return nil, err
		}
		operand, err := numberValue(values[parts[2]])
		if err != nil {
			return nil, err
		}
		switch parts[1] {
		case "+":
			return &types.AttributeValueMemberN{Value: formatNumber(current + operand)}, nil
		case "-":
			return &types.AttributeValueMemberN{Value: formatNumber(current - operand)}, nil
		}
	}
	return nil, fmt.Errorf("dbtest: unsupported value expression %q", expr)
}

// splitSections separates an update expression into its SET / ADD bodies.
func splitSections(expr string) map[string]string {
	sections := make(map[string]string)
	current := ""
	for _, token := range strings.Fields(expr) {
		if token == "SET" || token == "ADD" {
			current = token
			continue
		}
		if current != "" {
			if sections[current] != "" {
				sections[current] += " "
			}
			sections[current] += token
		}
	}
	return sections
}

// splitTopLevel splits on commas outside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

func numberValue(av types.AttributeValue) (float64, error) {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("dbtest: expected number attribute, got %T", av)
	}
	return strconv.ParseFloat(n.Value, 64)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
