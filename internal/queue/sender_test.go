package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warehouse/inventory/internal/apperr"
	"github.com/warehouse/inventory/internal/domain"
)

type captureSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (c *captureSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.inputs = append(c.inputs, params)
	return &sqs.SendMessageOutput{}, nil
}

func TestSendRestock(t *testing.T) {
	client := &captureSQS{}
	sender := NewRestockSender(client, "https://sqs/queue/restock", zap.NewNop())

	fact, err := domain.NewSkuRestock("SKU-1", "lot-3", 15)
	require.NoError(t, err)
	require.NoError(t, sender.SendRestock(context.Background(), fact))

	require.Len(t, client.inputs, 1)
	assert.Equal(t, "https://sqs/queue/restock", *client.inputs[0].QueueUrl)

	var message Message
	require.NoError(t, json.Unmarshal([]byte(*client.inputs[0].MessageBody), &message))
	assert.Equal(t, MessageSkuRestockRequested, message.EventName)

	var data RestockData
	require.NoError(t, json.Unmarshal(message.EventData, &data))
	assert.Equal(t, RestockData{SKU: "SKU-1", Units: 15, LotID: "lot-3"}, data)
}

func TestSendRestockTransportError(t *testing.T) {
	client := &captureSQS{err: errors.New("connection reset")}
	sender := NewRestockSender(client, "https://sqs/queue/restock", zap.NewNop())

	fact, err := domain.NewSkuRestock("SKU-1", "lot-3", 15)
	require.NoError(t, err)

	err = sender.SendRestock(context.Background(), fact)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInfrastructure, apperr.KindOf(err))
	assert.True(t, apperr.IsTransient(err))
}
