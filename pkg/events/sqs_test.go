package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	sent []*sqs.SendMessageInput
	err  error
}

func (f *fakeSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &sqs.SendMessageOutput{}, nil
}

func TestSQSPublisher(t *testing.T) {
	msg := Message{
		Type:         SettlementCompleted,
		SettlementID: "stl-1",
		PayeeID:      "payee-1",
		Amount:       100_000,
		Currency:     "BDT",
		Status:       "COMPLETED",
		OccurredAt:   time.Now(),
	}

	t.Run("Sends JSON Body To Queue", func(t *testing.T) {
		client := &fakeSQS{}
		p := NewSQSPublisher(client, "https://sqs.test/queue")

		require.NoError(t, p.Publish(context.Background(), msg))
		require.Len(t, client.sent, 1)
		assert.Equal(t, "https://sqs.test/queue", *client.sent[0].QueueUrl)

		var decoded Message
		require.NoError(t, json.Unmarshal([]byte(*client.sent[0].MessageBody), &decoded))
		assert.Equal(t, SettlementCompleted, decoded.Type)
		assert.Equal(t, "stl-1", decoded.SettlementID)
	})

	t.Run("Wraps Send Errors", func(t *testing.T) {
		p := NewSQSPublisher(&fakeSQS{err: errors.New("queue gone")}, "https://sqs.test/queue")
		err := p.Publish(context.Background(), msg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send event to SQS")
	})
}
