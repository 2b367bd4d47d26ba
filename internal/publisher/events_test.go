package publisher

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage_KeyedBySession(t *testing.T) {
	msg, err := newMessage(EventOrderSubmitted, "cs_test_123", map[string]int64{"order_id": 42})

	require.NoError(t, err)
	assert.Equal(t, []byte("cs_test_123"), msg.Key)

	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte(EventOrderSubmitted), msg.Headers[0].Value)

	var body struct {
		SessionID  string         `json:"session_id"`
		Payload    map[string]any `json:"payload"`
		OccurredAt string         `json:"occurred_at"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "cs_test_123", body.SessionID)
	assert.Equal(t, float64(42), body.Payload["order_id"])
	assert.NotEmpty(t, body.OccurredAt)
}
