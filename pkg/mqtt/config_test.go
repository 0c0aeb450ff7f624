package mqtt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientAppliesDefaults(t *testing.T) {
	cfg := &ClientConfig{BrokerURL: "tcp://localhost:1883", ClientID: "assistoff"}

	c, err := NewClient(cfg)
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, uint16(60), cfg.KeepAlive)
}

func TestNewClientRejectsInvalidConfig(t *testing.T) {
	_, err := NewClient(nil)
	assert.Error(t, err)

	_, err = NewClient(&ClientConfig{ClientID: "assistoff"})
	assert.Error(t, err)

	_, err = NewClient(&ClientConfig{BrokerURL: "tcp://localhost:1883"})
	assert.Error(t, err)
}

func TestPublishBeforeStart(t *testing.T) {
	c, err := NewClient(&ClientConfig{BrokerURL: "tcp://localhost:1883", ClientID: "assistoff"})
	require.NoError(t, err)

	err = c.Publish(t.Context(), "assistoff/v1/status/x", 0, false, []byte("{}"))
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.ErrorIs(t, c.AwaitConnection(t.Context()), ErrNotStarted)
}
