package datagen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamEmitsForAllProducts(t *testing.T) {
	s := New([]string{"milk", "bread"}, 10*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, s.Connect(ctx))
	require.NoError(t, s.Subscribe(ctx))
	assert.True(t, s.IsConnected())

	events, _ := s.Read(ctx)
	seen := map[string]bool{}
	for ev := range events {
		assert.GreaterOrEqual(t, ev.Quantity, 1.0)
		assert.Greater(t, ev.UnitPrice, 0.0)
		assert.NotZero(t, ev.Timestamp)
		seen[ev.ProductID] = true
		if len(seen) == 2 {
			break
		}
	}
	assert.True(t, seen["milk"])
	assert.True(t, seen["bread"])

	require.NoError(t, s.Close())
	assert.False(t, s.IsConnected())
}

func TestStreamRequiresProducts(t *testing.T) {
	s := New(nil, time.Second)
	err := s.Connect(context.Background())
	require.Error(t, err)
}

func TestStreamUnknownProductGetsGenericProfile(t *testing.T) {
	s := New([]string{"sku-unknown"}, 10*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, s.Connect(ctx))
	events, _ := s.Read(ctx)
	ev := <-events
	require.NotNil(t, ev)
	assert.Equal(t, "sku-unknown", ev.ProductID)
	assert.GreaterOrEqual(t, ev.Quantity, 1.0)
}
