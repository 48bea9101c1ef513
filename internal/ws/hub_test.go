package ws

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go-jewelry-store/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.messages...)
}

func TestOrderCreatedReachesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	conn := &fakeConn{}
	hub.Register <- conn

	order := &model.Order{
		OrderCode:    "ORD007",
		CustomerName: "Asha Rao",
		TotalAmount:  decimal.NewFromInt(250),
		Status:       model.StatusPaymentPending,
		Items:        []model.OrderItem{{Quantity: 1}},
	}
	require.NoError(t, NewOrderNotifier(hub).OrderCreated(ctx, order))

	require.Eventually(t, func() bool { return len(conn.received()) == 1 }, time.Second, 10*time.Millisecond)

	var event Event
	require.NoError(t, json.Unmarshal(conn.received()[0], &event))
	assert.Equal(t, "order_created", event.Action)
	assert.Equal(t, "ORD007", event.Order.OrderCode)
	assert.Equal(t, 1, event.Order.ItemCount)
	assert.Contains(t, event.Message, "250.00")

	cancel()
	require.Eventually(t, func() bool {
		conn.mu.Lock()
		defer conn.mu.Unlock()
		return conn.closed
	}, time.Second, 10*time.Millisecond)
}

func TestPublishAfterStopDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	hub.Publish([]byte("late"))
	assert.Equal(t, 0, hub.ClientCount())
}
