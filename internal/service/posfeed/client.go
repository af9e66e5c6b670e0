package posfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"RetailMind/internal/domain/models"
	drepo "RetailMind/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a SalesStream backed by the store's point-of-sale
// WebSocket gateway.
type Client struct {
	apiKey         string
	websocketURL   string
	products       []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a POS-gateway SalesStream.
func New(apiKey, websocketURL string, products []string, reconnectDelay, pingInterval time.Duration) drepo.SalesStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		products:       products,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("posfeed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("posfeed: connected")
	return nil
}

// Subscribe subscribes to configured product streams.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("posfeed not connected")
	}
	for _, p := range c.products {
		msg := map[string]string{"type": "subscribe", "product": p}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", p, err)
		}
		log.Printf("posfeed: subscribed %s", p)
	}
	return nil
}

type posScan struct {
	P  string  `json:"product"`
	Q  float64 `json:"qty"`
	Pr float64 `json:"price"`
	T  int64   `json:"t"` // ms
}

type posMessage struct {
	Type string    `json:"type"`
	Data []posScan `json:"data"`
}

// Read streams SaleEvents and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.SaleEvent, <-chan error) {
	events := make(chan *models.SaleEvent, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(events)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("posfeed conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("posfeed read: %w", err)
					return
				}
				var m posMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-scan frames
					continue
				}
				if m.Type != "scan" {
					continue
				}
				for _, d := range m.Data {
					ev := &models.SaleEvent{
						ProductID: d.P,
						Timestamp: d.T / 1000,
						Quantity:  d.Q,
						UnitPrice: d.Pr,
					}
					select {
					case events <- ev:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return events, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close terminates the connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// IsConnected reports connection status.
func (c *Client) IsConnected() bool { return c.connected }
