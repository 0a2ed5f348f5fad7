package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ErrClosed is returned by Call once the connection is gone.
var ErrClosed = errors.New("backend connection closed")

// CommandError is a failure reported by the backend for a specific command.
type CommandError struct {
	Method  string
	Message string
	Code    int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Method, e.Message)
}

// Client is a persistent connection to the backend service. It is dialed
// once at startup and closed at exit. Calls may be issued from any
// goroutine; each one suspends only its caller. Responses are correlated by
// request ID, so unrelated calls can complete in any order. Unsolicited
// notifications come out of Events in the order the backend emitted them.
type Client struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[uuid.UUID]chan responseObject

	events chan Event
	closed chan struct{}
}

// Connect dials the backend websocket and starts the read loop.
func Connect(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial backend %s: %w", url, err)
	}

	c := &Client{
		conn:    conn,
		pending: make(map[uuid.UUID]chan responseObject),
		events:  make(chan Event, 512),
		closed:  make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Events returns the channel of unsolicited backend notifications. It is
// closed when the connection goes away.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Close tears down the connection. Outstanding calls fail with ErrClosed.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Call issues one command and suspends until its response arrives. There is
// no client-side timeout: commands like finish_microsoft_login legitimately
// take as long as the user does. Cancellation is only ever via ctx.
// A non-nil result is unmarshaled from the response payload.
func (c *Client) Call(ctx context.Context, method string, params, result any) error {
	id := uuid.New()

	req := requestObject{JSONRPC: jsonRPCVersion, ID: &id, Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("marshal %s params: %w", method, err)
		}
		req.Params = raw
	}

	ch := make(chan responseObject, 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}()

	c.writeMu.Lock()
	err := c.conn.WriteJSON(req)
	c.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return &CommandError{Method: method, Message: resp.Error.Message, Code: resp.Error.Code}
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("decode %s result: %w", method, err)
			}
		}
		return nil
	case <-c.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) readLoop() {
	defer func() {
		close(c.closed)
		close(c.events)
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("backend read loop stopped")
			return
		}

		var msg wireMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Msg("dropping undecodable backend message")
			continue
		}
		if msg.JSONRPC != jsonRPCVersion {
			log.Warn().Str("version", msg.JSONRPC).Msg("dropping message with bad jsonrpc version")
			continue
		}

		if msg.ID != nil {
			c.dispatchResponse(msg)
			continue
		}
		if msg.Method != "" {
			c.dispatchEvent(msg)
		}
	}
}

func (c *Client) dispatchResponse(msg wireMessage) {
	c.pendingMu.Lock()
	ch, ok := c.pending[*msg.ID]
	c.pendingMu.Unlock()
	if !ok {
		log.Warn().Stringer("id", msg.ID).Msg("response for unknown request")
		return
	}
	ch <- responseObject{JSONRPC: msg.JSONRPC, ID: *msg.ID, Result: msg.Result, Error: msg.Error}
}

func (c *Client) dispatchEvent(msg wireMessage) {
	var payload string
	if err := json.Unmarshal(msg.Params, &payload); err != nil {
		// Not a plain string; pass the raw JSON through.
		payload = string(msg.Params)
	}

	// Blocking send keeps the stream ordered; the buffer absorbs bursts so
	// this only stalls when the consumer is truly wedged.
	c.events <- Event{Method: msg.Method, Payload: payload}
}
