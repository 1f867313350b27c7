// Package stream implements the Solana WebSocket log stream client: one
// logsSubscribe per monitored program, notifications converted to log-only
// transaction snapshots and handed synchronously to the decode pipeline.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/websocket"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"sol-dex-stream/internal/observability"
	"sol-dex-stream/internal/pipeline"
)

// Config configures stream client behavior.
type Config struct {
	// Endpoint is the WebSocket RPC endpoint.
	Endpoint string
	// Commitment is the confirmation level for logsSubscribe.
	Commitment string
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultConfig returns default stream configuration for an endpoint.
func DefaultConfig(endpoint string) Config {
	return Config{
		Endpoint:          endpoint,
		Commitment:        "confirmed",
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// Handler receives one log-only transaction snapshot per notification.
// It runs on the read loop goroutine and must not block.
type Handler func(*pipeline.Transaction)

// Client maintains the WebSocket session, resubscribing after reconnects.
type Client struct {
	cfg      Config
	programs []string
	handler  Handler
	log      *zap.Logger

	conn      *websocket.Conn
	connMu    sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64

	// pendingSubs maps request ID to channel waiting for subscription ID
	pendingSubs   map[uint64]chan int64
	pendingSubsMu sync.Mutex

	// subs maps live subscription ID to the program it mentions, kept for
	// resubscription after reconnect
	subs   map[int64]string
	subsMu sync.Mutex

	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool
}

// NewClient creates a stream client over the given programs. Connection
// happens in Run.
func NewClient(cfg Config, programs []solana.PublicKey, handler Handler, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	mentions := make([]string, len(programs))
	for i, p := range programs {
		mentions[i] = p.String()
	}
	return &Client{
		cfg:         cfg,
		programs:    mentions,
		handler:     handler,
		log:         log,
		pendingSubs: make(map[uint64]chan int64),
		subs:        make(map[int64]string),
		done:        make(chan struct{}),
	}
}

// Run connects, subscribes to every program and blocks until the context
// is canceled or Close is called.
func (c *Client) Run(ctx context.Context) error {
	if err := c.connect(ctx); err != nil {
		return err
	}

	c.wg.Add(1)
	go c.readLoop()
	c.wg.Add(1)
	go c.pingLoop()

	for _, program := range c.programs {
		subID, err := c.subscribeLogs(ctx, program)
		if err != nil {
			c.Close()
			return fmt.Errorf("subscribe %s: %w", program, err)
		}
		c.subsMu.Lock()
		c.subs[subID] = program
		c.subsMu.Unlock()
		c.log.Info("subscribed to program logs",
			zap.String("program", program),
			zap.Int64("subscription", subID))
	}

	select {
	case <-ctx.Done():
		c.Close()
		return ctx.Err()
	case <-c.done:
		return nil
	}
}

// connect establishes the WebSocket connection.
func (c *Client) connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, c.cfg.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.conn = conn
	return nil
}

// subscribeLogs issues one logsSubscribe mentioning the program and waits
// for the subscription ID.
func (c *Client) subscribeLogs(ctx context.Context, program string) (int64, error) {
	if c.closed.Load() {
		return 0, fmt.Errorf("client closed")
	}

	reqID := c.requestID.Add(1)
	req := wsRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  "logsSubscribe",
		Params: []interface{}{
			map[string]interface{}{"mentions": []string{program}},
			map[string]string{"commitment": c.cfg.Commitment},
		},
	}

	confirmCh := make(chan int64, 1)
	c.pendingSubsMu.Lock()
	c.pendingSubs[reqID] = confirmCh
	c.pendingSubsMu.Unlock()

	dropPending := func() {
		c.pendingSubsMu.Lock()
		delete(c.pendingSubs, reqID)
		c.pendingSubsMu.Unlock()
	}

	c.connMu.Lock()
	if c.conn == nil {
		c.connMu.Unlock()
		dropPending()
		return 0, fmt.Errorf("not connected")
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	err := c.conn.WriteJSON(req)
	c.connMu.Unlock()

	if err != nil {
		dropPending()
		return 0, fmt.Errorf("write subscribe: %w", err)
	}

	select {
	case subID := <-confirmCh:
		return subID, nil
	case <-time.After(30 * time.Second):
		dropPending()
		return 0, fmt.Errorf("subscription timeout after 30s")
	case <-c.done:
		return 0, fmt.Errorf("client closed")
	case <-ctx.Done():
		dropPending()
		return 0, ctx.Err()
	}
}

// Close terminates the session and stops the background goroutines.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.pendingSubsMu.Lock()
	for id, ch := range c.pendingSubs {
		close(ch)
		delete(c.pendingSubs, id)
	}
	c.pendingSubsMu.Unlock()

	c.wg.Wait()
	return nil
}

// readLoop reads messages and dispatches them until the client closes,
// reconnecting with exponential backoff on connection errors.
func (c *Client) readLoop() {
	defer c.wg.Done()

	reconnectDelay := c.cfg.ReconnectDelay

	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}

			if !c.reconnecting.Swap(true) {
				go c.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > c.cfg.MaxReconnectDelay {
				reconnectDelay = c.cfg.MaxReconnectDelay
			}

			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		reconnectDelay = c.cfg.ReconnectDelay
		c.handleMessage(message)
	}
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (c *Client) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
				if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Read loop notices the dead connection and reconnects.
					c.log.Debug("ping write failed", zap.Error(err))
				}
			}
			c.connMu.Unlock()
		}
	}
}

// reconnect re-establishes the connection and resubscribes every program.
func (c *Client) reconnect(delay time.Duration) {
	defer c.reconnecting.Store(false)

	if c.closed.Load() {
		return
	}

	select {
	case <-c.done:
		return
	case <-time.After(delay):
	}

	observability.RecordWSReconnect()
	c.log.Warn("websocket connection lost, reconnecting",
		zap.Duration("delay", delay))

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.connect(ctx); err != nil {
		// Retry happens on the next read error.
		c.log.Error("reconnect failed", zap.Error(err))
		return
	}

	c.resubscribeAll(ctx)
}

func (c *Client) resubscribeAll(ctx context.Context) {
	c.subsMu.Lock()
	old := c.subs
	c.subs = make(map[int64]string, len(old))
	c.subsMu.Unlock()

	for _, program := range old {
		subID, err := c.subscribeLogs(ctx, program)
		if err != nil {
			c.log.Error("resubscribe failed",
				zap.String("program", program), zap.Error(err))
			continue
		}
		c.subsMu.Lock()
		c.subs[subID] = program
		c.subsMu.Unlock()
	}
}

// handleMessage routes one raw WebSocket message.
func (c *Client) handleMessage(message []byte) {
	var resp wsSubscribeResponse
	if err := json.Unmarshal(message, &resp); err == nil && resp.Result > 0 {
		c.handleSubscribeResponse(&resp)
		return
	}

	var notif wsNotification
	if err := json.Unmarshal(message, &notif); err == nil && notif.Method == "logsNotification" {
		c.handleLogsNotification(&notif)
		return
	}

	var errResp struct {
		JSONRPC string `json:"jsonrpc"`
		ID      uint64 `json:"id"`
		Error   *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(message, &errResp); err == nil && errResp.Error != nil {
		// The pending subscription will time out on its own.
		c.log.Error("rpc error response",
			zap.Int("code", errResp.Error.Code),
			zap.String("message", errResp.Error.Message))
	}
}

func (c *Client) handleSubscribeResponse(resp *wsSubscribeResponse) {
	c.pendingSubsMu.Lock()
	ch, ok := c.pendingSubs[resp.ID]
	if ok {
		delete(c.pendingSubs, resp.ID)
	}
	c.pendingSubsMu.Unlock()

	if ok {
		select {
		case ch <- resp.Result:
		default:
		}
	}
}

// handleLogsNotification converts one notification into a log-only
// transaction snapshot. Failed transactions are skipped: their logs
// describe state that never settled.
func (c *Client) handleLogsNotification(notif *wsNotification) {
	if notif.Params == nil || c.handler == nil {
		return
	}
	observability.RecordWSMessage()

	value := notif.Params.Result.Value
	if value.Err != nil {
		return
	}

	tx, err := notificationTransaction(&notif.Params.Result)
	if err != nil {
		c.log.Debug("discarding malformed notification", zap.Error(err))
		return
	}
	c.handler(tx)
}

// notificationTransaction builds the pipeline snapshot from a parsed
// logsNotification result.
func notificationTransaction(result *wsNotificationResult) (*pipeline.Transaction, error) {
	raw, err := base58.Decode(result.Value.Signature)
	if err != nil {
		return nil, fmt.Errorf("decode signature: %w", err)
	}
	if len(raw) != 64 {
		return nil, fmt.Errorf("signature length %d", len(raw))
	}

	tx := &pipeline.Transaction{
		Signature:  solana.SignatureFromBytes(raw),
		Logs:       result.Value.Logs,
		ReceivedUS: time.Now().UnixMicro(),
	}
	if result.Context != nil && result.Context.Slot > 0 {
		tx.Slot = uint64(result.Context.Slot)
	}
	return tx, nil
}

// WebSocket message types

type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type wsSubscribeResponse struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Result  int64  `json:"result"` // subscription ID
}

type wsNotification struct {
	JSONRPC string                `json:"jsonrpc"`
	Method  string                `json:"method"`
	Params  *wsNotificationParams `json:"params"`
}

type wsNotificationParams struct {
	Subscription int64                `json:"subscription"`
	Result       wsNotificationResult `json:"result"`
}

type wsNotificationResult struct {
	Context *wsContext  `json:"context"`
	Value   wsLogsValue `json:"value"`
}

type wsContext struct {
	Slot int64 `json:"slot"`
}

type wsLogsValue struct {
	Signature string      `json:"signature"`
	Logs      []string    `json:"logs"`
	Err       interface{} `json:"err"`
}
