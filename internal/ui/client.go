package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"SchoolCMS/internal/notification"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 * 1024
)

// Handler receives the operator's commands for one console. Every call runs
// on its own goroutine.
type Handler interface {
	Handle(ctx context.Context, msgType string, payload json.RawMessage)
	Close()
}

// OpenFunc builds the handler of a freshly connected console.
type OpenFunc func(c *Client, r *http.Request) (Handler, error)

// Client is one connected browser page. It is the Shell, the Confirmer and
// the toast Renderer of that page's console.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	log     *zap.Logger
	handler Handler

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	actions map[Region]map[string]func(context.Context)
	pending map[string]chan bool

	closeOnce sync.Once
}

// ServeWs upgrades the request and runs the console until the page goes away.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, open OpenFunc) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     hub.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		log:     hub.log.With(zap.String("remote", r.RemoteAddr)),
		ctx:     ctx,
		cancel:  cancel,
		actions: make(map[Region]map[string]func(context.Context)),
		pending: make(map[string]chan bool),
	}

	go client.writePump()

	handler, err := open(client, r)
	if err != nil {
		client.log.Error("console not opened", zap.Error(err))
		client.close()
		return
	}
	client.handler = handler

	if !hub.add(client) {
		client.close()
		return
	}
	go client.readPump()
}

// Context is cancelled when the page disconnects.
func (c *Client) Context() context.Context {
	return c.ctx
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		// writePump sends the close frame and closes the connection.
		c.cancel()
		if c.handler != nil {
			c.handler.Close()
		}
	})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("read failed", zap.Error(err))
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Warn("bad message", zap.Error(err))
			continue
		}

		switch msg.Type {
		case ConfirmReplyType:
			c.resolveConfirm(msg.Payload)
		case ActionType:
			go c.runAction(msg.Payload)
		default:
			go c.handler.Handle(c.ctx, msg.Type, msg.Payload)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Warn("write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// emit queues a message for the page. Messages to a closed page are dropped.
func (c *Client) emit(msgType string, payload any) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			c.log.Error("marshal payload", zap.String("type", msgType), zap.Error(err))
			return
		}
		raw = b
	}
	frame, err := json.Marshal(WSMessage{Type: msgType, Payload: raw})
	if err != nil {
		c.log.Error("marshal message", zap.String("type", msgType), zap.Error(err))
		return
	}

	select {
	case c.send <- frame:
	case <-c.ctx.Done():
	}
}

func (c *Client) ShowDashboard(email string) {
	c.emit(ShowDashboardType, map[string]string{"email": email})
}

func (c *Client) ShowLogin() {
	c.clearActions()
	c.emit(ShowLoginType, nil)
}

func (c *Client) SetLoginError(message string) {
	c.emit(LoginErrorType, map[string]string{"message": message})
}

func (c *Client) RenderLoading(region Region) {
	c.bindActions(region, nil)
	c.emit(ListLoadingType, RegionPayload{Region: region})
}

// RenderItems replaces the region. Actions bound to the previous render of
// the region stop working.
func (c *Client) RenderItems(region Region, items []Item) {
	wire := make([]WireItem, 0, len(items))
	bound := make(map[string]func(context.Context), len(items))
	for _, it := range items {
		w := WireItem{Item: it}
		if it.OnDelete != nil {
			w.DeleteAction = uuid.NewString()
			bound[w.DeleteAction] = it.OnDelete
		}
		wire = append(wire, w)
	}
	c.bindActions(region, bound)
	c.emit(ListItemsType, RegionPayload{Region: region, Items: wire})
}

func (c *Client) RenderEmpty(region Region, message string) {
	c.bindActions(region, nil)
	c.emit(ListEmptyType, RegionPayload{Region: region, Message: message})
}

func (c *Client) RenderError(region Region, message string) {
	c.bindActions(region, nil)
	c.emit(ListErrorType, RegionPayload{Region: region, Message: message})
}

func (c *Client) ResetForm(form Form) {
	c.emit(FormResetType, FormPayload{Form: form})
}

func (c *Client) FillForm(form Form, values map[string]string) {
	c.emit(FormFillType, FormPayload{Form: form, Values: values})
}

func (c *Client) SetSessionToken(token string) {
	c.emit(SessionTokenType, map[string]string{"token": token})
}

func (c *Client) ShowToast(t notification.Toast) {
	c.emit(ToastType, t)
}

func (c *Client) FadeToast(id string) {
	c.emit(ToastFadeType, map[string]string{"id": id})
}

func (c *Client) RemoveToast(id string) {
	c.emit(ToastRemoveType, map[string]string{"id": id})
}

// Confirm asks the page and waits for the answer. No answer within the
// hub's confirm timeout, a cancelled ctx or a disconnect all count as "no".
func (c *Client) Confirm(ctx context.Context, prompt string) bool {
	id := uuid.NewString()
	reply := make(chan bool, 1)

	c.mu.Lock()
	c.pending[id] = reply
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	c.emit(ConfirmType, ConfirmPayload{ID: id, Prompt: prompt})

	timer := time.NewTimer(c.hub.confirmTimeout)
	defer timer.Stop()

	select {
	case ok := <-reply:
		return ok
	case <-timer.C:
		c.log.Info("confirm timed out", zap.String("prompt", prompt))
		return false
	case <-ctx.Done():
		return false
	case <-c.ctx.Done():
		return false
	}
}

func (c *Client) resolveConfirm(payload json.RawMessage) {
	var p ConfirmReplyPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.log.Warn("bad confirm reply", zap.Error(err))
		return
	}

	c.mu.Lock()
	reply, ok := c.pending[p.ID]
	c.mu.Unlock()
	if !ok {
		return
	}
	select {
	case reply <- p.Confirmed:
	default:
	}
}

func (c *Client) bindActions(region Region, bound map[string]func(context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(bound) == 0 {
		delete(c.actions, region)
		return
	}
	c.actions[region] = bound
}

func (c *Client) clearActions() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.actions)
}

func (c *Client) runAction(payload json.RawMessage) {
	var p ActionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.log.Warn("bad action", zap.Error(err))
		return
	}

	var fn func(context.Context)
	c.mu.Lock()
	for _, bound := range c.actions {
		if f, ok := bound[p.ActionID]; ok {
			fn = f
			break
		}
	}
	c.mu.Unlock()

	if fn == nil {
		c.log.Info("stale action", zap.String("action", p.ActionID))
		return
	}
	fn(c.ctx)
}
