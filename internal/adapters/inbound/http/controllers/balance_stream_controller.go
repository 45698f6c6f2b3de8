package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"blaze/internal/application/dto"

	"github.com/gorilla/websocket"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
	streamBuffer     = 64
)

type BalanceEventSubscriber interface {
	Subscribe(buffer int) (<-chan dto.BalanceEvent, func())
}

// BalanceStreamController pushes balance events to websocket clients, optionally
// filtered by ?address= and ?contract=.
type BalanceStreamController struct {
	subscriber BalanceEventSubscriber
	upgrader   websocket.Upgrader
	logger     *log.Logger
}

func NewBalanceStreamController(subscriber BalanceEventSubscriber, allowedOrigins []string, logger *log.Logger) *BalanceStreamController {
	origins := map[string]struct{}{}
	for _, origin := range allowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins[trimmed] = struct{}{}
		}
	}

	return &BalanceStreamController{
		subscriber: subscriber,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(origins) == 0 {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
		logger: logger,
	}
}

type streamFilter struct {
	address  string
	contract string
}

func (f streamFilter) matches(event dto.BalanceEvent) bool {
	if f.contract != "" && event.Contract != f.contract {
		return false
	}
	if f.address == "" {
		return true
	}
	return event.Address == f.address || event.From == f.address || event.To == f.address
}

func (c *BalanceStreamController) Stream(w http.ResponseWriter, r *http.Request) {
	filter := streamFilter{
		address:  strings.TrimSpace(r.URL.Query().Get("address")),
		contract: strings.TrimSpace(r.URL.Query().Get("contract")),
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logf("balance stream upgrade failed remote=%s error=%v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()

	events, unsubscribe := c.subscriber.Subscribe(streamBuffer)
	defer unsubscribe()

	c.logf("balance stream opened remote=%s address=%s contract=%s", r.RemoteAddr, filter.address, filter.contract)

	closed := make(chan struct{})
	go c.readPump(conn, closed)

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			c.logf("balance stream closed remote=%s", r.RemoteAddr)
			return
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if !filter.matches(event) {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				c.logf("balance stream write failed remote=%s error=%v", r.RemoteAddr, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs and close frames are processed.
func (c *BalanceStreamController) readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logf("balance stream read failed error=%v", err)
			}
			return
		}
	}
}

func (c *BalanceStreamController) logf(format string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Printf(format, args...)
}
