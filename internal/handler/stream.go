package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/AlexZinkM/restaking-dashboard/internal/aggregator"
	"github.com/AlexZinkM/restaking-dashboard/internal/logger"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
	"github.com/AlexZinkM/restaking-dashboard/internal/wallet"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	maxMessageSize = 512
)

// SessionWatcher is a session whose changes can be awaited
type SessionWatcher interface {
	State() wallet.State
	Changed() <-chan struct{}
}

// DashboardSource builds the dashboard view for one wallet state
type DashboardSource interface {
	Dashboard(ctx context.Context, session wallet.State) aggregator.Result[model.DashboardViewModel]
}

// StreamHandler pushes the dashboard over a websocket on every refresh tick and wallet change
type StreamHandler struct {
	pages    DashboardSource
	session  SessionWatcher
	board    *aggregator.Board[model.DashboardViewModel]
	interval time.Duration
	upgrader websocket.Upgrader
}

// NewStreamHandler creates a StreamHandler. checkOrigin may be nil to allow same-origin requests only.
func NewStreamHandler(pages DashboardSource, session SessionWatcher, board *aggregator.Board[model.DashboardViewModel], interval time.Duration, checkOrigin func(r *http.Request) bool) *StreamHandler {
	return &StreamHandler{
		pages:    pages,
		session:  session,
		board:    board,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Dashboard handles GET /ws/dashboard
// @Summary      Live dashboard
// @Description  Websocket sending model.StreamMessage frames on every refresh and wallet change
// @Tags         pages
// @Router       /ws/dashboard [get]
func (h *StreamHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		logger.WithContext(r.Context()).Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go h.readPump(conn, cancel)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		changed := h.session.Changed()
		if err := h.push(ctx, conn); err != nil {
			logger.WithContext(ctx).Debug("Websocket write failed", zap.Error(err))
			return
		}

	wait:
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				break wait
			case <-changed:
				break wait
			case <-ping.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}

// push runs one dashboard cycle and writes the newest published result
func (h *StreamHandler) push(ctx context.Context, conn *websocket.Conn) error {
	state := h.session.State()
	h.board.Publish(h.pages.Dashboard(ctx, state))

	latest, _ := h.board.Latest()
	page := toPage(latest)

	msg := model.StreamMessage{
		Type:      "dashboard",
		Dashboard: &page,
		Connected: state.Connected,
		Address:   state.Account.Address,
		Timestamp: time.Now().UnixMilli(),
	}
	if latest.State == aggregator.StateError {
		msg.Type = "error"
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

// readPump drains client frames so control messages are handled, and cancels on close
func (h *StreamHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.GetLogger().Debug("Websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}
