package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/khedma/sunday-school-backend/internal/middleware"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/khedma/sunday-school-backend/internal/service"
	"github.com/khedma/sunday-school-backend/internal/timewindow"
	ws "github.com/khedma/sunday-school-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams committed check-ins of the current civil date to gate
// and classroom screens.
type WSHandler struct {
	feed     *service.AttendanceFeed
	resolver *timewindow.Resolver
	clock    timewindow.Clock
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(feed *service.AttendanceFeed, resolver *timewindow.Resolver, clock timewindow.Clock, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		feed:     feed,
		resolver: resolver,
		clock:    clock,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// AttendanceFeed godoc
// WS /ws/v1/attendance/feed
// Upgrades to WebSocket and relays today's attendance events.
func (h *WSHandler) AttendanceFeed(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	date := h.resolver.CivilDate(h.clock.Now()).String()
	sub := h.feed.Subscribe(ctx, date)
	defer sub.Close()

	wsLog := h.log.With().
		Str("user_id", claims.UserID.String()).
		Str("date", date).
		Logger()
	wsLog.Info().Msg("Feed client connected")

	if err := ws.WriteTyped(conn, ws.ReadyResponse{Event: ws.EventReady, Date: date}); err != nil {
		return
	}

	// Only the reader goroutine reads; only this goroutine writes.
	actions := make(chan ws.Action, 4)
	closed := make(chan struct{})
	go h.readLoop(conn, wsLog, actions, closed)

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()
	messages := sub.Channel()

	for {
		select {
		case <-closed:
			wsLog.Debug().Msg("Connection closed")
			return
		case action := <-actions:
			var err error
			if action == ws.ActionPing {
				err = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			} else {
				err = ws.WriteError(conn, "unknown action: "+string(action))
			}
			if err != nil {
				return
			}
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var evt model.AttendanceEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				wsLog.Warn().Err(err).Msg("Dropping malformed feed message")
				continue
			}
			if err := ws.WriteTyped(conn, ws.AttendanceResponse{Event: ws.EventAttendanceMarked, Attendance: evt}); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// readLoop consumes client frames until the connection drops, forwarding
// their actions to the writer. Actions beyond the buffer are dropped.
func (h *WSHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, actions chan<- ws.Action, closed chan<- struct{}) {
	defer close(closed)
	ws.KeepAlive(conn)

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		if msg.Action != ws.ActionPing {
			wsLog.Debug().Str("action", string(msg.Action)).Msg("Unknown action")
		}
		select {
		case actions <- msg.Action:
		default:
		}
	}
}
