package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/Vijayaa21/blabber/internal/services"
	"github.com/Vijayaa21/blabber/internal/utils"
	"github.com/Vijayaa21/blabber/internal/workers"
)

type LiveHandler struct {
	live     services.LiveService
	redis    *redis.Client
	upgrader websocket.Upgrader
}

func NewLiveHandler(live services.LiveService, rdb *redis.Client) *LiveHandler {
	return &LiveHandler{
		live:  live,
		redis: rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type StartLiveRequest struct {
	Language string `json:"language"`
	Title    string `json:"title"`
}

func (h *LiveHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req StartLiveRequest
	_ = c.ShouldBindJSON(&req) // all fields optional

	sess, err := h.live.Start(c.Request.Context(), userID, req.Language, req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *LiveHandler) End(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	sess, err := h.live.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	if sess.UserID != userID {
		writeError(c, utils.E(utils.CodeForbidden, "LiveHandler.End", "forbidden", nil))
		return
	}

	rec, err := h.live.End(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type liveClientMsg struct {
	Type          string  `json:"type"`
	ChunkIndex    int64   `json:"chunk_index"`
	AudioBase64   string  `json:"audio_base64"`
	AudioURL      string  `json:"audio_url"`
	OffsetSeconds float64 `json:"offset_seconds"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

// SessionWS streams a live capture: the client sends audio chunks, the
// worker pool transcribes them, and segment events flow back over the
// session pub/sub channels.
func (h *LiveHandler) SessionWS(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	if sessionID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "LiveHandler.SessionWS", "missing session_id", nil))
		return
	}

	sess, err := h.live.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	if sess.UserID != userID {
		writeError(c, utils.E(utils.CodeForbidden, "LiveHandler.SessionWS", "forbidden", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote a response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.redis.Subscribe(ctx,
		workers.EventChannel(sessionID),
		workers.StatusChannel(sessionID),
	)
	defer pubsub.Close()

	// reader: WS -> Redis stream
	go func() {
		defer cancel()
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			var msg liveClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"invalid json"}`))
				continue
			}

			switch msg.Type {
			case "audio_chunk":
				if msg.ChunkIndex <= 0 {
					_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"chunk_index must be > 0"}`))
					continue
				}
				if msg.AudioBase64 == "" && msg.AudioURL == "" {
					_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"audio_base64 or audio_url required"}`))
					continue
				}

				fields := map[string]any{
					"session_id":     sessionID,
					"chunk_index":    strconv.FormatInt(msg.ChunkIndex, 10),
					"offset_seconds": strconv.FormatFloat(msg.OffsetSeconds, 'f', -1, 64),
					"language":       sess.Language,
					"ts_unix":        strconv.FormatInt(time.Now().UTC().Unix(), 10),
				}
				if msg.AudioBase64 != "" {
					fields["audio_base64"] = msg.AudioBase64
				}
				if msg.AudioURL != "" {
					fields["audio_url"] = msg.AudioURL
				}

				if err := h.redis.XAdd(ctx, &redis.XAddArgs{
					Stream: "transcribe:stream",
					Values: fields,
				}).Err(); err != nil {
					_ = wc.writeText([]byte(`{"type":"error","code":"UNAVAILABLE","message":"failed to enqueue audio"}`))
					continue
				}

				_ = h.redis.Publish(ctx, workers.StatusChannel(sessionID),
					`{"type":"status","status":"processing","message":"audio chunk queued","chunk_index":`+strconv.FormatInt(msg.ChunkIndex, 10)+`}`).Err()

			case "end_session":
				if _, err := h.live.End(ctx, sessionID); err != nil {
					_ = wc.writeText([]byte(`{"type":"error","code":"INTERNAL","message":"failed to end session"}`))
					return
				}
				_ = h.redis.Publish(ctx, workers.StatusChannel(sessionID),
					`{"type":"status","status":"ended","message":"session ended"}`).Err()
				return

			default:
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"unknown message type"}`))
			}
		}
	}()

	// writer: Redis pub/sub -> WS. Ends when the reader cancels ctx or
	// the peer goes away.
	for {
		m, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			return
		}
		if werr := wc.writeText([]byte(m.Payload)); werr != nil {
			return
		}
	}
}
