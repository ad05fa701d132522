package handler

import (
	"net/http"

	"campusmentor/backend/internal/chathub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict allowed origins once the frontend domain is fixed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeChannelWS upgrades the connection and streams channel snapshots until
// the client disconnects. The initial full snapshot is pushed first, then one
// snapshot per mutation.
func (h *Handler) ServeChannelWS(c *gin.Context) {
	channelID := c.Param("id")
	if _, ok := h.channelForParticipant(c, channelID, callerID(c)); !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed",
			zap.String("channel_id", channelID),
			zap.Error(err))
		return
	}

	sub := h.Hub.Subscribe(channelID)
	client := chathub.NewWSClient(conn, sub, h.Log)
	client.Run()
}
