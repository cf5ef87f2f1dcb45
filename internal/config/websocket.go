package config

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
	// SendBuffer is the number of session updates queued per connection
	// before updates start being dropped.
	SendBuffer   int
	WriteTimeout time.Duration
}

func NewWebSocket() (*WebSocket, error) {
	sendBuffer, err := intEnv("WS_SEND_BUFFER", 64)
	if err != nil {
		return nil, err
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	ws := &WebSocket{
		Upgrader:     upgrader,
		SendBuffer:   sendBuffer,
		WriteTimeout: 10 * time.Second,
	}

	return ws, nil
}
