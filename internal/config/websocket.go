package config

import (
	"net/http"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	ReadLimit int64 `yaml:"read_limit"`
}

func (c WebSocket) Upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}
