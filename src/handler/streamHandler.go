package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"

	"github.com/ZocoMacc/PaperDuel/src/stream"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// BattleStreamHandler upgrades to a websocket and pushes every
// subsequent advance snapshot of one battle to the client. The current
// state is sent immediately on connect.
func BattleStreamHandler(registry battleRegistry, hub *stream.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		battleID := chi.URLParam(r, "battleID")

		b, err := registry.Get(battleID)
		if err != nil {
			writeBattleError(w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.WithError(err).Warn("websocket upgrade failed")
			return
		}
		defer conn.Close()

		sub := hub.Subscribe(battleID, 32)
		defer hub.Unsubscribe(battleID, sub)

		if err := conn.WriteJSON(b.State()); err != nil {
			return
		}

		for snap := range sub.C {
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		}
	}
}
