package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"

	"gatelog/internal/hub"
)

// upgrader accepts any origin: observers are unauthenticated and the
// dashboard may be served from a different host.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	o := hub.NewObserver(conn, s.sendBuffer)
	s.hub.Register(o)

	go o.WritePump()
	go o.ReadPump(s.hub)
}
