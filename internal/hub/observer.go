package hub

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// defaultSendBuffer bounds how far an observer may lag before it is
	// dropped.
	defaultSendBuffer = 64
)

// Observer is one live websocket connection.  The hub only ever touches
// its send channel; the connection itself belongs to the pumps.
type Observer struct {
	conn *websocket.Conn
	send chan []byte
}

func NewObserver(conn *websocket.Conn, sendBuffer int) *Observer {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	return &Observer{conn: conn, send: make(chan []byte, sendBuffer)}
}

// WritePump drains the send channel onto the connection, interleaving
// pings.  It exits when the hub closes the channel or a write fails, and
// closes the connection on the way out.
func (o *Observer) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = o.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-o.send:
			_ = o.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = o.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := o.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = o.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := o.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump discards inbound frames (observers are listen-only) and
// unregisters from the hub when the peer goes away.
func (o *Observer) ReadPump(h *Hub) {
	defer func() {
		h.Unregister(o)
		_ = o.conn.Close()
	}()

	o.conn.SetReadLimit(512)
	_ = o.conn.SetReadDeadline(time.Now().Add(pongWait))
	o.conn.SetPongHandler(func(string) error {
		return o.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := o.conn.ReadMessage(); err != nil {
			return
		}
	}
}
