// websocket.go
// WebSocket transport. Browser clients speak the same protocol as raw
// TCP ones, with the frame taking the place of the newline: one text
// message in is one line relayed, one relayed line out is one text
// message. Both transports share the registry, so TCP and websocket
// clients see each other's messages.

package main

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, validate the origin here.
	},
}

func wsHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("websocket upgrade failed")
			return
		}
		defer conn.Close()
		session(reg, addrPort(r.RemoteAddr), &wsWriter{conn: conn}, &wsLines{conn: conn})
	}
}

// addrPort derives the client id from a host:port string, the same
// while-live uniqueness argument as the TCP transport.
func addrPort(addr string) uint64 {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		log.WithField("addr", addr).Warn("remote address without a port")
		return 0
	}
	n, err := strconv.ParseUint(port, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// wsWriter adapts the registry's newline-terminated writes onto text
// messages. All writes arrive serialized under the registry's lock.
type wsWriter struct {
	conn *websocket.Conn
}

func (w *wsWriter) Write(p []byte) (int, error) {
	msg := bytes.TrimSuffix(p, []byte("\n"))
	if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		return 0, err
	}
	return len(p), nil
}

// wsLines turns inbound text messages into protocol lines.
type wsLines struct {
	conn *websocket.Conn
}

func (l *wsLines) ReadLine() (string, error) {
	for {
		t, msg, err := l.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return "", io.EOF
			}
			return "", err
		}
		if t != websocket.TextMessage {
			continue
		}
		return strings.TrimSuffix(string(msg), "\n"), nil
	}
}
