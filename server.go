// server.go
// TCP transport: the accept loop that feeds sessions. The client id is
// the remote port, which the kernel keeps unique among live
// connections — exactly the uniqueness the registry needs, nothing
// more. Ids do recycle after a client leaves.

package main

import (
	"errors"
	"net"

	log "github.com/sirupsen/logrus"
)

func serveTCP(l net.Listener, reg *Registry) error {
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go func() {
			defer conn.Close()
			session(reg, clientID(conn), conn, newLineSource(conn))
		}()
	}
}

func clientID(conn net.Conn) uint64 {
	if a, ok := conn.RemoteAddr().(*net.TCPAddr); ok {
		return uint64(a.Port)
	}
	log.WithField("addr", conn.RemoteAddr().String()).Warn("connection without a TCP remote port")
	return 0
}
