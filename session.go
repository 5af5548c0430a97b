// session.go
// One session goroutine per client, alive for the connection's full
// lifetime. The session owns the read side; the write side is handed to
// the registry at login and only ever written under the registry's
// lock. Read problems are what end a session — a failed write to some
// peer never does.

package main

import (
	"bufio"
	"errors"
	"io"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// lineSource yields one complete inbound line at a time, without the
// trailing newline. io.EOF signals a clean end of stream.
type lineSource interface {
	ReadLine() (string, error)
}

type bufioLines struct {
	s *bufio.Scanner
}

func newLineSource(r io.Reader) lineSource {
	return &bufioLines{s: bufio.NewScanner(r)}
}

func (b *bufioLines) ReadLine() (string, error) {
	if b.s.Scan() {
		return b.s.Text(), nil
	}
	if err := b.s.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// session runs the per-connection protocol: register the write half,
// acknowledge the login, then broadcast every complete line until the
// client goes away. An empty line is still a line and is relayed.
// Both end of stream and a read error deregister the client, so a
// gracefully closing peer does not leak its registry entry.
func session(reg *Registry, id uint64, w io.Writer, lines lineSource) {
	// Ids recycle once a client leaves; the session uuid is what makes
	// log lines attributable after the fact.
	logger := log.WithFields(log.Fields{
		"client":  id,
		"session": uuid.NewString(),
	})

	reg.Register(id, w)
	defer reg.Deregister(id)
	logger.WithField("clients", reg.Len()).Info("client connected")

	if err := reg.SendTo(id, loginMessage(id)); err != nil {
		if errors.Is(err, ErrNotConnected) {
			// Registered a moment ago, so absence here means the
			// registry invariant broke, not that the client left.
			logger.Error("login ack: client missing from registry")
		} else {
			logger.WithError(err).Warn("login ack write failed")
		}
	}

	for {
		line, err := lines.ReadLine()
		if err != nil {
			if err == io.EOF {
				logger.Info("client disconnected")
			} else {
				logger.WithError(err).Warn("read failed, dropping client")
			}
			return
		}
		logger.WithField("text", line).Debug("message")
		reg.Broadcast(id, wrapMessage(id, line))
	}
}
