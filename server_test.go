package main

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRelay(t *testing.T) (*Registry, string) {
	t.Helper()
	reg := NewRegistry()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	go serveTCP(l, reg)
	return reg, l.Addr().String()
}

func dialRelay(t *testing.T, addr string) (net.Conn, *bufio.Reader, uint64) {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	id := uint64(conn.LocalAddr().(*net.TCPAddr).Port)

	r := bufio.NewReader(conn)
	login, err := r.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("LOGIN:%d\n", id), login)
	return conn, r, id
}

func TestRelayOverTCP(t *testing.T) {
	_, addr := startRelay(t)

	c1, r1, id1 := dialRelay(t, addr)
	_, r2, _ := dialRelay(t, addr)

	_, err := c1.Write([]byte("hello\n"))
	require.NoError(t, err)

	ack, err := r1.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "ACK:MESSAGE\n", ack)

	msg, err := r2.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("MESSAGE:%d hello\n", id1), msg)
}

func TestRelayDisconnect(t *testing.T) {
	reg, addr := startRelay(t)

	c1, _, id1 := dialRelay(t, addr)
	c2, r2, _ := dialRelay(t, addr)

	require.NoError(t, c1.Close())
	assert.Eventually(t, func() bool {
		return errors.Is(reg.SendTo(id1, []byte("ping\n")), ErrNotConnected)
	}, time.Second, 10*time.Millisecond)

	_, err := c2.Write([]byte("x\n"))
	require.NoError(t, err)
	ack, err := r2.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "ACK:MESSAGE\n", ack)
}
