package telnet

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kaizoquest/kaizoquest/internal/config"
)

// echoHandler repeats lines back until the client sends "quit".
type echoHandler struct {
	sessions atomic.Int32
}

func (h *echoHandler) HandleSession(_ context.Context, conn *Conn) error {
	h.sessions.Add(1)
	for {
		line, err := conn.ReadLine()
		if err != nil {
			return err
		}
		if line == "quit" {
			_ = conn.WriteLine("bye")
			return nil
		}
		_ = conn.WriteLine("echo: " + line)
	}
}

// startAcceptor boots an acceptor on a random port and returns it with
// its bound address. Stop is registered as cleanup.
func startAcceptor(t *testing.T, handler SessionHandler) (*Acceptor, string) {
	t.Helper()

	cfg := config.TelnetConfig{
		Host:         "127.0.0.1",
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	acc := NewAcceptor(cfg, handler, zaptest.NewLogger(t))
	go func() { _ = acc.ListenAndServe() }()
	t.Cleanup(acc.Stop)

	deadline := time.After(2 * time.Second)
	for !acc.IsRunning() || acc.Addr() == "" {
		select {
		case <-deadline:
			t.Fatal("acceptor did not start in time")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	return acc, acc.Addr()
}

// dial connects a raw client and drains the opening IAC negotiation.
func dial(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	buf := make([]byte, 256)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _ = conn.Read(buf)
	return conn
}

func readSome(t *testing.T, conn net.Conn) string {
	t.Helper()
	buf := make([]byte, 256)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _ := conn.Read(buf)
	return string(buf[:n])
}

func TestAcceptorServesASession(t *testing.T) {
	handler := &echoHandler{}
	acc, addr := startAcceptor(t, handler)

	conn := dial(t, addr)

	_, err := conn.Write([]byte("hello\r\n"))
	require.NoError(t, err)
	assert.Contains(t, readSome(t, conn), "echo: hello")

	_, _ = conn.Write([]byte("quit\r\n"))
	assert.Contains(t, readSome(t, conn), "bye")

	acc.Stop()
	assert.False(t, acc.IsRunning())
	assert.Equal(t, int32(1), handler.sessions.Load())
}

func TestAcceptorMultipleClients(t *testing.T) {
	handler := &echoHandler{}
	acc, addr := startAcceptor(t, handler)

	const numClients = 3
	conns := make([]net.Conn, numClients)
	for i := range conns {
		conns[i] = dial(t, addr)
	}
	for _, conn := range conns {
		_, _ = conn.Write([]byte("quit\r\n"))
		_ = readSome(t, conn)
	}

	// Let the session goroutines finish before counting.
	time.Sleep(100 * time.Millisecond)

	acc.Stop()
	assert.Equal(t, int32(numClients), handler.sessions.Load())
}
