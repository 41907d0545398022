package telnet

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kaizoquest/kaizoquest/internal/config"
)

// SessionHandler runs the command loop for one connected client. The
// context is cancelled when the acceptor shuts down.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// Acceptor owns the listening TCP socket. Each accepted connection is
// negotiated and handed to the SessionHandler on its own goroutine.
type Acceptor struct {
	cfg      config.TelnetConfig
	sessions SessionHandler
	logger   *zap.Logger

	mu       sync.Mutex
	ln       net.Listener
	running  bool
	quit     chan struct{}
	inflight sync.WaitGroup
}

// NewAcceptor builds an Acceptor; call ListenAndServe to start it.
//
// Precondition: cfg must carry a valid port; sessions and logger must be non-nil.
func NewAcceptor(cfg config.TelnetConfig, sessions SessionHandler, logger *zap.Logger) *Acceptor {
	return &Acceptor{
		cfg:      cfg,
		sessions: sessions,
		logger:   logger,
		quit:     make(chan struct{}),
	}
}

// ListenAndServe binds the listener and accepts connections until Stop
// is called. It blocks for the lifetime of the listener.
//
// Precondition: The acceptor must not already be running.
// Postcondition: The listener is closed when this method returns.
func (a *Acceptor) ListenAndServe() error {
	bootedAt := time.Now()

	ln, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}

	a.mu.Lock()
	a.ln = ln
	a.running = true
	a.mu.Unlock()

	a.logger.Info("telnet acceptor listening",
		zap.String("addr", ln.Addr().String()),
		zap.Duration("startup", time.Since(bootedAt)),
	)

	for {
		sock, err := ln.Accept()
		if err != nil {
			select {
			case <-a.quit:
				return nil
			default:
			}
			a.logger.Error("accepting connection", zap.Error(err))
			continue
		}

		a.inflight.Add(1)
		go a.serve(sock)
	}
}

// serve negotiates one client connection and runs its session.
func (a *Acceptor) serve(sock net.Conn) {
	defer a.inflight.Done()

	connectedAt := time.Now()
	addr := sock.RemoteAddr().String()
	a.logger.Info("client connected", zap.String("remote_addr", addr))

	conn := NewConn(sock, a.cfg.ReadTimeout, a.cfg.WriteTimeout)
	defer conn.Close()

	if err := conn.Negotiate(); err != nil {
		a.logger.Error("telnet negotiation failed",
			zap.String("remote_addr", addr),
			zap.Error(err),
		)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-a.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := a.sessions.HandleSession(ctx, conn)
	fields := []zap.Field{
		zap.String("remote_addr", addr),
		zap.Duration("duration", time.Since(connectedAt)),
	}
	if err != nil {
		a.logger.Debug("session ended", append(fields, zap.Error(err))...)
	} else {
		a.logger.Info("session ended cleanly", fields...)
	}
}

// Stop closes the listener and waits for every active session to
// drain.
//
// Postcondition: All connections are closed and session goroutines have exited.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	a.running = false

	close(a.quit)
	if a.ln != nil {
		a.ln.Close()
	}
	a.inflight.Wait()

	a.logger.Info("telnet acceptor stopped")
}

// Addr reports the bound listening address, or "" before ListenAndServe
// has bound the socket.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ln == nil {
		return ""
	}
	return a.ln.Addr().String()
}

// IsRunning reports whether the acceptor is accepting connections.
func (a *Acceptor) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}
