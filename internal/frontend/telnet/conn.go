package telnet

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"sync"
	"time"
)

// Telnet command bytes per RFC 854.
const (
	IAC  byte = 255 // Interpret As Command
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // Sub-negotiation Begin
	SE   byte = 240 // Sub-negotiation End
	NOP  byte = 241
	GA   byte = 249 // Go Ahead

	// Telnet options
	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
	OptLinemode        byte = 34
)

// Conn is a player connection. It strips Telnet command sequences from
// the input stream and exposes line-oriented reads and writes with
// per-operation deadlines.
type Conn struct {
	sock net.Conn
	in   *bufio.Reader
	mu   sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps an accepted TCP connection.
//
// Precondition: sock must be a valid, open network connection.
func NewConn(sock net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		sock:         sock,
		in:           bufio.NewReaderSize(sock, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate sends the opening option negotiation: the server will
// suppress go-ahead, which puts most clients into character mode.
func (c *Conn) Negotiate() error {
	return c.rawWrite([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine reads one line of player input with Telnet commands and
// control characters (except tab) filtered out. The trailing line
// terminator is not included.
//
// Postcondition: Returns the next line of text, or an error (including io.EOF).
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.sock.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line bytes.Buffer
	for {
		b, err := c.in.ReadByte()
		if err != nil {
			return line.String(), err
		}

		switch {
		case b == IAC:
			if err := c.consumeCommand(); err != nil {
				return line.String(), err
			}
		case b == '\n':
			return line.String(), nil
		case b == '\r':
			// Swallow the \n of a \r\n pair if present.
			if next, err := c.in.Peek(1); err == nil && next[0] == '\n' {
				_, _ = c.in.ReadByte()
			}
			return line.String(), nil
		case b < 32 && b != '\t':
			// Drop stray control characters.
		default:
			line.WriteByte(b)
		}
	}
}

// consumeCommand discards one Telnet command sequence. The leading IAC
// byte has already been read.
func (c *Conn) consumeCommand() error {
	cmd, err := c.in.ReadByte()
	if err != nil {
		return err
	}

	switch cmd {
	case WILL, WONT, DO, DONT:
		// One option byte follows.
		_, err := c.in.ReadByte()
		return err
	case SB:
		// Discard sub-negotiation data up to IAC SE.
		for {
			b, err := c.in.ReadByte()
			if err != nil {
				return err
			}
			if b != IAC {
				continue
			}
			next, err := c.in.ReadByte()
			if err != nil {
				return err
			}
			if next == SE {
				return nil
			}
		}
	default:
		// Escaped IAC, NOP, GA and the rest carry no payload here.
		return nil
	}
}

// ReadPassword reads one line with client echo suppressed: IAC WILL
// Echo before the read, IAC WONT Echo after, then a blank line so the
// cursor moves past the hidden input.
//
// Postcondition: Echo is restored even when the read fails.
func (c *Conn) ReadPassword() (string, error) {
	if err := c.rawWrite([]byte{IAC, WILL, OptEcho}); err != nil {
		return "", err
	}

	line, err := c.ReadLine()

	_ = c.rawWrite([]byte{IAC, WONT, OptEcho})
	_ = c.Write([]byte("\r\n"))

	return line, err
}

// WriteLine sends text followed by \r\n.
//
// Precondition: text should not carry its own trailing newline.
func (c *Conn) WriteLine(text string) error {
	return c.rawWrite([]byte(text + "\r\n"))
}

// WritePrompt sends text with no trailing newline, leaving the cursor
// on the prompt line.
func (c *Conn) WritePrompt(prompt string) error {
	return c.rawWrite([]byte(prompt))
}

// Write sends raw bytes to the client.
func (c *Conn) Write(data []byte) error {
	return c.rawWrite(data)
}

func (c *Conn) rawWrite(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.sock.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	if _, err := c.sock.Write(data); err != nil {
		return fmt.Errorf("writing to client: %w", err)
	}
	return nil
}

// Close closes the underlying TCP connection.
func (c *Conn) Close() error {
	return c.sock.Close()
}

// RemoteAddr reports the client's network address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.sock.RemoteAddr()
}

// FilterIAC strips Telnet command sequences from a raw byte slice.
// Escaped IAC pairs collapse to a single literal 0xFF. Exposed as a
// pure function so the protocol handling is testable without a socket.
func FilterIAC(input []byte) []byte {
	out := make([]byte, 0, len(input))
	for i := 0; i < len(input); {
		if input[i] != IAC || i+1 >= len(input) {
			out = append(out, input[i])
			i++
			continue
		}

		switch cmd := input[i+1]; cmd {
		case WILL, WONT, DO, DONT:
			i += 3
		case SB:
			j := i + 2
			for j < len(input)-1 && !(input[j] == IAC && input[j+1] == SE) {
				j++
			}
			if j < len(input)-1 {
				j += 2
			}
			i = j
		case IAC:
			out = append(out, IAC)
			i += 2
		default:
			i += 2
		}
	}
	return out
}
