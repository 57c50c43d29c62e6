// Package tcp implements fix/transport.Transport/Dialer/Listener over a
// plain net.Conn, the concrete transport named in spec.md §2's L1 row
// and §6's host/port configuration.
package tcp

import (
	"context"
	"net"

	"github.com/solarflux/fixengine/lib/fix/transport"
)

type conn struct {
	c net.Conn
}

func (t *conn) Read(p []byte) (int, error)  { return t.c.Read(p) }
func (t *conn) Write(p []byte) (int, error) { return t.c.Write(p) }
func (t *conn) Close() error                { return t.c.Close() }
func (t *conn) LocalAddr() string           { return t.c.LocalAddr().String() }
func (t *conn) RemoteAddr() string          { return t.c.RemoteAddr().String() }

// Dialer dials outbound TCP connections, the initiator's side.
type Dialer struct {
	// KeepAlive is not read by Dial; connections use net.Dialer's default
	// keep-alive settings whatever its value.
	KeepAlive int
}

func (d Dialer) Dial(ctx context.Context, addr string) (transport.Transport, error) {
	nd := net.Dialer{}
	c, err := nd.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &conn{c: c}, nil
}

// Listener accepts inbound TCP connections, the acceptor's side.
type Listener struct {
	ln net.Listener
}

// Listen binds addr for incoming connections.
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln}, nil
}

// Accept blocks for the next inbound connection, or until ctx is done.
func (l *Listener) Accept(ctx context.Context) (transport.Transport, error) {
	type result struct {
		c   net.Conn
		err error
	}
	ch := make(chan result, 1)
	go func() {
		c, err := l.ln.Accept()
		ch <- result{c: c, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		return &conn{c: r.c}, nil
	case <-ctx.Done():
		_ = l.ln.Close()
		return nil, ctx.Err()
	}
}

func (l *Listener) Close() error { return l.ln.Close() }
func (l *Listener) Addr() string { return l.ln.Addr().String() }
