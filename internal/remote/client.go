package remote

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/rosterctl/internal/protocol/frame"
	"github.com/danmuck/rosterctl/internal/protocol/wire"
)

var (
	// ErrConnectionFailure covers every transport-level loss: dial, write,
	// read, or a corrupted stream. The dispatcher treats it as terminal.
	ErrConnectionFailure = errors.New("remote: connection failure")

	ErrAddressRequired = errors.New("remote: server address required")
	ErrTLSCAUnreadable = errors.New("remote: tls ca file unreadable")
)

// ServerError is a command rejected by the server itself. It is a normal
// result as far as the transport is concerned: the connection stays usable.
type ServerError struct {
	Body string
}

func (e *ServerError) Error() string {
	return e.Body
}

// TLSConfig controls optional transport encryption toward the server.
type TLSConfig struct {
	Enabled            bool
	CAFile             string
	InsecureSkipVerify bool
}

// Config defines one client connection. There is no retry or reconnect:
// a lost connection ends the current run.
type Config struct {
	Addr             string
	ConnectTimeout   time.Duration
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	TLS              TLSConfig
}

// WithDefaults fills unset timeouts.
func (c Config) WithDefaults() Config {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 15 * time.Second
	}
	return c
}

// Client is the process-wide connection to the roster server. One request
// and one response travel per Send; message ids are a local counter and
// request ids are uuids the server echoes back.
type Client struct {
	cfg   Config
	conn  net.Conn
	msgID atomic.Uint64
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, ErrAddressRequired
	}
	return &Client{cfg: cfg.WithDefaults()}, nil
}

// Start establishes the connection. Unreachable server maps to
// ErrConnectionFailure; there is no retry.
func (c *Client) Start() error {
	dialer := net.Dialer{Timeout: c.cfg.ConnectTimeout}
	conn, err := dialer.Dial("tcp", c.cfg.Addr)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", ErrConnectionFailure, c.cfg.Addr, err)
	}
	if c.cfg.TLS.Enabled {
		tlsCfg, err := c.tlsConfig()
		if err != nil {
			_ = conn.Close()
			return err
		}
		tlsConn := tls.Client(conn, tlsCfg)
		_ = tlsConn.SetDeadline(time.Now().Add(c.cfg.HandshakeTimeout))
		if err := tlsConn.Handshake(); err != nil {
			_ = conn.Close()
			return fmt.Errorf("%w: tls handshake: %v", ErrConnectionFailure, err)
		}
		_ = tlsConn.SetDeadline(time.Time{})
		conn = tlsConn
	}
	c.conn = conn
	log.Info().Str("addr", c.cfg.Addr).Bool("tls", c.cfg.TLS.Enabled).Msg("connected to roster server")
	return nil
}

// Send forwards one validated command and waits for its response.
func (c *Client) Send(req wire.CommandRequest, scripted bool) (string, error) {
	if c.conn == nil {
		return "", fmt.Errorf("%w: not connected", ErrConnectionFailure)
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	req.Scripted = scripted

	raw, err := wire.EncodeRequestFrame(c.msgID.Add(1), req)
	if err != nil {
		return "", err
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	if _, err := c.conn.Write(raw); err != nil {
		return "", fmt.Errorf("%w: write: %v", ErrConnectionFailure, err)
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	f, err := frame.ReadFrame(c.conn, frame.DefaultLimits())
	if err != nil {
		return "", fmt.Errorf("%w: read: %v", ErrConnectionFailure, err)
	}
	resp, err := wire.DecodeResponseFrame(f)
	if err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrConnectionFailure, err)
	}
	if resp.RequestID != req.RequestID {
		return "", fmt.Errorf("%w: response for %q while waiting on %q", ErrConnectionFailure, resp.RequestID, req.RequestID)
	}
	log.Debug().Str("command", req.Command).Str("status", resp.Status).Msg("command round trip")
	if resp.Status == wire.StatusError {
		return "", &ServerError{Body: resp.Body}
	}
	return resp.Body, nil
}

// Close tears down the connection; safe to call before Start or twice.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) tlsConfig() (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: c.cfg.TLS.InsecureSkipVerify,
	}
	if c.cfg.TLS.CAFile != "" {
		pem, err := os.ReadFile(c.cfg.TLS.CAFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrTLSCAUnreadable, c.cfg.TLS.CAFile)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: %s", ErrTLSCAUnreadable, c.cfg.TLS.CAFile)
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}
