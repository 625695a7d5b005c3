package binance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// SessionConfig tunes connection upkeep. Zero fields take the defaults below.
type SessionConfig struct {
	HandshakeTimeout time.Duration
	PingInterval     time.Duration
	ReadTimeout      time.Duration
	MinBackoff       time.Duration
	MaxBackoff       time.Duration
}

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultPingInterval     = 25 * time.Second
	defaultReadTimeout      = 60 * time.Second
	defaultMinBackoff       = 500 * time.Millisecond
	defaultMaxBackoff       = 30 * time.Second
	controlWriteTimeout     = 5 * time.Second
)

func (c SessionConfig) withDefaults() SessionConfig {
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = defaultHandshakeTimeout
	}
	if c.PingInterval <= 0 {
		c.PingInterval = defaultPingInterval
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = defaultReadTimeout
	}
	if c.MinBackoff <= 0 {
		c.MinBackoff = defaultMinBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = defaultMaxBackoff
	}
	return c
}

// Session owns one stream connection: the socket, its heartbeat and the
// reconnect loop. Every text frame is passed to the handler in arrival order
// on the session's own goroutine.
type Session struct {
	id      string
	url     string
	cfg     SessionConfig
	handler func([]byte)
	dialer  *websocket.Dialer
	backoff *backoff.ExponentialBackOff
	logger  *zap.Logger
}

// NewSession creates a session for url. It does not connect until Run.
func NewSession(url string, cfg SessionConfig, handler func([]byte), logger *zap.Logger) *Session {
	cfg = cfg.withDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.MinBackoff
	b.MaxInterval = cfg.MaxBackoff

	id := uuid.NewString()
	return &Session{
		id:      id,
		url:     url,
		cfg:     cfg,
		handler: handler,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		backoff: b,
		logger:  logger.With(zap.String("session", id), zap.String("url", url)),
	}
}

func (s *Session) ID() string { return s.id }

// Run connects and reads until ctx is cancelled, reconnecting with
// exponential backoff whenever the connection drops. It returns nil once ctx
// is done.
func (s *Session) Run(ctx context.Context) error {
	if s.handler == nil {
		return errors.New("session has no message handler")
	}
	for {
		conn, err := s.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Warn("WebSocket dial failed", zap.Error(err))
			if !s.wait(ctx) {
				return nil
			}
			continue
		}
		s.backoff.Reset()
		s.logger.Info("WebSocket connected")

		err = s.listen(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			s.logger.Info("WebSocket session stopped")
			return nil
		}

		s.logger.Warn("WebSocket disconnected, reconnecting", zap.Error(err))
		if !s.wait(ctx) {
			return nil
		}
	}
}

func (s *Session) connect(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: status %d: %w", s.url, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", s.url, err)
	}
	return conn, nil
}

// wait sleeps for the next backoff step and reports false if ctx ended first.
func (s *Session) wait(ctx context.Context) bool {
	d := s.backoff.NextBackOff()
	if d == backoff.Stop {
		d = s.cfg.MaxBackoff
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// listen reads frames until the connection fails or ctx is cancelled. The
// server pings every few minutes; any inbound frame or control message
// extends the read deadline, and our own pings keep idle streams alive.
func (s *Session) listen(ctx context.Context, conn *websocket.Conn) error {
	extend := func() error {
		return conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	}
	_ = extend()
	conn.SetPongHandler(func(string) error {
		return extend()
	})
	conn.SetPingHandler(func(appData string) error {
		if err := extend(); err != nil {
			return err
		}
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(controlWriteTimeout))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				errCh <- err
				return
			}
			_ = extend()
			if msgType != websocket.TextMessage {
				continue
			}
			s.handler(msg)
		}
	}()

	pingTicker := time.NewTicker(s.cfg.PingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(controlWriteTimeout))
			_ = conn.Close()
			<-errCh
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(controlWriteTimeout)); err != nil {
				s.logger.Debug("ping failed", zap.Error(err))
			}
		}
	}
}
