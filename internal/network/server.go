package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slices"

	"worldforge/internal/config"
)

const (
	sendBuffer   = 256
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
)

// ErrSendBufferFull is returned when an observer does not keep up.
var ErrSendBufferFull = errors.New("network: send buffer full")

// Handler processes one validated inbound envelope. A returned error is sent
// back to the observer as an error message.
type Handler func(ctx context.Context, conn *Conn, env Envelope) error

// Server is the websocket endpoint observers and debug tools connect to.
type Server struct {
	log          *slog.Logger
	validator    *Validator
	upgrader     websocket.Upgrader
	allowRemote  bool
	maxObservers int
	seq          atomic.Uint64
	nextID       atomic.Uint64
	idleLogged   atomic.Bool

	mu        sync.RWMutex
	handlers  map[MessageType][]Handler
	onConnect []func(*Conn)
	conns     map[uint64]*Conn
}

func NewServer(cfg config.ServerConfig, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	return &Server{
		log:          log,
		validator:    validator,
		allowRemote:  cfg.Debug.AllowRemote,
		maxObservers: cfg.MaxObservers,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		handlers: make(map[MessageType][]Handler),
		conns:    make(map[uint64]*Conn),
	}, nil
}

func (s *Server) Register(msgType MessageType, handler Handler) {
	s.mu.Lock()
	s.handlers[msgType] = append(s.handlers[msgType], handler)
	s.mu.Unlock()
}

// OnConnect registers a hook run for every new observer before its first
// inbound message is read.
func (s *Server) OnConnect(fn func(*Conn)) {
	s.mu.Lock()
	s.onConnect = append(s.onConnect, fn)
	s.mu.Unlock()
}

func (s *Server) handlersFor(msgType MessageType) []Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Handler(nil), s.handlers[msgType]...)
}

// Handler returns the HTTP mux serving /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.closeAll()
	})
	defer stop()

	s.log.Info("observer endpoint listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) serveWS(rw http.ResponseWriter, r *http.Request) {
	if !s.allowRemote && !isLoopbackRemote(r.RemoteAddr) {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}
	ws, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := &Conn{
		id:     s.nextID.Add(1),
		remote: r.RemoteAddr,
		ws:     ws,
		server: s,
		out:    make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
	if !s.add(c) {
		_ = ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too many observers"), time.Now().Add(time.Second))
		_ = ws.Close()
		return
	}
	defer s.remove(c)
	s.log.Info("observer connected", "id", c.id, "remote", c.remote)

	go c.writeLoop()

	s.mu.RLock()
	hooks := slices.Clone(s.onConnect)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn(c)
	}

	c.readLoop(r.Context())
	s.log.Info("observer disconnected", "id", c.id)
}

func (s *Server) add(c *Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxObservers > 0 && len(s.conns) >= s.maxObservers {
		return false
	}
	s.conns[c.id] = c
	s.idleLogged.Store(false)
	return true
}

func (s *Server) remove(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c.id)
	s.mu.Unlock()
	c.close()
}

func (s *Server) closeAll() {
	s.mu.Lock()
	conns := make([]*Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		c.close()
	}
}

// Observers returns the number of connected observers.
func (s *Server) Observers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

// Broadcast queues msg for every observer and returns how many accepted it.
// With nobody connected the message is dropped; this is logged once until an
// observer connects again.
func (s *Server) Broadcast(msgType MessageType, payload any) (int, error) {
	s.mu.RLock()
	conns := make([]*Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.RUnlock()

	if len(conns) == 0 {
		if s.idleLogged.CompareAndSwap(false, true) {
			s.log.Info("no observers connected, dropping render updates", "type", msgType)
		}
		return 0, nil
	}

	data, err := s.prepare(msgType, payload)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, c := range conns {
		if c.enqueue(data) == nil {
			sent++
		}
	}
	return sent, nil
}

func (s *Server) prepare(msgType MessageType, payload any) ([]byte, error) {
	raw, err := encodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msgType, err)
	}
	return Encode(Envelope{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Seq:       s.seq.Add(1),
		Payload:   raw,
	})
}

func encodePayload(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case nil:
		return []byte("null"), nil
	case []byte:
		return p, nil
	case json.RawMessage:
		return p, nil
	default:
		return json.Marshal(payload)
	}
}

// dispatch validates env and runs its handlers in registration order.
func (s *Server) dispatch(ctx context.Context, c *Conn, env Envelope) error {
	if err := s.validator.Validate(env); err != nil {
		return err
	}
	handlers := s.handlersFor(env.Type)
	if len(handlers) == 0 {
		return fmt.Errorf("%w: %q has no handler", ErrUnknownMessage, env.Type)
	}
	for _, h := range handlers {
		if err := h(ctx, c, env); err != nil {
			return err
		}
	}
	return nil
}

// Conn is one connected observer.
type Conn struct {
	id     uint64
	remote string
	ws     *websocket.Conn
	server *Server
	out    chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func (c *Conn) ID() uint64 {
	return c.id
}

func (c *Conn) RemoteAddr() string {
	return c.remote
}

// Send queues a message for this observer only.
func (c *Conn) Send(msgType MessageType, payload any) error {
	data, err := c.server.prepare(msgType, payload)
	if err != nil {
		return err
	}
	return c.enqueue(data)
}

func (c *Conn) enqueue(data []byte) error {
	select {
	case <-c.done:
		return net.ErrClosed
	default:
	}
	select {
	case c.out <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *Conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

func (c *Conn) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.out:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.server.log.Debug("observer write failed", "id", c.id, "err", err)
				c.close()
				return
			}
		}
	}
}

func (c *Conn) readLoop(ctx context.Context) {
	for {
		_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		env, err := Decode(msg)
		if err != nil {
			c.sendError("", 0, fmt.Errorf("decode envelope: %w", err))
			continue
		}
		if err := c.server.dispatch(ctx, c, env); err != nil {
			c.sendError(env.Type, env.Seq, err)
		}
	}
}

func (c *Conn) sendError(request MessageType, seq uint64, err error) {
	c.server.log.Debug("observer request failed", "id", c.id, "type", request, "err", err)
	_ = c.Send(MessageError, ErrorMessage{Request: request, Seq: seq, Message: err.Error()})
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
