package ws

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 20 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Logger defines minimal logging interface required by the hub.
type Logger interface {
	Infof(string, ...interface{})
	Errorf(string, ...interface{})
}

type session struct {
	conn *websocket.Conn
	role string
	mu   sync.Mutex
}

// AlertHub keeps one live dashboard connection per user and fans alert
// events out to them.
type AlertHub struct {
	logger   Logger
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[int64]*session
}

// NewAlertHub constructs an empty hub.
func NewAlertHub(logger Logger) *AlertHub {
	return &AlertHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sessions: make(map[int64]*session),
	}
}

// ServeWS upgrades a dashboard connection. The user id comes from the
// user_id query parameter or the X-User-Id header; role is optional.
func (h *AlertHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil || id == 0 {
		http.Error(w, "missing user_id", http.StatusUnauthorized)
		return
	}
	role := r.URL.Query().Get("role")
	if role == "" {
		role = r.Header.Get("X-Role")
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.errorf("alert ws upgrade failed: %v", err)
		return
	}

	s := &session{conn: conn, role: role}
	h.mu.Lock()
	if old, ok := h.sessions[id]; ok {
		_ = old.conn.Close()
	}
	h.sessions[id] = s
	h.mu.Unlock()

	h.infof("alert feed: user %d (%s) connected", id, role)

	go h.pingLoop(id, s)
	go h.readLoop(id, s)
}

// Connected reports how many dashboards are attached.
func (h *AlertHub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Push sends payload to a single user.
func (h *AlertHub) Push(userID int64, payload interface{}) {
	data, ok := h.marshal(payload)
	if !ok {
		return
	}
	h.mu.RLock()
	s := h.sessions[userID]
	h.mu.RUnlock()
	if s != nil {
		h.write(userID, s, data)
	}
}

// PushRole sends payload to every user connected with the given role.
func (h *AlertHub) PushRole(role string, payload interface{}) {
	h.fanOut(payload, func(s *session) bool { return s.role == role })
}

// Broadcast sends payload to every connected dashboard.
func (h *AlertHub) Broadcast(payload interface{}) {
	h.fanOut(payload, func(*session) bool { return true })
}

func (h *AlertHub) fanOut(payload interface{}, match func(*session) bool) {
	data, ok := h.marshal(payload)
	if !ok {
		return
	}
	h.mu.RLock()
	targets := make(map[int64]*session, len(h.sessions))
	for id, s := range h.sessions {
		if match(s) {
			targets[id] = s
		}
	}
	h.mu.RUnlock()
	for id, s := range targets {
		h.write(id, s, data)
	}
}

func (h *AlertHub) marshal(payload interface{}) ([]byte, bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.errorf("alert feed marshal failed: %v", err)
		return nil, false
	}
	return data, true
}

func (h *AlertHub) pingLoop(id int64, s *session) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for range ticker.C {
		if !h.alive(id, s) {
			return
		}
		h.writeFn(id, s, func(c *websocket.Conn) error {
			return c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		})
	}
}

func (h *AlertHub) readLoop(id int64, s *session) {
	defer h.drop(id, s)

	conn := s.conn
	conn.SetReadLimit(16 << 10)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		if mt == websocket.TextMessage && strings.EqualFold(strings.TrimSpace(string(message)), "ping") {
			h.writeFn(id, s, func(c *websocket.Conn) error {
				return c.WriteMessage(websocket.TextMessage, []byte("pong"))
			})
		}
	}
}

func (h *AlertHub) alive(id int64, s *session) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[id] == s
}

func (h *AlertHub) drop(id int64, s *session) {
	_ = s.conn.Close()
	h.mu.Lock()
	if current, ok := h.sessions[id]; ok && current == s {
		delete(h.sessions, id)
		h.infof("alert feed: user %d disconnected", id)
	}
	h.mu.Unlock()
}

func (h *AlertHub) write(id int64, s *session, data []byte) {
	h.writeFn(id, s, func(c *websocket.Conn) error {
		return c.WriteMessage(websocket.TextMessage, data)
	})
}

func (h *AlertHub) writeFn(id int64, s *session, fn func(*websocket.Conn) error) {
	s.mu.Lock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := fn(s.conn)
	s.mu.Unlock()
	if err != nil {
		h.errorf("alert feed: write to user %d failed: %v", id, err)
		h.drop(id, s)
	}
}

func (h *AlertHub) infof(format string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Infof(format, args...)
	}
}

func (h *AlertHub) errorf(format string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Errorf(format, args...)
	}
}

func parseUserID(r *http.Request) (int64, error) {
	if v := r.URL.Query().Get("user_id"); v != "" {
		return strconv.ParseInt(v, 10, 64)
	}
	if v := r.Header.Get("X-User-Id"); v != "" {
		return strconv.ParseInt(v, 10, 64)
	}
	return 0, strconv.ErrSyntax
}
