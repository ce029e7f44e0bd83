package ws

import (
	"sync"

	"bus-track/internal/mylogger"
	ports "bus-track/internal/tracking-service/core/ports/driven"

	"github.com/gorilla/websocket"
)

// sendBuffer is the per-watcher queue depth; a watcher that falls this far
// behind is dropped instead of stalling the broadcaster.
const sendBuffer = 32

type FeedManager struct {
	log      mylogger.Logger
	watchers map[*watcher]struct{}
	mu       sync.RWMutex
}

type watcher struct {
	conn *websocket.Conn
	send chan []byte
}

var _ ports.IFeed = (*FeedManager)(nil)

func NewFeedManager(log mylogger.Logger) *FeedManager {
	return &FeedManager{
		log:      log,
		watchers: make(map[*watcher]struct{}),
	}
}

// Register takes ownership of conn and starts its writer loop. The returned
// detach func removes the watcher and closes the connection; calling it more
// than once is fine.
func (m *FeedManager) Register(conn *websocket.Conn) (detach func()) {
	w := &watcher{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	m.mu.Lock()
	m.watchers[w] = struct{}{}
	m.mu.Unlock()

	go func() {
		for msg := range w.send {
			if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				m.unregister(w)
				return
			}
		}
	}()
	return func() { m.unregister(w) }
}

func (m *FeedManager) Broadcast(msg []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for w := range m.watchers {
		select {
		case w.send <- msg:
		default:
			m.log.Action("broadcast").Warn("dropping slow feed watcher")
			go m.unregister(w)
		}
	}
}

func (m *FeedManager) WatcherCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.watchers)
}

func (m *FeedManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for w := range m.watchers {
		close(w.send)
		w.conn.Close()
		delete(m.watchers, w)
	}
}

func (m *FeedManager) unregister(w *watcher) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.watchers[w]; exists {
		delete(m.watchers, w)
		close(w.send)
		w.conn.Close()
	}
}
