package handle

import (
	"net/http"

	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/adapters/driven/ws"

	"github.com/gorilla/websocket"
)

type FeedHandler struct {
	feed     *ws.FeedManager
	upgrader websocket.Upgrader
	log      mylogger.Logger
}

func NewFeedHandler(feed *ws.FeedManager, log mylogger.Logger) *FeedHandler {
	return &FeedHandler{
		feed: feed,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// HandleFeed upgrades the connection and attaches it as a broadcast watcher.
// The feed is one-way; inbound frames are read only to notice the close.
func (fh *FeedHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := fh.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	detach := fh.feed.Register(conn)
	defer detach()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
