package socket

import (
	"context"
	"log"

	"amora_server/services"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes the Socket.IO server. Each client registers
// with its user id, joins a private room and is tracked as online until it
// disconnects.
func NewSocketServer(presence *services.PresenceService) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "register", func(c socketio.Conn, data map[string]string) {
		userID := data["userId"]
		if userID == "" {
			log.Println("❌ Invalid userId in register request")
			return
		}
		c.SetContext(userID)
		c.Join(userRoom(userID))
		if presence != nil {
			presence.SetOnline(context.Background(), userID)
		}
		log.Printf("👥 User %s registered on socket %s\n", userID, c.ID())
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		if userID, ok := c.Context().(string); ok && userID != "" {
			if presence != nil {
				presence.SetOffline(context.Background(), userID)
			}
			log.Printf("❌ User %s disconnected: %s\n", userID, reason)
			return
		}
		log.Println("❌ Socket disconnected:", c.ID())
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("⚠️ Socket error:", err)
	})

	return server
}

func userRoom(userID string) string {
	return "user:" + userID
}

// Broadcaster pushes events to a user's private room. It implements
// services.Publisher.
type Broadcaster struct {
	Server *socketio.Server
}

// Publish emits an event to every socket the user has registered. A user
// with no live socket simply receives nothing.
func (b *Broadcaster) Publish(userID, event string, payload interface{}) {
	b.Server.BroadcastToRoom("/", userRoom(userID), event, payload)
}
