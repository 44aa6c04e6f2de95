package socket

import (
	"context"
	"log"

	"blink_server/services"
	"blink_server/session"

	socketio "github.com/googollee/go-socket.io"
)

// broadcastRoom is joined by every connection for presence fan-out.
const broadcastRoom = "broadcast"

type joinMessage struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

type decisionMessage struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	Decision  string `json:"decision"`
}

type skipMessage struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

type leaveMessage struct {
	SessionID string `json:"sessionId"`
}

type helperMessage struct {
	SessionID string `json:"sessionId"`
	Category  string `json:"category"`
}

type signalMessage struct {
	ToUserID string      `json:"toUserId"`
	Payload  interface{} `json:"payload"`
}

type signalDelivery struct {
	FromUserID string      `json:"fromUserId"`
	Payload    interface{} `json:"payload"`
}

type presenceChange struct {
	UserID   string `json:"userId"`
	IsOnline bool   `json:"isOnline"`
}

type errorMessage struct {
	Message string `json:"message"`
}

// NewServer initializes a Socket.IO server.
func NewServer() *socketio.Server {
	return socketio.NewServer(nil)
}

// RoomBroadcaster adapts the socket.io server to session.Broadcaster.
type RoomBroadcaster struct {
	Server *socketio.Server
}

func (b *RoomBroadcaster) BroadcastToRoom(room, event string, args ...interface{}) {
	b.Server.BroadcastToRoom("/", room, event, args...)
}

// RegisterHandlers wires the realtime event surface onto the coordinator,
// the signaling relay and the profile store.
func RegisterHandlers(server *socketio.Server, coordinator *session.Coordinator, relay *session.Relay, profiles *services.UserProfileService) {
	server.OnConnect("/", func(s socketio.Conn) error {
		log.Println("socket connected:", s.ID())
		s.Join(broadcastRoom)
		return nil
	})

	server.OnEvent("/", "presence:online", func(s socketio.Conn, userID string) {
		if userID == "" {
			return
		}
		relay.Bind(userID, s)
		s.SetContext(userID)

		if err := profiles.SetOnlineStatus(context.Background(), userID, true); err != nil {
			log.Printf("failed to set %s online: %v", userID, err)
		}
		server.BroadcastToRoom("/", broadcastRoom, "presence:changed", presenceChange{UserID: userID, IsOnline: true})
	})

	server.OnEvent("/", "session:join", func(s socketio.Conn, msg joinMessage) {
		if msg.SessionID == "" || msg.UserID == "" {
			log.Println("invalid session:join payload")
			return
		}
		s.Join(session.Room(msg.SessionID))
		if _, err := coordinator.Join(context.Background(), msg.SessionID, msg.UserID); err != nil {
			log.Printf("join %s failed for %s: %v", msg.SessionID, msg.UserID, err)
			s.Leave(session.Room(msg.SessionID))
			s.Emit("session:error", errorMessage{Message: err.Error()})
			return
		}
		s.Emit("session:joined", session.SessionPayload{SessionID: msg.SessionID})
	})

	server.OnEvent("/", "decision:submit", func(s socketio.Conn, msg decisionMessage) {
		if _, err := coordinator.SubmitDecision(context.Background(), msg.SessionID, msg.UserID, msg.Decision); err != nil {
			log.Printf("decision for %s failed: %v", msg.SessionID, err)
			s.Emit("session:error", errorMessage{Message: err.Error()})
		}
	})

	server.OnEvent("/", "session:skip", func(s socketio.Conn, msg skipMessage) {
		if _, err := coordinator.Skip(context.Background(), msg.SessionID, msg.UserID); err != nil {
			log.Printf("skip for %s failed: %v", msg.SessionID, err)
			s.Emit("session:error", errorMessage{Message: err.Error()})
			return
		}
		// The skipper gets the event on their own channel too, in case the
		// other participant never joined the room.
		s.Emit(session.EventSessionSkipped, session.SkippedPayload{SessionID: msg.SessionID, SkippedBy: msg.UserID})
	})

	server.OnEvent("/", "session:leave", func(s socketio.Conn, msg leaveMessage) {
		userID, _ := s.Context().(string)
		s.Leave(session.Room(msg.SessionID))
		coordinator.Leave(msg.SessionID, userID)
	})

	server.OnEvent("/", "helper:request", func(s socketio.Conn, msg helperMessage) {
		coordinator.RequestHelper(msg.SessionID, msg.Category)
	})

	relaySignal := func(event string) func(socketio.Conn, signalMessage) {
		return func(s socketio.Conn, msg signalMessage) {
			fromUserID, _ := s.Context().(string)
			relay.Forward(msg.ToUserID, event, signalDelivery{FromUserID: fromUserID, Payload: msg.Payload})
		}
	}
	server.OnEvent("/", "signal:offer", relaySignal("signal:offer"))
	server.OnEvent("/", "signal:answer", relaySignal("signal:answer"))
	server.OnEvent("/", "signal:iceCandidate", relaySignal("signal:iceCandidate"))

	server.OnError("/", func(s socketio.Conn, e error) {
		log.Println("socket error:", e)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Println("socket disconnected:", s.ID(), reason)
		userID, _ := s.Context().(string)
		if userID == "" {
			return
		}
		relay.Unbind(userID)
		if err := profiles.SetOnlineStatus(context.Background(), userID, false); err != nil {
			log.Printf("failed to set %s offline: %v", userID, err)
		}
		server.BroadcastToRoom("/", broadcastRoom, "presence:changed", presenceChange{UserID: userID, IsOnline: false})
	})
}
