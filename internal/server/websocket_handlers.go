package server

import (
	"context"
	"log"

	"github.com/wan8ting/mystery-meet/internal/middleware"
	"github.com/wan8ting/mystery-meet/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// snapshotMessage is the frame sent to watch subscribers. Every frame is a
// complete view of the stream, never a delta.
type snapshotMessage struct {
	Stream string         `json:"stream"`
	Posts  []*models.Post `json:"posts"`
	Count  int            `json:"count"`
}

// WebSocketFeedHandler streams live snapshots of the public feed. No
// identity is required; the connection sees exactly what GET /api/posts
// would return at each change.
func (s *Server) WebSocketFeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		ctx, cancelCtx := context.WithCancel(context.Background())
		defer cancelCtx()

		ch, cancel, err := s.engine.WatchApproved(ctx)
		if err != nil {
			log.Printf("WebSocket feed: failed to subscribe: %v", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"subscription failed"}`))
			_ = conn.Close()
			return
		}
		defer cancel()

		s.streamSnapshots(conn, cancelCtx, "feed", ch)
	})
}

// WebSocketPendingHandler streams live snapshots of the moderation queue.
// AuthRequired and AdminRequired run before the upgrade, so only
// allow-listed moderators reach this handler.
func (s *Server) WebSocketPendingHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		email, _ := conn.Locals("adminEmail").(string)

		ctx, cancelCtx := context.WithCancel(context.Background())
		defer cancelCtx()

		ch, cancel, err := s.engine.WatchPending(ctx, email)
		if err != nil {
			log.Printf("WebSocket pending: failed to subscribe for %s: %v", email, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"subscription failed"}`))
			_ = conn.Close()
			return
		}
		defer cancel()

		s.streamSnapshots(conn, cancelCtx, "queue", ch)
	})
}

// streamSnapshots pumps snapshots to the socket until the subscription
// ends or the client goes away. A reader goroutine watches for the close
// frame since subscribers never send application data.
func (s *Server) streamSnapshots(conn *websocket.Conn, cancelCtx context.CancelFunc, stream string, ch <-chan []*models.Post) {
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancelCtx()
				return
			}
		}
	}()

	for snapshot := range ch {
		msg := snapshotMessage{
			Stream: stream,
			Posts:  snapshot,
			Count:  len(snapshot),
		}
		if msg.Posts == nil {
			msg.Posts = []*models.Post{}
		}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
