package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"windfarm-observer/src/analysis"
	"windfarm-observer/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Live update message types
const (
	UpdateInitial = "INITIAL"
	UpdateLive    = "UPDATE"
	UpdateError   = "ERROR"
)

// directMessage is a reply addressed to a single client
type directMessage struct {
	client  *Client
	message *models.MLiveUpdate
}

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop; it alone closes client send channels
func (s *FastAPIServer) handleWebsockets() {
	for {
		select {
		case <-s.done:
			s.clientsMu.Lock()
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			s.clientsMu.Unlock()
			wsConnections.Set(0)
			return

		case client := <-s.register:
			s.clientsMu.Lock()
			s.clients[client] = struct{}{}
			count := len(s.clients)
			s.clientsMu.Unlock()
			wsConnections.Set(float64(count))

			// Send initial state on connect
			if latest := s.LatestState(client.Range()); latest != nil {
				initial := *latest
				initial.Type = UpdateInitial
				s.trySend(client, &initial)
			}

		case client := <-s.unregister:
			s.removeClient(client)

		case direct := <-s.direct:
			s.clientsMu.RLock()
			_, ok := s.clients[direct.client]
			s.clientsMu.RUnlock()
			if ok {
				s.trySend(direct.client, direct.message)
			}

		case message := <-s.broadcast:
			// Failed computations are delivered but never replayed to new subscribers
			if message.Error == "" {
				s.stateMutex.Lock()
				s.latestState[message.Range] = message
				s.stateMutex.Unlock()
			}

			s.clientsMu.RLock()
			targets := make([]*Client, 0, len(s.clients))
			for client := range s.clients {
				if client.Range() == message.Range {
					targets = append(targets, client)
				}
			}
			s.clientsMu.RUnlock()

			for _, client := range targets {
				s.trySend(client, message)
			}
		}
	}
}

// -----------------------------------------------------------------------------

// trySend never blocks the hub; a client with a full buffer is dropped
func (s *FastAPIServer) trySend(client *Client, message *models.MLiveUpdate) {
	select {
	case client.send <- message:
	default:
		s.Logger.Warning("Client too slow, disconnecting")
		s.removeClient(client)
	}
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) removeClient(client *Client) {
	s.clientsMu.Lock()
	_, ok := s.clients[client]
	if ok {
		delete(s.clients, client)
		close(client.send)
	}
	count := len(s.clients)
	s.clientsMu.Unlock()
	wsConnections.Set(float64(count))
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast queues a live update for every client subscribed to its range
func (s *FastAPIServer) Broadcast(payload interface{}) {
	var update *models.MLiveUpdate
	switch p := payload.(type) {
	case *models.MLiveUpdate:
		update = p
	case models.MLiveUpdate:
		update = &p
	default:
		s.Logger.Warning("Broadcast expected *models.MLiveUpdate, got %T", payload)
		return
	}

	select {
	case s.broadcast <- update:
	case <-s.done:
	}
}

// -----------------------------------------------------------------------------

// LatestState returns the last broadcast update for a range, or nil
func (s *FastAPIServer) LatestState(rangeKey string) *models.MLiveUpdate {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.latestState[rangeKey]
}

// -----------------------------------------------------------------------------

// SubscribedRanges lists the ranges at least one client is watching
func (s *FastAPIServer) SubscribedRanges() []string {
	s.clientsMu.RLock()
	seen := make(map[string]bool)
	for client := range s.clients {
		seen[client.Range()] = true
	}
	s.clientsMu.RUnlock()

	var out []string
	for _, key := range analysis.RangeKeys() {
		if seen[key] {
			out = append(out, key)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) handleWebSocket(c *gin.Context) {
	rangeKey := c.DefaultQuery("range", s.liveRange())
	if _, err := analysis.ParseRange(rangeKey); err != nil {
		s.writeError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send:     make(chan *models.MLiveUpdate, 16),
		rangeKey: rangeKey,
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

func (s *FastAPIServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != "subscribe" {
		return
	}

	if _, err := analysis.ParseRange(cmd.Range); err != nil {
		s.reply(client, &models.MLiveUpdate{
			Type:      UpdateError,
			Range:     cmd.Range,
			Timestamp: time.Now().Unix(),
			Error:     err.Error(),
		})
		return
	}
	client.setRange(cmd.Range)

	response := s.LatestState(cmd.Range)
	if response == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		response = buildLiveUpdate(ctx, s.Dashboard, cmd.Range, UpdateInitial)
		cancel()
	} else {
		initial := *response
		initial.Type = UpdateInitial
		response = &initial
	}
	s.reply(client, response)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) reply(client *Client, message *models.MLiveUpdate) {
	select {
	case s.direct <- directMessage{client: client, message: message}:
	case <-s.done:
	}
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) liveRange() string {
	if s.Config.Live.Range != "" {
		return s.Config.Live.Range
	}
	return s.Dashboard.Facade.Settings.DefaultRange
}
