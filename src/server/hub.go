package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"stock-trend/src/models"
	"stock-trend/src/presentation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Message types written to websocket clients
const (
	TypeReferenceDate = "REFERENCE_DATE"
	TypeChart         = "CHART"
	TypeFigure        = "FIGURE"
	TypeRange         = "RANGE"
	TypeError         = "ERROR"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// runHub owns the client set. New clients get the current reference date.
func (s *APIServer) runHub() {
	for {
		select {
		case <-s.quit:
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			s.connections.Store(0)
			return

		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.connections.Store(int64(len(s.clients)))
			client.send <- s.referenceDateMessage(s.Facade.Clock.Today())

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				s.connections.Store(int64(len(s.clients)))
			}

		case d := <-s.direct:
			if _, ok := s.clients[d.client]; !ok {
				s.Logger.Debug("Dropping %s for departed client %s", d.msg.Type, d.client.ID)
				continue
			}
			select {
			case d.client.send <- d.msg:
			default:
				s.Logger.Warning("Client %s send buffer full, dropping %s", d.client.ID, d.msg.Type)
			}

		case message := <-s.broadcast:
			for client := range s.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer
					delete(s.clients, client)
					close(client.send)
				}
			}
			s.connections.Store(int64(len(s.clients)))
		}
	}
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast queues a message for every client. A time.Time is sent as a
// REFERENCE_DATE notification.
func (s *APIServer) Broadcast(payload interface{}) {
	var msg *models.MSocketMessage
	switch p := payload.(type) {
	case time.Time:
		msg = s.referenceDateMessage(p)
	case *models.MSocketMessage:
		msg = p
	case models.MSocketMessage:
		msg = &p
	default:
		s.Logger.Warning("Broadcast got unsupported payload %T", payload)
		return
	}

	select {
	case s.broadcast <- msg:
	case <-s.quit:
	}
}

// -----------------------------------------------------------------------------

func (s *APIServer) referenceDateMessage(today time.Time) *models.MSocketMessage {
	return &models.MSocketMessage{Type: TypeReferenceDate, Date: today.Format(models.DateLayout)}
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

func (s *APIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		ID:   uuid.NewString(),
		hub:  s,
		conn: conn,
		send: make(chan *models.MSocketMessage, 64),
	}

	select {
	case s.register <- client:
	case <-s.quit:
		conn.Close()
		return
	}
	s.Logger.Debug("Client %s connected from %s", client.ID, c.ClientIP())

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage answers one command on the sending client only
func (s *APIServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MChartCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		client.reply(&models.MSocketMessage{Type: TypeError, Error: "malformed command"})
		return
	}

	reply, err := s.execute(cmd)
	if err != nil {
		s.Logger.Info("Command %q from %s failed: %v", cmd.Command, client.ID, err)
		reply = &models.MSocketMessage{Type: TypeError, Error: err.Error()}
	}
	reply.RequestID = cmd.RequestID
	client.reply(reply)
}

// -----------------------------------------------------------------------------

func (s *APIServer) execute(cmd models.MChartCommand) (reply *models.MSocketMessage, err error) {
	defer s.Errors.Recover("websocket command "+cmd.Command, &err)

	switch cmd.Command {
	case "range":
		var r models.MRangeResponse
		if cmd.Preset != "" {
			r, err = s.Facade.RangeForPreset(cmd.Preset)
		} else {
			r, err = s.Facade.RangeForActivations(cmd.Activations)
		}
		if err != nil {
			return nil, err
		}
		return &models.MSocketMessage{Type: TypeRange, Range: &r}, nil

	case "chart", "figure":
		req, err := s.Facade.NewRequest(cmd.Symbol, cmd.Source, cmd.Start, cmd.End)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		chart, err := s.Facade.BuildChart(ctx, req)
		if err != nil {
			return nil, err
		}
		notice := presentation.NoticeFor(chart)
		if cmd.Command == "chart" {
			return &models.MSocketMessage{Type: TypeChart, Chart: chart, Notice: &notice}, nil
		}
		fig := presentation.BuildFigure(chart, s.Config.Chart.Height)
		return &models.MSocketMessage{Type: TypeFigure, Figure: &fig, Notice: &notice}, nil

	default:
		return &models.MSocketMessage{Type: TypeError, Error: "unknown command " + cmd.Command}, nil
	}
}
