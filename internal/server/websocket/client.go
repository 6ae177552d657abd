package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"checkpoint/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	ID  uuid.UUID
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte
}

func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, msgData, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var packet models.Packet
		if err := json.Unmarshal(msgData, &packet); err != nil {
			c.sendError("Malformed packet")
			continue
		}

		switch packet.Type {
		case models.TypeRegister:
			var p models.RegisterPayload
			if err := json.Unmarshal(packet.Payload, &p); err != nil {
				c.sendError("Invalid register payload")
				continue
			}
			if err := c.Hub.handler.Register(p.Name); err != nil {
				c.sendError(err.Error())
				continue
			}
			c.sendSystem("User registered")

		case models.TypeDelete:
			var p models.DeletePayload
			if err := json.Unmarshal(packet.Payload, &p); err != nil || p.UID == "" {
				c.sendError("Invalid delete payload")
				continue
			}
			if err := c.Hub.handler.Delete(p.UID); err != nil {
				c.sendError(err.Error())
				continue
			}
			c.sendSystem("User deleted")

		default:
			c.sendError("Unknown packet type: " + string(packet.Type))
		}
	}
}

func (c *Client) sendError(msg string) {
	c.queue(EncodeText(models.TypeError, msg))
}

func (c *Client) sendSystem(msg string) {
	c.queue(EncodeText(models.TypeSystem, msg))
}

// queue never blocks; a full buffer drops the packet.
func (c *Client) queue(data []byte) {
	if data == nil {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("Dropping packet for slow client %s", c.ID)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Queued packets share a frame, one per line.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.Hub.done:
			return
		}
	}
}

// Encode wraps payload in a timestamped packet.
func Encode(t models.MessageType, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(models.Packet{
		Type:      t,
		Payload:   raw,
		Timestamp: time.Now(),
	})
}

// EncodeText is Encode for a plain string payload.
func EncodeText(t models.MessageType, msg string) []byte {
	data, _ := Encode(t, msg)
	return data
}

func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	client := &Client{
		ID:   uuid.New(),
		Hub:  hub,
		Conn: conn,
		send: make(chan []byte, 256),
	}

	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
