package models

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	TypeState    MessageType = "state"
	TypeRegister MessageType = "register"
	TypeDelete   MessageType = "delete"
	TypeSystem   MessageType = "system"
	TypeError    MessageType = "error"
)

// Packet is the base structure for all dashboard WebSocket communication
type Packet struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// StatePayload carries the re-rendered page fragments, keyed by element id
type StatePayload struct {
	Pending    string `json:"pending"`
	Users      string `json:"users"`
	Attendance string `json:"attendance"`
	Failure    string `json:"failure"`
}

// RegisterPayload sent by the browser
type RegisterPayload struct {
	Name string `json:"name"`
}

// DeletePayload sent by the browser
type DeletePayload struct {
	UID string `json:"uid"`
}
