package models

import "time"

// JournalEntry is one register or delete made from this desk.
type JournalEntry struct {
	Action string    `json:"action"`
	UID    string    `json:"uid"`
	Name   string    `json:"name,omitempty"`
	At     time.Time `json:"at"`
}
