package models

// User is a registered card holder. UID is the card identifier and the natural key.
type User struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

// PendingCard is the body of GET /api/users/pending. UID is empty when no
// unregistered card is in front of the reader.
type PendingCard struct {
	UID string `json:"uid,omitempty"`
}

// NewUserRequest is the body of POST /api/users.
type NewUserRequest struct {
	Name string `json:"name"`
	UID  string `json:"uid"`
}
