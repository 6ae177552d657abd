// Package devbackend is an in-memory stand-in for the attendance backend,
// used for local development and integration tests.
package devbackend

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"checkpoint/internal/models"
)

var (
	ErrInvalidUser   = errors.New("name and uid are required")
	ErrDuplicateUser = errors.New("uid is already registered")
	ErrUserNotFound  = errors.New("user not found")
)

type ScanKind string

const (
	ScanPending  ScanKind = "pending"
	ScanCheckIn  ScanKind = "check_in"
	ScanCheckOut ScanKind = "check_out"
)

type ScanResult struct {
	Kind   ScanKind                 `json:"kind"`
	Record *models.AttendanceRecord `json:"record,omitempty"`
}

type Store struct {
	mu      sync.Mutex
	users   []models.User
	records []models.AttendanceRecord
	pending string
	nextID  int
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{nextID: 1, now: time.Now}
}

func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User{}, s.users...)
}

func (s *Store) Attendance() []models.AttendanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AttendanceRecord{}, s.records...)
}

func (s *Store) Pending() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Store) AddUser(name, uid string) (models.User, error) {
	name = strings.TrimSpace(name)
	uid = strings.TrimSpace(uid)
	if name == "" || uid == "" {
		return models.User{}, ErrInvalidUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(uid) >= 0 {
		return models.User{}, ErrDuplicateUser
	}
	u := models.User{UID: uid, Name: name}
	s.users = append(s.users, u)
	if s.pending == uid {
		s.pending = ""
	}
	return u, nil
}

// DeleteUser removes the user; their attendance history is kept.
func (s *Store) DeleteUser(uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(uid)
	if i < 0 {
		return ErrUserNotFound
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	return nil
}

// Scan simulates a card being presented to the reader. Unknown cards become
// the pending uid; known cards check in, or check out their open record.
func (s *Store) Scan(uid string) ScanResult {
	uid = strings.TrimSpace(uid)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(uid)
	if i < 0 {
		s.pending = uid
		return ScanResult{Kind: ScanPending}
	}

	now := models.Timestamp{Time: s.now().UTC().Truncate(time.Second)}
	name := s.users[i].Name
	for j := len(s.records) - 1; j >= 0; j-- {
		r := &s.records[j]
		if r.Name == name && !r.CheckedOut() {
			r.CheckOut = &now
			out := *r
			return ScanResult{Kind: ScanCheckOut, Record: &out}
		}
	}

	rec := models.AttendanceRecord{
		ID:      models.RecordID(strconv.Itoa(s.nextID)),
		Name:    name,
		CheckIn: now,
	}
	s.nextID++
	s.records = append(s.records, rec)
	return ScanResult{Kind: ScanCheckIn, Record: &rec}
}

func (s *Store) indexOf(uid string) int {
	for i := range s.users {
		if s.users[i].UID == uid {
			return i
		}
	}
	return -1
}
