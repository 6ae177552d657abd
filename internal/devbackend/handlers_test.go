package devbackend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"checkpoint/internal/models"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := NewStore()
	store.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }
	return NewRouter(store), store
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScan_UnknownCardBecomesPending(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, http.MethodPost, "/api/scan", `{"uid":"04A1B2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("scan: expected 200, got %d", w.Code)
	}

	w = serve(r, http.MethodGet, "/api/users/pending", "")
	var card models.PendingCard
	if err := json.Unmarshal(w.Body.Bytes(), &card); err != nil {
		t.Fatalf("decode pending: %v", err)
	}
	if card.UID != "04A1B2" {
		t.Errorf("expected pending uid 04A1B2, got %q", card.UID)
	}
}

func TestRegister_ClearsPendingAndListsUser(t *testing.T) {
	r, store := newTestRouter(t)
	store.Scan("04A1B2")

	w := serve(r, http.MethodPost, "/api/users", `{"name":"Ana","uid":"04A1B2"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if store.Pending() != "" {
		t.Errorf("registering the pending card must clear it, still %q", store.Pending())
	}

	w = serve(r, http.MethodPost, "/api/users", `{"name":"Ana again","uid":"04A1B2"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate uid: expected 409, got %d", w.Code)
	}

	w = serve(r, http.MethodGet, "/api/users", "")
	var users []models.User
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 1 || users[0].Name != "Ana" {
		t.Errorf("unexpected users: %+v", users)
	}
}

func TestScan_KnownCardTogglesAttendance(t *testing.T) {
	r, store := newTestRouter(t)
	if _, err := store.AddUser("Ana", "04A1B2"); err != nil {
		t.Fatalf("AddUser: %v", err)
	}

	if res := store.Scan("04A1B2"); res.Kind != ScanCheckIn {
		t.Fatalf("first scan: expected check_in, got %s", res.Kind)
	}
	if res := store.Scan("04A1B2"); res.Kind != ScanCheckOut {
		t.Fatalf("second scan: expected check_out, got %s", res.Kind)
	}

	w := serve(r, http.MethodGet, "/api/attendance", "")
	var records []models.AttendanceRecord
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode attendance: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if !records[0].CheckedOut() {
		t.Error("record should be checked out after the second scan")
	}
}

func TestDeleteUser_KeepsHistory(t *testing.T) {
	r, store := newTestRouter(t)
	store.AddUser("Ana", "04A1B2")
	store.Scan("04A1B2")

	w := serve(r, http.MethodDelete, "/api/users/04A1B2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	if len(store.Users()) != 0 {
		t.Errorf("user should be gone, got %+v", store.Users())
	}
	if len(store.Attendance()) != 1 {
		t.Errorf("attendance history should be kept, got %d records", len(store.Attendance()))
	}

	w = serve(r, http.MethodDelete, "/api/users/04A1B2", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", w.Code)
	}
}
