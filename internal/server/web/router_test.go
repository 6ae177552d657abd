package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"checkpoint/internal/client/api"
	"checkpoint/internal/devbackend"
	"checkpoint/internal/format"
	"checkpoint/internal/home"
	"checkpoint/internal/models"
	"checkpoint/internal/server/websocket"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
)

func newTestDashboard(t *testing.T) (*httptest.Server, *devbackend.Store, *Dashboard) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := devbackend.NewStore()
	backend := httptest.NewServer(devbackend.NewRouter(store))
	t.Cleanup(backend.Close)

	client := api.NewClient(backend.URL, 2*time.Second)
	d := NewDashboard(client, home.Options{Interval: 10 * time.Millisecond}, format.NewFormatter("en_US", time.UTC))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(ctx)
	}()

	srv := httptest.NewServer(NewRouter(d))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return srv, store, d
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// readUntil reads packets until match accepts one.
func readUntil(t *testing.T, conn *gorilla.Conn, match func(models.Packet) bool) models.Packet {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			var p models.Packet
			if err := json.Unmarshal([]byte(line), &p); err != nil {
				t.Fatalf("bad packet %q: %v", line, err)
			}
			if match(p) {
				return p
			}
		}
	}
}

func stateWith(field func(models.StatePayload) string, substr string) func(models.Packet) bool {
	return func(p models.Packet) bool {
		if p.Type != models.TypeState {
			return false
		}
		var s models.StatePayload
		if err := json.Unmarshal(p.Payload, &s); err != nil {
			return false
		}
		return strings.Contains(field(s), substr)
	}
}

func pending(s models.StatePayload) string { return s.Pending }
func users(s models.StatePayload) string   { return s.Users }

func TestRender_Fragments(t *testing.T) {
	f := format.NewFormatter("en_US", time.UTC)

	empty, err := Render(home.State{}, f)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(empty.Pending, "Waiting for new card scan...") {
		t.Errorf("pending: %s", empty.Pending)
	}
	if !strings.Contains(empty.Users, "No registered users") {
		t.Errorf("users: %s", empty.Users)
	}
	if strings.Contains(empty.Attendance, "<td>") {
		t.Errorf("attendance should have no rows: %s", empty.Attendance)
	}
	if empty.Failure != "" {
		t.Errorf("failure should be empty, got %s", empty.Failure)
	}

	in, _ := models.ParseTimestamp("2024-01-01T09:05:00Z")
	full, err := Render(home.State{
		PendingUID: "04A1B2",
		Loading:    true,
		Users:      []models.User{{UID: "A", Name: "<b>Ana</b>"}},
		Attendance: []models.AttendanceRecord{{ID: "1", Name: "Ana", CheckIn: in}},
		Failure:    &home.Failure{Op: home.OpLoadUsers, Err: errors.New("boom")},
	}, f)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(full.Pending, `data-uid="04A1B2"`) || !strings.Contains(full.Pending, "data-loading") {
		t.Errorf("pending: %s", full.Pending)
	}
	if !strings.Contains(full.Users, `data-delete="A"`) {
		t.Errorf("users: %s", full.Users)
	}
	if strings.Contains(full.Users, "<b>Ana</b>") {
		t.Error("user names must be escaped")
	}
	if !strings.Contains(full.Attendance, "Mon, 1 Jan, 09:05 AM") || !strings.Contains(full.Attendance, format.Placeholder) {
		t.Errorf("attendance: %s", full.Attendance)
	}
	if !strings.Contains(full.Failure, "load users: boom") {
		t.Errorf("failure: %s", full.Failure)
	}
}

func TestRouter_IndexAndHealth(t *testing.T) {
	srv, _, _ := newTestDashboard(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Attendance Log") {
		t.Errorf("index: %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var h health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.Clients != 0 || h.Mounted {
		t.Errorf("unexpected health %+v", h)
	}
}

func TestRouter_ExportWithoutBrowser(t *testing.T) {
	srv, store, _ := newTestDashboard(t)
	if _, err := store.AddUser("Ana", "A"); err != nil {
		t.Fatal(err)
	}
	store.Scan("A")

	resp, err := http.Get(srv.URL + "/export/attendance-report.pdf")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export: %d %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "attendance-report.pdf") {
		t.Errorf("content disposition %q", cd)
	}
	if !strings.HasPrefix(string(body), "%PDF") {
		t.Error("body is not a PDF")
	}
}

func TestDashboard_RegisterFromBrowser(t *testing.T) {
	srv, store, d := newTestDashboard(t)

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	readUntil(t, conn, stateWith(pending, "Waiting for new card scan..."))
	if !d.Mounted() {
		t.Fatal("first browser should mount the page")
	}

	store.Scan("CARD-1")
	readUntil(t, conn, stateWith(pending, `data-uid="CARD-1"`))

	data, _ := websocket.Encode(models.TypeRegister, models.RegisterPayload{Name: "Ana"})
	if err := conn.WriteMessage(gorilla.TextMessage, data); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, func(p models.Packet) bool { return p.Type == models.TypeSystem })
	readUntil(t, conn, stateWith(users, "Ana"))

	if got := store.Users(); len(got) != 1 || got[0].UID != "CARD-1" {
		t.Errorf("unexpected users %+v", got)
	}
	if store.Pending() != "" {
		t.Error("registration should clear the pending card")
	}

	conn.Close()
	waitFor(t, func() bool { return !d.Mounted() })
}

func TestDashboard_RegisterWithoutCardIsRejected(t *testing.T) {
	srv, store, _ := newTestDashboard(t)

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	readUntil(t, conn, func(p models.Packet) bool { return p.Type == models.TypeState })

	data, _ := websocket.Encode(models.TypeRegister, models.RegisterPayload{Name: "Ana"})
	if err := conn.WriteMessage(gorilla.TextMessage, data); err != nil {
		t.Fatal(err)
	}
	p := readUntil(t, conn, func(p models.Packet) bool { return p.Type == models.TypeError })
	if !strings.Contains(string(p.Payload), ErrNoCard.Error()) {
		t.Errorf("unexpected error %s", p.Payload)
	}
	if len(store.Users()) != 0 {
		t.Error("no user should be created")
	}
}

func TestDashboard_ConcurrentRegisterCreatesOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := devbackend.NewStore()
	router := devbackend.NewRouter(store)
	release := make(chan struct{})
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/users" {
			<-release
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(backend.Close)

	d := NewDashboard(api.NewClient(backend.URL, 2*time.Second), home.Options{}, format.NewFormatter("en_US", time.UTC))
	store.Scan("CARD-1")
	d.Controller().PollPending(context.Background())

	errs := make(chan error, 2)
	for _, name := range []string{"Ana", "Omar"} {
		go func(name string) { errs <- d.Register(name) }(name)
	}

	if err := <-errs; !errors.Is(err, ErrBusy) {
		t.Fatalf("expected the second browser to get ErrBusy, got %v", err)
	}
	close(release)
	if err := <-errs; err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	if got := store.Users(); len(got) != 1 || got[0].UID != "CARD-1" {
		t.Errorf("expected exactly one user for CARD-1, got %+v", got)
	}
}
