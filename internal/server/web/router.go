package web

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"checkpoint/internal/report"
	"checkpoint/internal/server/websocket"

	"github.com/gorilla/mux"
)

func NewRouter(d *Dashboard) *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/", d.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWs(d.hub, w, r)
	}).Methods(http.MethodGet)
	r.HandleFunc("/export/"+report.FileName, d.handleExport).Methods(http.MethodGet)
	r.HandleFunc("/health", d.handleHealth).Methods(http.MethodGet)

	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start).Truncate(time.Microsecond))
	})
}

func (d *Dashboard) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "page", index); err != nil {
		log.Printf("render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleExport sends the attendance on the page as a PDF download. With no
// browser connected nothing is polling, so attendance is fetched first.
func (d *Dashboard) handleExport(w http.ResponseWriter, r *http.Request) {
	if !d.Mounted() {
		if err := d.ctrl.LoadAttendance(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}

	rep := report.Build(d.ctrl.Snapshot().Attendance, d.formatter)
	var buf bytes.Buffer
	if err := rep.WritePDF(&buf); err != nil {
		log.Printf("export: %v", err)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName+`"`)
	w.Write(buf.Bytes())
}

type health struct {
	Status  string `json:"status"`
	Clients int    `json:"clients"`
	Mounted bool   `json:"mounted"`
}

func (d *Dashboard) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health{
		Status:  "ok",
		Clients: d.hub.Count(),
		Mounted: d.Mounted(),
	})
}
