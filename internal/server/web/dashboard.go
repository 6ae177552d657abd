// Package web serves the attendance page to browsers. Every browser sees the
// same page: one controller, mirrored over websockets.
package web

import (
	"context"
	"log"
	"sync"

	"checkpoint/internal/format"
	"checkpoint/internal/home"
	"checkpoint/internal/models"
	"checkpoint/internal/server/websocket"
)

var (
	ErrNoCard      = home.ErrNoCard
	ErrNameMissing = home.ErrNameMissing
	ErrBusy        = home.ErrBusy
)

type Dashboard struct {
	ctrl      *home.Controller
	hub       *websocket.Hub
	formatter format.Formatter

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	latestMu sync.Mutex
	latest   []byte
}

func NewDashboard(backend home.Backend, opts home.Options, f format.Formatter) *Dashboard {
	d := &Dashboard{formatter: f}
	d.hub = websocket.NewHub(d)
	opts.OnChange = d.publish
	d.ctrl = home.New(backend, opts)
	return d
}

// Run serves browsers until ctx is done, then unmounts the page.
func (d *Dashboard) Run(ctx context.Context) {
	d.hub.Run(ctx)
	d.Unmount()
}

func (d *Dashboard) Hub() *websocket.Hub { return d.hub }

func (d *Dashboard) Controller() *home.Controller { return d.ctrl }

// publish renders the state once and sends it to every browser.
func (d *Dashboard) publish(s home.State) {
	data, err := d.encode(s)
	if err != nil {
		log.Printf("render state: %v", err)
		return
	}
	d.latestMu.Lock()
	d.latest = data
	d.latestMu.Unlock()
	d.hub.Broadcast(data)
}

func (d *Dashboard) encode(s home.State) ([]byte, error) {
	payload, err := Render(s, d.formatter)
	if err != nil {
		return nil, err
	}
	return websocket.Encode(models.TypeState, payload)
}

// Mount starts the poll loop; the hub calls it for the first browser.
func (d *Dashboard) Mount() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	d.ctx, d.cancel, d.done = ctx, cancel, done

	go func() {
		defer close(done)
		if err := d.ctrl.Run(ctx); err != nil {
			log.Printf("page controller: %v", err)
		}
	}()
	log.Println("Attendance page mounted")
}

// Unmount stops the poll loop and waits for it to finish.
func (d *Dashboard) Unmount() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.ctx, d.cancel, d.done = nil, nil, nil
	d.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Println("Attendance page unmounted")
}

func (d *Dashboard) Mounted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil
}

func (d *Dashboard) context() context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx != nil {
		return d.ctx
	}
	return context.Background()
}

func (d *Dashboard) Snapshot() []byte {
	d.latestMu.Lock()
	data := d.latest
	d.latestMu.Unlock()
	if data != nil {
		return data
	}
	data, err := d.encode(d.ctrl.Snapshot())
	if err != nil {
		log.Printf("render state: %v", err)
		return nil
	}
	return data
}

// Register names the detected card. Unlike the terminal, which never submits
// an unusable form, the browser is told why nothing happened.
func (d *Dashboard) Register(name string) error {
	return d.ctrl.RegisterAs(d.context(), name)
}

func (d *Dashboard) Delete(uid string) error {
	return d.ctrl.Delete(d.context(), uid)
}
