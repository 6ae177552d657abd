package main

import (
	"context"
	"log"

	"checkpoint/internal/home"

	tea "github.com/charmbracelet/bubbletea"
)

type stateMsg home.State

// page ties the controller's lifetime to the console: mount starts the poll
// loop, unmount cancels it and waits until it has stopped.
type page struct {
	ctrl    *home.Controller
	updates chan home.State

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newPage(backend home.Backend, opts home.Options) *page {
	p := &page{updates: make(chan home.State, 1)}
	opts.OnChange = p.publish
	p.ctrl = home.New(backend, opts)
	p.ctx = context.Background()
	return p
}

// publish keeps only the newest state in the channel.
func (p *page) publish(s home.State) {
	for {
		select {
		case p.updates <- s:
			return
		default:
			select {
			case <-p.updates:
			default:
			}
		}
	}
}

func (p *page) listen() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-p.updates)
	}
}

func (p *page) mounted() bool { return p.cancel != nil }

func (p *page) mount() tea.Cmd {
	if p.mounted() {
		return nil
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.done = make(chan struct{})

	ctx, done := p.ctx, p.done
	go func() {
		defer close(done)
		if err := p.ctrl.Run(ctx); err != nil {
			log.Printf("page controller: %v", err)
		}
	}()
	return p.listen()
}

func (p *page) unmount() {
	if !p.mounted() {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
}
