package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"checkpoint/internal/client/api"
	"checkpoint/internal/config"
	"checkpoint/internal/format"
	"checkpoint/internal/home"
	"checkpoint/internal/server/web"
	"checkpoint/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var statusLabelStyle = lipgloss.NewStyle().
	Bold(true).
	Padding(0, 1).
	MarginRight(2)

type errMsg error

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	cfg       *config.Config
	dashboard *web.Dashboard
	err       error
	startTime time.Time
	tick      int
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tickMsg:
		m.tick++
		return m, tick()

	case errMsg:
		m.err = msg
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	header := ui.HeaderStyle.Render(" CHECKPOINT DASHBOARD ") + "\n"
	subHeader := ui.SubHeaderStyle.Render("Attendance page for every browser on the network") + "\n"

	var status string
	if m.err != nil {
		status = fmt.Sprintf("%s\n\n%s",
			statusLabelStyle.Background(ui.ErrorCol).Foreground(lipgloss.Color("#FFFFFF")).Render(" FATAL ERROR "),
			ui.ErrorTextStyle.Render(m.err.Error()))
	} else {
		onlineTag := " ONLINE "
		if m.tick%2 == 0 {
			onlineTag = " • ONLINE "
		}
		page := "idle"
		if m.dashboard.Mounted() {
			page = "polling every " + m.cfg.Interval().String()
		}

		status = fmt.Sprintf("%s\n\n%s %s\n%s %s\n%s %s\n%s %s\n%s %s",
			statusLabelStyle.Background(ui.Success).Foreground(lipgloss.Color("#000000")).Render(onlineTag),
			ui.InfoKeyStyle.Render("Address"), ui.InfoValueStyle.Render(m.cfg.DashboardAddr),
			ui.InfoKeyStyle.Render("Backend"), ui.InfoValueStyle.Render(m.cfg.BackendURL),
			ui.InfoKeyStyle.Render("Browsers"), ui.InfoValueStyle.Render(fmt.Sprint(m.dashboard.Hub().Count())),
			ui.InfoKeyStyle.Render("Page"), ui.InfoValueStyle.Render(page),
			ui.InfoKeyStyle.Render("Uptime"), ui.InfoValueStyle.Foreground(ui.Secondary).Render(time.Since(m.startTime).Truncate(time.Second).String()),
		)
	}

	body := ui.CardStyle.Render(status)
	footer := ui.FooterStyle.Render("▸ Press 'q' to gracefully shutdown")

	return fmt.Sprintf("%s%s%s\n%s", header, subHeader, body, footer)
}

func main() {
	saved, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg := saved
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}

	log.SetOutput(io.Discard)
	if cfg.WorkspacePath != "" && os.MkdirAll(cfg.LogsDir(), 0755) == nil {
		if f, err := tea.LogToFile(filepath.Join(cfg.LogsDir(), "dashboard.log"), "dashboard"); err == nil {
			defer f.Close()
		}
	}

	loc, _ := cfg.Location()
	client := api.NewClient(cfg.BackendURL, cfg.Timeout())
	dashboard := web.NewDashboard(client, home.Options{
		Interval: cfg.Interval(),
		Policy:   home.PolicyFor(cfg.PendingPolicy),
	}, format.NewFormatter(cfg.Locale, loc))

	ctx, cancel := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		dashboard.Run(ctx)
	}()

	srv := &http.Server{
		Addr:              cfg.DashboardAddr,
		Handler:           web.NewRouter(dashboard),
		ReadHeaderTimeout: 10 * time.Second,
	}

	p := tea.NewProgram(model{cfg: cfg, dashboard: dashboard, startTime: time.Now()})
	go func() {
		log.Printf("Dashboard listening on %s", cfg.DashboardAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("listen: %v", err)
			p.Send(errMsg(err))
		}
	}()

	_, runErr := p.Run()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	cancel()
	<-hubDone

	if runErr != nil {
		fmt.Printf("Error: %v", runErr)
		os.Exit(1)
	}
}
