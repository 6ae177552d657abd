package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"checkpoint/internal/client/storage"
	"checkpoint/internal/config"
	"checkpoint/internal/format"
	"checkpoint/internal/home"
	"checkpoint/internal/models"
	"checkpoint/internal/report"
	"checkpoint/internal/ui"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type state int

const (
	stateSetup state = iota
	stateSuccess
	stateMain
	stateSettings
)

type focus int

const (
	focusUsers focus = iota
	focusName
)

// opRefresh labels a manual reload.
const opRefresh = "refresh"

type actionDoneMsg struct {
	action string
	err    error
}

type exportedMsg struct {
	path string
	err  error
}

type model struct {
	state      state
	textInput  textinput.Model
	nameInput  textinput.Model
	cfg        *config.Config
	page       *page
	view       home.State
	formatter  format.Formatter
	focus      focus
	cursor     int
	status     string
	err        error
	startTime  time.Time
	successMsg string
	quitting   bool
	suspending bool

	journalToday int
	journalDays  int
}

func newModel(cfg *config.Config, initialized bool, backend home.Backend) model {
	ti := textinput.New()
	ti.Placeholder = "/home/example/Documents"
	ti.CharLimit = 156
	ti.Width = 50
	if cfg.WorkspacePath != "" {
		ti.SetValue(cfg.WorkspacePath)
	} else if dir, err := os.UserHomeDir(); err == nil {
		ti.SetValue(dir)
	}

	loc, _ := cfg.Location()

	m := model{
		startTime: time.Now(),
		cfg:       cfg,
		textInput: ti,
		nameInput: ui.NewInput("Enter name"),
		formatter: format.NewFormatter(cfg.Locale, loc),
		page: newPage(backend, home.Options{
			Interval: cfg.Interval(),
			Policy:   home.PolicyFor(cfg.PendingPolicy),
		}),
	}

	if !initialized {
		m.state = stateSetup
		m.textInput.Focus()
	} else {
		m.state = stateMain
	}

	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen}
	if m.state == stateSetup {
		cmds = append(cmds, textinput.Blink)
	} else {
		cmds = append(cmds, m.page.mount())
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.ResumeMsg:
		m.suspending = false
		return m, nil

	case stateMsg:
		detected := m.view.PendingUID == "" && msg.PendingUID != ""
		m.view = home.State(msg)
		switch {
		case detected && m.state == stateMain:
			m.setFocus(focusName)
		case m.view.PendingUID == "" && m.focus == focusName:
			m.setFocus(focusUsers)
		}
		if m.cursor >= len(m.view.Users) {
			m.cursor = max(len(m.view.Users)-1, 0)
		}
		return m, m.page.listen()

	case actionDoneMsg:
		if msg.err != nil {
			m.status = ""
			return m, nil
		}
		switch msg.action {
		case home.OpRegister:
			m.nameInput.SetValue("")
			m.status = "User registered"
		case home.OpDelete:
			m.status = "User deleted"
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = "Report saved to " + msg.path
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+z":
			m.suspending = true
			return m, tea.Suspend
		}

		switch m.state {
		case stateSetup, stateSettings:
			return m.updateSetup(msg)
		case stateSuccess:
			if msg.Type == tea.KeyEnter {
				m.state = stateMain
				m.startTime = time.Now()
				return m, m.page.mount()
			}
		case stateMain:
			return m.updateMain(msg)
		}

	case error:
		m.err = msg
		return m, nil
	}

	return m, cmd
}

func (m model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.state == stateSettings {
			m.state = stateMain
			m.textInput.Blur()
			return m, nil
		}
	case tea.KeyEnter:
		path := strings.TrimSpace(m.textInput.Value())
		if path == "" {
			m.err = fmt.Errorf("path cannot be empty")
			return m, nil
		}

		// Initialize structure
		if err := config.InitializeStructure(path); err != nil {
			m.err = err
			return m, nil
		}

		// Save config
		cfg := *m.cfg
		cfg.WorkspacePath = path
		if err := config.SaveConfig(&cfg); err != nil {
			m.err = err
			return m, nil
		}

		m.cfg = &cfg
		m.err = nil
		m.textInput.Blur()
		openLog(m.cfg)
		if m.state == stateSetup {
			m.successMsg = fmt.Sprintf("CheckPoint folder structure created at:\n%s", filepath.Join(path, "checkpoint"))
			m.state = stateSuccess
		} else {
			m.state = stateMain
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+e":
		return m, m.exportReport()
	case "tab", "shift+tab":
		if m.focus == focusName {
			m.setFocus(focusUsers)
		} else if m.view.PendingUID != "" {
			m.setFocus(focusName)
			return m, textinput.Blink
		}
		return m, nil
	}

	if m.focus == focusName {
		if msg.Type == tea.KeyEnter {
			ctrl, ctx := m.page.ctrl, m.page.ctx
			snap := ctrl.Snapshot()
			if !snap.CanRegister() {
				return m, nil
			}
			entry := models.JournalEntry{Action: home.OpRegister, UID: snap.PendingUID, Name: strings.TrimSpace(snap.NewUserName)}
			m.status = "Registering..."
			return m, m.run(home.OpRegister, func() error {
				if err := ctrl.Register(ctx); err != nil {
					return err
				}
				m.record(entry)
				return nil
			})
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		m.page.ctrl.SetName(m.nameInput.Value())
		return m, cmd
	}

	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "s":
		m.state = stateSettings
		m.loadJournalStats()
		m.textInput.SetValue(m.cfg.WorkspacePath)
		m.textInput.Focus()
		return m, textinput.Blink
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.view.Users)-1 {
			m.cursor++
		}
	case "d", "delete":
		if m.cursor < len(m.view.Users) {
			u := m.view.Users[m.cursor]
			ctrl, ctx := m.page.ctrl, m.page.ctx
			m.status = "Deleting " + u.UID + "..."
			return m, m.run(home.OpDelete, func() error {
				if err := ctrl.Delete(ctx, u.UID); err != nil {
					return err
				}
				m.record(models.JournalEntry{Action: home.OpDelete, UID: u.UID, Name: u.Name})
				return nil
			})
		}
	case "e":
		return m, m.exportReport()
	case "r":
		ctrl, ctx := m.page.ctrl, m.page.ctx
		return m, m.run(opRefresh, func() error {
			return ctrl.Refresh(ctx)
		})
	}
	return m, nil
}

func (m *model) setFocus(f focus) {
	m.focus = f
	if f == focusName {
		m.nameInput.Focus()
	} else {
		m.nameInput.Blur()
	}
}

// record appends e to the workspace journal. A journal failure only logs;
// the action itself already succeeded.
func (m model) record(e models.JournalEntry) {
	e.At = time.Now()
	if err := storage.AppendEntry(m.cfg.JournalDir(), e); err != nil {
		log.Printf("journal: %v", err)
	}
}

func (m *model) loadJournalStats() {
	dir := m.cfg.JournalDir()
	if entries, err := storage.LoadEntries(dir, time.Now()); err == nil {
		m.journalToday = len(entries)
	}
	if days, err := storage.ListDays(dir); err == nil {
		m.journalDays = len(days)
	}
}

func (m model) run(action string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: fn()}
	}
}

func (m model) exportReport() tea.Cmd {
	r := report.Build(m.view.Attendance, m.formatter)
	dir := m.cfg.ReportsDir()
	return func() tea.Msg {
		path, err := r.Save(dir)
		return exportedMsg{path: path, err: err}
	}
}

func (m model) View() string {
	if m.suspending {
		return ""
	}

	if m.quitting {
		return "Bye!\n"
	}

	var header, subHeader, body, footer string

	header = ui.HeaderStyle.Render(" CHECKPOINT — Smart Attendance System ") + "\n"

	switch m.state {
	case stateSetup:
		subHeader = ui.SubHeaderStyle.Render("First-time Setup Required") + "\n"

		content := ui.InfoKeyStyle.Render("Welcome.") + " To get started, please specify the path\nwhere reports and logs should be kept.\n\n"
		content += ui.InfoKeyStyle.Render("Base Path:") + "\n" + m.textInput.View()

		if m.err != nil {
			content += "\n\n" + ui.ErrorTextStyle.Render("✘ Error: "+m.err.Error())
		}

		body = ui.CardStyle.Render(content)
		footer = ui.FooterStyle.Render("▸ Enter: init • Ctrl+Z: suspend • Ctrl+C: exit")

	case stateSuccess:
		subHeader = ui.SubHeaderStyle.Render("Initialization Complete") + "\n"

		content := ui.SuccessStyle().Render("✓ SUCCESS!") + "\n\n"
		content += ui.InfoValueStyle.Render(m.successMsg)

		body = ui.CardStyle.Render(content)
		footer = ui.FooterStyle.Render("▸ Enter: start • Ctrl+Z: suspend")

	case stateMain:
		subHeader = ui.SubHeaderStyle.Render("Track and manage check-ins & check-outs in real time using RFID.") + "\n"
		body = m.viewMain()
		footer = ui.FooterStyle.Render("▸ Tab: switch focus • Enter: register • ↑/↓: select • d: delete • Ctrl+E: export PDF • s: settings • q: exit")

	case stateSettings:
		subHeader = ui.SubHeaderStyle.Render("Settings & Configuration") + "\n"

		content := ui.InfoKeyStyle.Render("Workspace Path:") + "\n" + m.textInput.View() + "\n\n"
		content += ui.InfoKeyStyle.Render("Backend") + ui.InfoValueStyle.Render(m.cfg.BackendURL) + "\n"
		content += ui.InfoKeyStyle.Render("Poll interval") + ui.InfoValueStyle.Render(m.cfg.Interval().String()) + "\n"
		content += ui.InfoKeyStyle.Render("Pending card") + ui.InfoValueStyle.Render(m.cfg.PendingPolicy) + "\n"
		content += ui.InfoKeyStyle.Render("Journal") + ui.InfoValueStyle.Render(fmt.Sprintf("%d actions today, %d days kept", m.journalToday, m.journalDays)) + "\n\n"
		content += ui.MutedStyle.Render("Updating the path re-initializes the folder structure\nat the new location.")

		if m.err != nil {
			content += "\n\n" + ui.ErrorTextStyle.Render("✘ Error: "+m.err.Error())
		}

		body = ui.CardStyle.Render(content)
		footer = ui.FooterStyle.Render("▸ Enter: save • Esc: back")
	}

	return fmt.Sprintf("%s%s%s\n%s", header, subHeader, body, footer)
}

func (m model) viewMain() string {
	var b strings.Builder

	// Add New User
	register := ui.SectionTitleStyle.Render("Add New User") + "\n"
	if m.view.PendingUID != "" {
		label := "Register"
		if m.view.Loading {
			label = "Registering..."
		}
		disabled := m.view.Loading || strings.TrimSpace(m.nameInput.Value()) == ""
		register += ui.Input(m.nameInput) + "  " + ui.Button(label, disabled, m.focus == focusName) + "\n"
		register += ui.InfoKeyStyle.Render("Detected Card:") + ui.InfoValueStyle.Render(m.view.PendingUID)
	} else {
		register += ui.MutedStyle.Render("Waiting for new card scan...")
	}
	b.WriteString(m.card(register, m.focus == focusName))

	// Registered Users
	users := ui.SectionTitleStyle.Render("Registered Users") + "\n"
	if len(m.view.Users) == 0 {
		users += ui.MutedStyle.Render("No registered users")
	}
	for i, u := range m.view.Users {
		line := fmt.Sprintf("%s — %s", u.Name, ui.MutedStyle.Render(u.UID))
		if i == m.cursor && m.focus == focusUsers {
			line = ui.SelectedStyle.Render("▸ "+u.Name) + " — " + ui.MutedStyle.Render(u.UID) + "  " + ui.Button("Delete", false, true)
		} else {
			line = "  " + line
		}
		if i > 0 {
			users += "\n"
		}
		users += line
	}
	b.WriteString(m.card(users, m.focus == focusUsers))

	// Attendance Log
	attendance := ui.SectionTitleStyle.Render("Attendance Log") + "  " + ui.Button("Export PDF", false, false) + "\n"
	attendance += ui.Table(format.Rows(m.view.Attendance, m.formatter))
	b.WriteString(m.card(attendance, false))

	if f := m.view.Failure; f != nil {
		b.WriteString("\n" + ui.ErrorTextStyle.Render("✘ Error: "+f.Error()))
	}
	if m.err != nil {
		b.WriteString("\n" + ui.ErrorTextStyle.Render("✘ Error: "+m.err.Error()))
	}
	if m.status != "" {
		b.WriteString("\n" + ui.MutedStyle.PaddingLeft(2).Render(m.status))
	}
	return b.String()
}

func (m model) card(content string, active bool) string {
	if active {
		return ui.ActiveCardStyle.Render(content) + "\n"
	}
	return ui.CardStyle.Render(content) + "\n"
}
