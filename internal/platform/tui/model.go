package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ballsim/ballsim/internal/config"
	"github.com/ballsim/ballsim/internal/core"
	"github.com/ballsim/ballsim/internal/sim"
	"github.com/ballsim/ballsim/internal/storage"
)

const helpText = "space: run/pause  n: step  r: reset  +/-: speed  b: back  q: quit"

// Model is the Bubble Tea model for a running simulation.
type Model struct {
	sim        *sim.Simulation
	scenarioID string
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	draws      []sim.DrawRequest
	loop       int64 // Frame loop identity, see TickMsg
	curve      settleCurve
	err        error // Tick failure, the run cannot continue
	runSaved   bool  // Whether the current run has been recorded
	quitOnBack bool  // Standalone runs have no menu to return to
	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for a simulation and starts it.
func NewModel(s *sim.Simulation, scenarioID string, store *storage.Store, cfg core.RuntimeConfig) Model {
	s.Start()
	return Model{
		sim:        s,
		scenarioID: scenarioID,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		draws:      s.Draws(),
		loop:       newLoopID(),
	}
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.loop, frameInterval(m.config.TickRate))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.finish()
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) {
		m.finish()
		m.backToMenu = true
		m.inputFrame.Clear()
		if m.quitOnBack {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleTick applies pending input and advances the simulation.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	m.applyInput()

	if m.sim.Running() && m.err == nil {
		interval, n := pacing(m.sim.TickInterval(), m.config.TickRate)
		m.advance(n)
		return m, tickCmd(m.loop, interval)
	}

	return m, tickCmd(m.loop, frameInterval(m.config.TickRate))
}

// applyInput executes the actions collected since the last frame.
func (m *Model) applyInput() {
	defer m.inputFrame.Clear()

	if m.inputFrame.Has(core.ActionReset) {
		m.reset()
	}

	if m.inputFrame.Has(core.ActionToggleRun) {
		switch {
		case m.sim.Running():
			m.sim.Stop()
		case m.err == nil && !m.sim.ShouldHalt():
			m.sim.Start()
		}
	}

	if m.inputFrame.Has(core.ActionStep) && !m.sim.Running() && !m.sim.ShouldHalt() {
		m.advance(1)
	}

	speed := m.sim.Config().Run.Speed
	if m.inputFrame.Has(core.ActionSpeedUp) {
		m.sim.SetSpeed(config.DoubleSpeed(speed))
	}
	if m.inputFrame.Has(core.ActionSpeedDown) {
		m.sim.SetSpeed(config.HalveSpeed(speed))
	}
}

// advance runs n simulation ticks, stopping early on error or halt.
func (m *Model) advance(n int) {
	if m.err != nil {
		return
	}
	for i := 0; i < n; i++ {
		res, err := m.sim.Tick()
		if err != nil {
			m.err = err
			m.sim.Stop()
			return
		}
		m.draws = res.Draws
		m.curve.record(res.Stats.Counters())

		if m.sim.ShouldHalt() {
			m.sim.Stop()
			m.saveRun()
			return
		}
	}
}

// reset records the current run and starts over from the configuration.
func (m *Model) reset() {
	m.saveRun()
	if err := m.sim.Reset(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.runSaved = false
	m.curve.reset()
	m.draws = m.sim.Draws()
	m.sim.Start()
}

// finish stops the simulation and records the run.
func (m *Model) finish() {
	m.sim.Stop()
	m.saveRun()
}

// saveRun records the current run once, if it made progress.
func (m *Model) saveRun() {
	if m.runSaved || m.store == nil {
		return
	}
	stats := m.sim.Stats()
	if stats.Ticks == 0 {
		return
	}

	cfg := m.sim.Config()
	//nolint:errcheck // Best-effort save, the session continues regardless
	m.store.SaveRun(storage.RunRecord{
		Scenario:   m.scenarioID,
		Seed:       cfg.Run.Seed,
		Balls:      stats.Total,
		Ticks:      stats.Ticks,
		Stopped:    stats.Stopped,
		OffScreen:  stats.OffScreen,
		Settled:    stats.AllStopped(),
		Hysteresis: cfg.Physics.Hysteresis,
	})
	m.runSaved = true
}

// status returns the run state label.
func (m Model) status() string {
	switch {
	case m.err != nil:
		return "ERROR"
	case m.sim.ShouldHalt():
		return "HALTED"
	case m.sim.AllStopped():
		return "ALL STOPPED"
	case m.sim.Running():
		return "RUNNING"
	default:
		return "PAUSED"
	}
}

// renderScene draws the scene into the screen buffer at the given size,
// labelled with the run state while the loop is not ticking.
func (m Model) renderScene(width, height int) string {
	m.screen.Resize(core.Max(width, 1), core.Max(height, 1))
	m.screen.Clear()
	DrawScene(m.screen, m.sim, m.draws)
	if !m.sim.Running() {
		m.screen.DrawTextCentered(0, " "+m.status()+" ")
	}
	return RenderScreen(m.screen)
}

// saveScreenshot saves the current scene to a file.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	DrawScene(m.screen, m.sim, m.draws)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".ballsim", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.scenarioID, timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, the simulation continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	counters := m.sim.Stats().Counters()
	speed := m.sim.Config().Run.Speed
	sceneH := m.config.ScreenH - 2 // Status/error line and help line

	var top, body string
	if m.config.ScreenW >= minWidthForPanel {
		scene := m.renderScene(m.config.ScreenW-panelWidth, sceneH)
		panel := renderPanel(m.scenarioID, m.status(), counters, speed, m.curve, sceneH)
		body = lipgloss.JoinHorizontal(lipgloss.Top, scene, panel)
	} else {
		top = statusLine(m.scenarioID, m.status(), counters, speed)
		body = m.renderScene(m.config.ScreenW, sceneH)
	}

	if m.err != nil {
		top = errorStyle.Render(m.err.Error())
	}

	return top + "\n" + body + "\n" + helpStyle.Render(helpText)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Err returns the tick error that ended the run, if any.
func (m Model) Err() error {
	return m.err
}

// Run starts the Bubble Tea program for a single simulation.
func Run(s *sim.Simulation, scenarioID string, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(s, scenarioID, store, cfg)
	model.quitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
