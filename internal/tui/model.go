// Package tui provides the Bubble Tea guessing interface.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/guessit/internal/game"
	"github.com/verte-zerg/guessit/internal/model"
	statsPkg "github.com/verte-zerg/guessit/internal/stats"
)

const noticeNotANumber = "enter a whole number"

// Recorder persists finished rounds and reads back history.
type Recorder interface {
	InsertRound(ctx context.Context, round model.RoundStats) error
	ListRounds(ctx context.Context, cfg model.StatsConfig) ([]model.RoundAggregate, error)
}

// Model implements the Bubble Tea guessing UI.
type Model struct {
	engine   game.Engine
	recorder Recorder
	log      zerolog.Logger
	now      func() time.Time

	input textinput.Model
	snap  game.Snapshot

	// notice holds input errors caught before a guess reaches the engine.
	notice string
	err    error

	roundID   string
	startedAt time.Time
	rejected  int

	history statsPkg.Summary

	width  int
	height int
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	overStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	attemptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle    = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs a guessing TUI model. recorder may be nil to disable history.
func NewModel(engine game.Engine, recorder Recorder, log zerolog.Logger) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Enter your guess"
	input.CharLimit = 8
	input.Width = 16

	m := &Model{
		engine:   engine,
		recorder: recorder,
		log:      log,
		now:      time.Now,
		input:    input,
		snap:     engine.Snapshot(),
	}
	m.loadHistory()
	return m
}

// Err returns the fatal error that stopped the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "s":
		return m, m.dispatch(game.Start())
	case "p":
		switch m.snap.Mode {
		case game.ModeActive:
			return m, m.dispatch(game.Pause())
		case game.ModePaused:
			return m, m.dispatch(game.Resume())
		}
		return m, nil
	case "r":
		return m, m.dispatch(game.Reset())
	case "enter":
		return m, m.submitGuess()
	}
	if m.snap.Mode != game.ModeActive {
		return m, nil
	}
	m.notice = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitGuess parses the input and forwards valid integers to the engine.
func (m *Model) submitGuess() tea.Cmd {
	if m.snap.Mode != game.ModeActive {
		return nil
	}
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		m.notice = noticeNotANumber
		return nil
	}
	m.input.SetValue("")
	return m.dispatch(game.Guess(value))
}

func (m *Model) dispatch(cmd game.Command) tea.Cmd {
	prev := m.snap
	snap, err := m.engine.Dispatch(cmd)
	if err != nil {
		m.err = err
		m.log.Error().Err(err).Str("command", string(cmd.Kind)).Msg("command failed")
		return tea.Quit
	}
	m.snap = snap
	m.notice = ""

	switch {
	case cmd.Kind == game.CmdStart && prev.Mode == game.ModeIdle && snap.Mode == game.ModeActive:
		m.beginRound()
	case cmd.Kind == game.CmdGuess && prev.Mode == game.ModeActive && snap.Outcome == game.OutcomeOutOfRange:
		m.rejected++
	case cmd.Kind == game.CmdGuess && prev.Mode == game.ModeActive && snap.IsOver:
		m.finishRound()
	case cmd.Kind == game.CmdReset:
		m.roundID = ""
		m.input.SetValue("")
	}
	m.syncInput()
	return nil
}

// syncInput focuses the guess field only while a round is active.
func (m *Model) syncInput() {
	if m.snap.Mode == game.ModeActive {
		m.input.Focus()
		return
	}
	m.input.Blur()
}

func (m *Model) beginRound() {
	m.roundID = uuid.NewString()
	m.startedAt = m.now()
	m.rejected = 0
	m.log.Info().Str("round", m.roundID).Msg("round started")
}

func (m *Model) finishRound() {
	endedAt := m.now()
	min, max := m.engine.Range()
	round := model.RoundStats{
		ID:         m.roundID,
		StartedAt:  m.startedAt,
		EndedAt:    endedAt,
		Attempts:   m.snap.Attempts,
		Rejected:   m.rejected,
		RangeMin:   min,
		RangeMax:   max,
		DurationMs: endedAt.Sub(m.startedAt).Milliseconds(),
	}
	m.log.Info().Str("round", round.ID).Int("attempts", round.Attempts).Int64("duration_ms", round.DurationMs).Msg("round finished")
	if m.recorder == nil {
		return
	}
	if err := m.recorder.InsertRound(context.Background(), round); err != nil {
		m.log.Error().Err(err).Str("round", round.ID).Msg("failed to save round")
		return
	}
	m.loadHistory()
}

func (m *Model) loadHistory() {
	if m.recorder == nil {
		return
	}
	rounds, err := m.recorder.ListRounds(context.Background(), model.StatsConfig{})
	if err != nil {
		m.log.Error().Err(err).Msg("failed to load round history")
		return
	}
	m.history = statsPkg.Summarize(rounds)
}

// View implements tea.Model.
func (m *Model) View() string {
	content := cardStyle.Render(m.renderBody())
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderBody() string {
	min, max := m.engine.Range()
	lines := []string{
		titleStyle.Render("Number Guessing Game"),
		textStyle.Render(fmt.Sprintf("Try to guess the number between %d and %d!", min, max)),
		"",
	}
	switch m.snap.Mode {
	case game.ModeIdle:
		lines = append(lines, textStyle.Render("Press s to start."))
	case game.ModeActive, game.ModePaused:
		lines = append(lines, m.input.View())
		if m.snap.Mode == game.ModePaused {
			lines = append(lines, pausedStyle.Render("Paused. Press p to resume."))
		}
		if msg := m.statusMessage(); msg != "" {
			lines = append(lines, errorStyle.Render(msg))
		}
		lines = append(lines, "", attemptStyle.Render(fmt.Sprintf("Attempt: %d", m.snap.Attempts)))
	case game.ModeOver:
		lines = append(lines,
			overStyle.Render("Game Over!"),
			textStyle.Render(fmt.Sprintf("You guessed the number in %d attempts.", m.snap.Attempts)),
			"",
			textStyle.Render("Press r to try again."),
		)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) statusMessage() string {
	if m.notice != "" {
		return m.notice
	}
	if m.snap.Message == game.MsgOutOfRange {
		min, max := m.engine.Range()
		return fmt.Sprintf("Please enter a number between %d and %d!", min, max)
	}
	return m.snap.Message
}

func (m *Model) renderFooter() string {
	segments := []string{m.keyHelp()}
	if m.history.Rounds > 0 {
		segments = append(segments, fmt.Sprintf("Rounds %d · Avg %.1f · Best %d", m.history.Rounds, m.history.AvgAttempts, m.history.BestAttempts))
	}
	footer := strings.Join(segments, "  ")
	if m.width > 0 {
		footer = runewidth.Truncate(footer, m.width, "…")
	}
	return footerStyle.Render(footer)
}

func (m *Model) keyHelp() string {
	switch m.snap.Mode {
	case game.ModeIdle:
		return "s start  q quit"
	case game.ModeActive:
		return "enter guess  p pause  r reset  q quit"
	case game.ModePaused:
		return "p resume  r reset  q quit"
	default:
		return "r try again  q quit"
	}
}
