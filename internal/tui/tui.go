// Package tui is the terminal consumer of a game session: it renders
// the latest store snapshot and turns typed commands into dispatched
// intents. It holds no game semantics beyond presentation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/cribclient/internal/client"
	"github.com/lox/cribclient/internal/deck"
	"github.com/lox/cribclient/internal/protocol"
)

// snapshotMsg carries a store update into the Bubble Tea loop.
type snapshotMsg client.Snapshot

// Model is the Bubble Tea model for one game session.
type Model struct {
	client *client.Client
	logger *log.Logger

	input   textinput.Model
	updates chan client.Snapshot
	cancel  func()

	snap   client.Snapshot
	notice string
	width  int
}

// NewModel builds the model and subscribes it to the client's store.
func NewModel(c *client.Client, logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "start | discard 5h th | cut | peg 5h | go | sync | quit"
	ti.Focus()
	ti.CharLimit = 60
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

	m := &Model{
		client:  c,
		logger:  logger.WithPrefix("tui"),
		input:   ti,
		updates: make(chan client.Snapshot, 1),
		snap:    c.Store().Snapshot(),
	}

	// Keep only the newest snapshot: the subscriber must never block
	// the event goroutine.
	m.cancel = c.Store().Subscribe(func(s client.Snapshot) {
		for {
			select {
			case m.updates <- s:
				return
			default:
				select {
				case <-m.updates:
				default:
				}
			}
		}
	})
	return m
}

// Init starts the input blink and the snapshot pump.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForSnapshot())
}

func (m *Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-m.updates)
	}
}

// Update handles input and snapshot messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = client.Snapshot(msg)
		return m, m.waitForSnapshot()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancel()
			return m, tea.Quit
		case tea.KeyEnter:
			cmd := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if cmd == "quit" || cmd == "exit" {
				m.cancel()
				return m, tea.Quit
			}
			m.runCommand(cmd)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// runCommand parses one typed command and dispatches the intent.
func (m *Model) runCommand(line string) {
	if line == "" {
		return
	}
	fields := strings.Fields(line)
	verb, args := fields[0], strings.Join(fields[1:], " ")

	var err error
	switch verb {
	case "start":
		err = m.client.StartGame()
		m.notice = "start requested"
	case "discard":
		var cards []deck.Card
		if cards, err = deck.ParseCards(args); err == nil {
			err = m.client.Discard(cards)
			m.notice = fmt.Sprintf("discarded %d cards", len(cards))
		}
	case "cut":
		err = m.client.Cut()
		m.notice = "cut requested"
	case "peg":
		var card deck.Card
		if card, err = deck.ParseCard(args); err == nil {
			err = m.client.PegCard(card)
			m.notice = "played " + card.String()
		}
	case "go":
		err = m.client.DeclareGo()
		m.notice = "go declared"
	case "sync":
		err = m.client.RequestSync()
		m.notice = "resync requested"
	default:
		m.notice = "unknown command: " + verb
		return
	}

	if err != nil {
		m.notice = err.Error()
		m.logger.Warn("command failed", "command", verb, "error", err)
	}
}

// View renders the whole session from the latest snapshot.
func (m *Model) View() string {
	var b strings.Builder
	s := m.snap

	b.WriteString(HeaderStyle.Render(fmt.Sprintf("cribbage %s", s.Game.Code)))
	b.WriteString("  ")
	if s.Connected {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("%s / %s", s.Game.Status, s.Game.Phase)))
	} else {
		b.WriteString(WarningStyle.Render("reconnecting..."))
	}
	b.WriteString("\n\n")

	if !s.Synced {
		b.WriteString(InfoStyle.Render("waiting for game state..."))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
		return b.String()
	}

	m.renderPlayers(&b, s)
	m.renderTable(&b, s)
	m.renderScoring(&b, s)
	m.renderHand(&b, s)

	if s.Game.Winner != nil {
		b.WriteString("\n")
		b.WriteString(TurnStyle.Render(fmt.Sprintf("game over: %s wins!", s.Game.Winner.Name)))
		b.WriteString("\n")
	}

	if s.LastError != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(s.LastError))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

func (m *Model) renderPlayers(b *strings.Builder, s client.Snapshot) {
	for _, p := range s.Game.Players {
		marker := "  "
		if p.Seat == s.Game.DealerSeat {
			marker = DealerStyle.Render("D ")
		}
		name := p.Name
		if s.Game.TurnSeat != nil && *s.Game.TurnSeat == p.Seat {
			name = TurnStyle.Render(name + " *")
		}
		conn := ""
		if !p.Connected {
			conn = ErrorStyle.Render(" (away)")
		}
		remaining := ""
		if s.Game.Phase == protocol.PhasePegging && p.Seat != s.Player.Seat {
			remaining = InfoStyle.Render(fmt.Sprintf("  %d cards", s.Game.CardsRemaining(p.Seat)))
		}
		fmt.Fprintf(b, "%s%-12s %s%s%s\n",
			marker, name, ScoreStyle.Render(fmt.Sprintf("%3d", p.Score)), conn, remaining)
	}
	b.WriteString("\n")
}

func (m *Model) renderTable(b *strings.Builder, s client.Snapshot) {
	if s.Game.CutCard != "" {
		fmt.Fprintf(b, "cut: %s\n", renderCard(s.Game.CutCard, false))
	}
	if s.Game.Phase == protocol.PhasePegging || len(s.Game.PegHistory) > 0 {
		fmt.Fprintf(b, "count: %s  ", ScoreStyle.Render(fmt.Sprintf("%d", s.Game.PegCount)))
		plays := make([]string, 0, len(s.Game.PegHistory))
		for _, play := range s.Game.PegHistory {
			c := renderCard(play.Card, false)
			if play.Points > 0 {
				c += TurnStyle.Render(fmt.Sprintf("+%d", play.Points))
			}
			plays = append(plays, c)
		}
		b.WriteString(strings.Join(plays, " "))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m *Model) renderScoring(b *strings.Builder, s client.Snapshot) {
	for _, r := range s.Game.ScoringResults {
		kind := "hand"
		if r.IsCrib {
			kind = "crib"
		}
		cards := make([]string, len(r.Cards))
		for i, c := range r.Cards {
			cards[i] = c.String()
		}
		fmt.Fprintf(b, "%s %s %s: %s for %s (total %d)\n",
			InfoStyle.Render(kind), r.PlayerName, strings.Join(cards, " "),
			breakdownSummary(r.Score), ScoreStyle.Render(fmt.Sprintf("%d", r.Score.Total)),
			r.NewTotal)
	}
	if len(s.Game.ScoringResults) > 0 {
		b.WriteString("\n")
	}
}

func (m *Model) renderHand(b *strings.Builder, s client.Snapshot) {
	if len(s.Player.Hand) == 0 {
		return
	}
	valid := make(map[deck.Card]bool, len(s.Player.ValidPlays))
	for _, c := range s.Player.ValidPlays {
		valid[c] = true
	}
	cards := make([]string, len(s.Player.Hand))
	for i, c := range s.Player.Hand {
		cards[i] = renderCard(c, valid[c])
	}
	fmt.Fprintf(b, "hand: %s\n", strings.Join(cards, " "))
}

// renderCard styles a card by suit color, underlining legal plays.
func renderCard(c deck.Card, validPlay bool) string {
	if validPlay {
		return ValidPlayStyle.Render(c.String())
	}
	if c.IsRed() {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}

// breakdownSummary lists the nonzero scoring categories.
func breakdownSummary(sb protocol.ScoreBreakdown) string {
	parts := []string{}
	add := func(name string, v int) {
		if v > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", name, v))
		}
	}
	add("fifteens", sb.Fifteens)
	add("pairs", sb.Pairs)
	add("runs", sb.Runs)
	add("flush", sb.Flush)
	add("nobs", sb.Nobs)
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}
