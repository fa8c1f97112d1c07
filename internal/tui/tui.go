// Package tui is the terminal front end for a single table.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/holdem-table/internal/game"
	"github.com/lox/holdem-table/internal/table"
	"github.com/lox/holdem-table/poker"
)

const (
	focusLog = iota
	focusInput
)

const (
	idlePlaceholder = "Enter to deal, 'new' for a new game, 'quit' to exit"
	turnPlaceholder = "Enter your action (fold, check, call, raise 80, allin)"
)

// Model is the Bubble Tea model for one human seat at a table
type Model struct {
	session *table.Session
	seat    int
	logger  *log.Logger
	events  *eventBridge

	logViewport viewport.Model
	actionInput textinput.Model

	view      table.TableView
	inHand    bool
	status    string
	statusErr bool

	focusedPane int
	width       int
	height      int
	initialized bool
	quitting    bool
}

// New creates a model for the session's human seat and subscribes it to
// table events. Call Close when done.
func New(session *table.Session, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = idlePlaceholder
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = promptStyle
	ti.TextStyle = inputTextStyle
	ti.Prompt = "> "

	m := &Model{
		session:     session,
		logger:      logger.WithPrefix("tui"),
		events:      newEventBridge(),
		logViewport: vp,
		actionInput: ti,
		focusedPane: focusInput,
	}
	session.Subscribe(m.events)
	m.refresh()
	m.seat = m.view.HumanSeat
	return m
}

// Run drives the model until the user quits or ctx is cancelled.
func Run(ctx context.Context, session *table.Session, logger *log.Logger) error {
	m := New(session, logger)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Close detaches the model from the session
func (m *Model) Close() {
	m.session.Unsubscribe(m.events)
	m.events.close()
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.events.wait())
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case refreshMsg:
		m.refresh()
		return m, m.events.wait()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "tab":
			if m.focusedPane == focusLog {
				m.focusedPane = focusInput
				m.actionInput.Focus()
			} else {
				m.focusedPane = focusLog
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == focusInput {
				input := m.actionInput.Value()
				m.actionInput.SetValue("")
				if cmd := m.submit(input); cmd != nil {
					return m, cmd
				}
			}
		case "up", "k":
			if m.focusedPane == focusLog {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == focusLog {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == focusLog {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == focusLog {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == focusLog {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == focusLog {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == focusInput {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}

// submit handles one line of input: table commands between hands and
// betting actions on the human's turn.
func (m *Model) submit(input string) tea.Cmd {
	text := strings.ToLower(strings.TrimSpace(input))
	m.setStatus("", false)

	switch text {
	case "quit", "q", "exit":
		return m.quit()
	case "new", "reset":
		m.session.Reset()
		m.setStatus("New game started", false)
	case "", "deal", "next", "n":
		if m.session.InHand() {
			if m.myTurn() {
				m.setStatus("Your turn: "+m.actionHint(), false)
			}
			break
		}
		if err := m.session.StartHand(); err != nil {
			m.setStatus(describeError(err), true)
		}
	default:
		action, err := game.ParseAction(text)
		if err != nil {
			m.setStatus(err.Error(), true)
			break
		}
		if err := m.session.SubmitAction(m.seat, action); err != nil {
			m.setStatus(describeError(err), true)
		}
	}

	m.refresh()
	return nil
}

func describeError(err error) string {
	switch {
	case errors.Is(err, table.ErrGameOver):
		return "Game over. Type 'new' to start again"
	case errors.Is(err, table.ErrNoHand):
		return "No hand in progress. Press Enter to deal"
	case errors.Is(err, game.ErrOutOfTurn):
		return "Not your turn"
	}
	var ae *game.ActionError
	if errors.As(err, &ae) && ae.Reason != "" {
		return ae.Reason
	}
	return err.Error()
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) refresh() {
	m.view = m.session.SnapshotFor(m.seat)
	m.inHand = m.session.InHand()

	lines := make([]string, len(m.view.Logs))
	for i, entry := range m.view.Logs {
		lines[i] = InfoStyle.Render(entry.Time.Format("15:04:05")) + " " + entry.Text
	}
	m.logViewport.SetContent(strings.Join(lines, "\n"))
	// Newest entries are first.
	m.logViewport.GotoTop()

	if m.myTurn() {
		m.actionInput.Placeholder = turnPlaceholder
	} else {
		m.actionInput.Placeholder = idlePlaceholder
	}
}

func (m *Model) myTurn() bool {
	return m.inHand && m.view.ActiveSeat == m.seat && len(m.view.ValidActions) > 0
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)

	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.border(focusInput)).
		Width(max(m.width-2, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(paneBorder).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoTop()
		m.initialized = true
	}

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.border(focusLog)).
		Width(logWidth).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *Model) border(pane int) lipgloss.Color {
	if m.focusedPane == pane {
		return focusedBorder
	}
	return paneBorder
}

// renderSidebarPane shows the table: pot, board and every seat.
func (m *Model) renderSidebarPane() string {
	var b strings.Builder
	v := m.view

	b.WriteString(HeaderStyle.Render(fmt.Sprintf(" Hand #%d ", v.HandNumber)))
	b.WriteString("  ")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Blinds %d/%d", v.Blinds.Small, v.Blinds.Big)))
	b.WriteString("\n\n")

	b.WriteString(WarningStyle.Render(fmt.Sprintf("Pot: $%d", v.Pot)))
	if m.inHand && v.TableBet > 0 {
		b.WriteString(" | ")
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Bet: $%d", v.TableBet)))
	}
	b.WriteString("\n")
	if len(v.Board) > 0 {
		b.WriteString("Board: " + formatCards(v.Board) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(InfoStyle.Render("Players at table:"))
	b.WriteString("\n")
	for _, p := range v.Players {
		b.WriteString(m.renderPlayer(p))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderPlayer(p game.PlayerView) string {
	marker := "  "
	if m.inHand && p.Seat == m.view.ActiveSeat {
		marker = "▶ "
	}
	tag := ""
	if p.Seat == m.view.Dealer {
		tag = " (D)"
	}

	line := fmt.Sprintf("%s%s%s: $%d", marker, p.Name, tag, p.Chips)
	if m.inHand && p.Bet > 0 {
		line += fmt.Sprintf(" [bet %d]", p.Bet)
	}
	if m.inHand && p.Status == game.StatusAllIn {
		line += " all-in"
	}
	if len(p.Hole) > 0 {
		line += " " + formatCards(p.Hole)
	}

	switch {
	case m.inHand && p.Status == game.StatusFolded:
		return FoldedPlayerStyle.Render(line)
	case m.inHand && p.Seat == m.view.ActiveSeat:
		return ActivePlayerStyle.Render(line)
	}
	return line
}

// renderActionPane shows what the human can do next.
func (m *Model) renderActionPane() string {
	var b strings.Builder
	v := m.view

	switch {
	case v.GameOver != nil:
		b.WriteString(m.renderGameOver(*v.GameOver))
		b.WriteString("\n")
	case m.myTurn():
		me := v.Me()
		b.WriteString(HandInfoStyle.Render(fmt.Sprintf("Hand: %s  Pot: $%d  To call: $%d",
			formatCards(me.Hole), v.Pot, v.ToCall())))
		b.WriteString("\n")
		b.WriteString(m.renderAvailableActions())
		b.WriteString("\n")
	case m.inHand:
		b.WriteString(HandInfoStyle.Render(fmt.Sprintf("Waiting for %s...", m.activeName())))
		b.WriteString("\n")
	case v.Summary != nil:
		b.WriteString(m.renderSummary(*v.Summary))
	default:
		b.WriteString(HandInfoStyle.Render("Press Enter to deal the first hand"))
		b.WriteString("\n")
	}

	if m.status != "" {
		style := SuccessStyle
		if m.statusErr {
			style = ErrorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.actionInput.View())
	b.WriteString("\n")

	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == focusLog {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	b.WriteString(InfoStyle.Render(help))
	return b.String()
}

func (m *Model) activeName() string {
	for _, p := range m.view.Players {
		if p.Seat == m.view.ActiveSeat {
			return p.Name
		}
	}
	return "the table"
}

// renderAvailableActions lists the legal actions with their amounts
func (m *Model) renderAvailableActions() string {
	var actions []string
	for _, va := range m.view.ValidActions {
		switch va.Kind {
		case game.Fold:
			actions = append(actions, ErrorStyle.Render("[fold]"))
		case game.Check:
			actions = append(actions, SuccessStyle.Render("[check]"))
		case game.Call:
			actions = append(actions, SuccessStyle.Render(fmt.Sprintf("[call $%d]", va.Min)))
		case game.Raise:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[raise %d-%d]", va.Min, va.Max)))
		case game.AllIn:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[allin $%d]", va.Max)))
		}
	}
	if len(actions) == 0 {
		actions = append(actions, ErrorStyle.Render("[no actions available]"))
	}
	return ActionsStyle.Render("Actions: " + strings.Join(actions, " "))
}

func (m *Model) actionHint() string {
	kinds := make([]string, 0, len(m.view.ValidActions))
	for _, va := range m.view.ValidActions {
		kinds = append(kinds, va.Kind.String())
	}
	return strings.Join(kinds, ", ")
}

func (m *Model) renderSummary(s table.RoundSummary) string {
	var b strings.Builder
	b.WriteString(HandInfoStyle.Render(fmt.Sprintf("Hand #%d complete, pot $%d", s.HandNumber, s.Pot)))
	b.WriteString("\n")
	for _, w := range s.Winners {
		line := fmt.Sprintf("%s wins $%d", w.Name, w.Amount)
		if w.HandName != "" {
			line += " with " + w.HandName
		}
		if len(w.Hole) > 0 {
			line += " " + formatCards(w.Hole)
		}
		b.WriteString(SuccessStyle.Render(line))
		b.WriteString("\n")
	}
	if m.seat >= 0 && m.seat < len(s.NetChange) {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Your result: %+d", s.NetChange[m.seat])))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderGameOver(over table.GameOver) string {
	switch over.Outcome {
	case table.OutcomeWon:
		return SuccessStyle.Render(fmt.Sprintf("You won every chip in %d hands! Type 'new' to play again", over.Hands))
	case table.OutcomeLost:
		return ErrorStyle.Render(fmt.Sprintf("You are out of chips after %d hands. Type 'new' to play again", over.Hands))
	}
	return WarningStyle.Render("Game over. Type 'new' to play again")
}

// formatCards renders cards with suit colours
func formatCards(cards []poker.Card) string {
	if len(cards) == 0 {
		return ""
	}
	formatted := make([]string, len(cards))
	for i, card := range cards {
		if card.Suit.IsRed() {
			formatted[i] = RedCardStyle.Render(card.String())
		} else {
			formatted[i] = BlackCardStyle.Render(card.String())
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}
