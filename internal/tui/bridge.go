package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/holdem-table/internal/game"
)

// refreshMsg asks the model to re-read the session.
type refreshMsg struct{}

// eventBridge turns session events into refresh messages. Bursts of events
// collapse into a single pending refresh, so a slow renderer never blocks
// the table.
type eventBridge struct {
	pending chan struct{}
	done    chan struct{}
}

func newEventBridge() *eventBridge {
	return &eventBridge{
		pending: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// OnEvent implements game.EventSubscriber
func (b *eventBridge) OnEvent(game.GameEvent) {
	select {
	case b.pending <- struct{}{}:
	default:
	}
}

// wait blocks until the next refresh or until the bridge is closed.
func (b *eventBridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.pending:
			return refreshMsg{}
		case <-b.done:
			return nil
		}
	}
}

func (b *eventBridge) close() {
	select {
	case <-b.done:
	default:
		close(b.done)
	}
}
