package tui

import tea "github.com/charmbracelet/bubbletea"

// Deck is one replaying pane of the overview. Each deck owns its own
// ReplaySource, so decks never share a cursor or a timer.
type Deck interface {
	ID() string
	Title() string
	Start() tea.Cmd // (re)load and arm
	Stop()          // clear the tick chain and drop in-flight loads
	Update(msg tea.Msg) (handled bool, cmd tea.Cmd)
	Render(width, height int, active bool) string
	State() DeckTypeState
	TogglePause() bool
}

// startDecks starts every deck and batches their load commands.
func startDecks(decks []Deck) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(decks))
	for _, d := range decks {
		cmds = append(cmds, d.Start())
	}
	return tea.Batch(cmds...)
}

// stopDecks tears down every deck synchronously.
func stopDecks(decks []Deck) {
	for _, d := range decks {
		d.Stop()
	}
}

// routeDeckMsg hands msg to the first deck that claims it.
func routeDeckMsg(decks []Deck, msg tea.Msg) (bool, tea.Cmd) {
	for _, d := range decks {
		if handled, cmd := d.Update(msg); handled {
			return true, cmd
		}
	}
	return false, nil
}
