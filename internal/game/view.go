package game

import "github.com/lox/holdem-table/poker"

// PlayerView is the public state of a seat. Hole is only filled for the
// viewer's own seat and for hands shown at showdown.
type PlayerView struct {
	Seat     int          `json:"seat"`
	Name     string       `json:"name"`
	Chips    int          `json:"chips"`
	Bet      int          `json:"bet"`
	TotalBet int          `json:"total_bet"`
	Status   Status       `json:"status"`
	Human    bool         `json:"human"`
	Acted    bool         `json:"acted"`
	HasCards bool         `json:"has_cards"`
	Hole     []poker.Card `json:"hole,omitempty"`
}

// View is a read-only projection of the hand from one seat's perspective.
type View struct {
	HandID         string        `json:"hand_id"`
	Seat           int           `json:"seat"`
	Stage          Stage         `json:"stage"`
	Pot            int           `json:"pot"`
	TableBet       int           `json:"table_bet"`
	MinRaise       int           `json:"min_raise"`
	Blinds         Blinds        `json:"blinds"`
	Dealer         int           `json:"dealer"`
	SmallBlindSeat int           `json:"small_blind_seat"`
	BigBlindSeat   int           `json:"big_blind_seat"`
	ActiveSeat     int           `json:"active_seat"`
	Board          []poker.Card  `json:"board"`
	Players        []PlayerView  `json:"players"`
	ValidActions   []ValidAction `json:"valid_actions,omitempty"`
}

// View returns a snapshot for seat. Use -1 for a spectator who sees no hole
// cards before showdown.
func (h *Hand) View(seat int) View {
	v := View{
		HandID:         h.ID,
		Seat:           seat,
		Stage:          h.Stage,
		Pot:            h.Pot,
		TableBet:       h.TableBet,
		MinRaise:       h.MinRaise,
		Blinds:         h.Blinds,
		Dealer:         h.Dealer,
		SmallBlindSeat: h.SmallBlindSeat,
		BigBlindSeat:   h.BigBlindSeat,
		ActiveSeat:     h.ActiveSeat,
		Board:          append([]poker.Card(nil), h.Board...),
		Players:        make([]PlayerView, len(h.Players)),
	}

	shown := map[int]bool{}
	if h.Result != nil {
		for _, s := range h.Result.Shown {
			shown[s.Seat] = true
		}
	}

	for i, p := range h.Players {
		pv := PlayerView{
			Seat:     i,
			Name:     p.Name,
			Chips:    p.Chips,
			Bet:      p.Bet,
			TotalBet: p.TotalBet,
			Status:   p.Status,
			Human:    p.Human,
			Acted:    p.Acted,
			HasCards: len(p.Hole) > 0,
		}
		if i == seat || shown[i] {
			pv.Hole = append([]poker.Card(nil), p.Hole...)
		}
		v.Players[i] = pv
	}

	if seat >= 0 && seat == h.ActiveSeat {
		v.ValidActions = h.ValidActions()
	}
	return v
}

// Me returns the viewer's own seat, or nil for a spectator.
func (v View) Me() *PlayerView {
	if v.Seat < 0 || v.Seat >= len(v.Players) {
		return nil
	}
	return &v.Players[v.Seat]
}

// ToCall returns what the viewer owes to stay in.
func (v View) ToCall() int {
	me := v.Me()
	if me == nil {
		return 0
	}
	return max(v.TableBet-me.Bet, 0)
}
