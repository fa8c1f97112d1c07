package game

import "fmt"

// Stage is the phase of a hand
type Stage int

const (
	Idle Stage = iota
	PreFlop
	Flop
	Turn
	River
	Showdown
)

var stageNames = [...]string{"idle", "preflop", "flop", "turn", "river", "showdown"}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Stage) UnmarshalText(text []byte) error {
	for i, name := range stageNames {
		if name == string(text) {
			*s = Stage(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", text)
}

// IsBetting reports whether players act during this stage
func (s Stage) IsBetting() bool {
	return s >= PreFlop && s <= River
}

// boardSize is the number of community cards once the stage is dealt.
func (s Stage) boardSize() int {
	switch s {
	case Flop:
		return 3
	case Turn:
		return 4
	case River, Showdown:
		return 5
	default:
		return 0
	}
}

// Blinds are the forced bets
type Blinds struct {
	Small int `json:"small"`
	Big   int `json:"big"`
}

func (b Blinds) String() string {
	return fmt.Sprintf("%d/%d", b.Small, b.Big)
}
