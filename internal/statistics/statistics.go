// Package statistics accumulates per-seat results over many hands.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/holdem-table/internal/game"
)

// MaxPositions is the largest table the position breakdown covers.
const MaxPositions = 10

// bigPotBB is the pot size, in big blinds, counted as a big pot.
const bigPotBB = 50

// HandResult is one seat's outcome of a single hand
type HandResult struct {
	NetBB float64 // net big blinds won or lost
	// Position counts seats left of the button: 1 is the small blind and
	// the button is the last position.
	Position       int
	WentToShowdown bool
	Won            bool
	PotChips       int
	PotBB          float64
	StreetReached  game.Stage
}

// PositionStats tracks results for one table position
type PositionStats struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

// Statistics tracks one seat's results
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64   // sum of squares for the variance
	Values []float64 // every result, for the median and percentiles

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64 // showdown wins and losses
	NonShowdownBB   float64
	AllBB           float64

	// Index 0 is unused.
	PositionResults [MaxPositions + 1]PositionStats

	MaxPotChips int
	MaxPotBB    float64
	BigPots     int
	BigPotsBB   float64
}

// Mean returns the mean result in big blinds per hand
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// BB100 returns the win rate in big blinds per hundred hands
func (s *Statistics) BB100() float64 {
	return s.Mean() * 100
}

// Add incorporates a hand result
func (s *Statistics) Add(result HandResult) {
	netBB := result.NetBB
	s.Hands++
	s.SumBB += netBB
	s.SumBB2 += netBB * netBB
	s.Values = append(s.Values, netBB)

	if result.Won {
		if result.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}

	if result.WentToShowdown {
		s.ShowdownBB += netBB
	} else {
		s.NonShowdownBB += netBB
	}
	s.AllBB += netBB

	if pos := result.Position; pos >= 1 && pos <= MaxPositions {
		s.PositionResults[pos].Hands++
		s.PositionResults[pos].SumBB += netBB
		s.PositionResults[pos].SumBB2 += netBB * netBB
	}

	if result.PotChips > s.MaxPotChips {
		s.MaxPotChips = result.PotChips
		s.MaxPotBB = result.PotBB
	}
	if result.PotBB >= bigPotBB {
		s.BigPots++
		s.BigPotsBB += netBB
	}
}

// Merge adds other's results to s
func (s *Statistics) Merge(other *Statistics) {
	if other == nil {
		return
	}
	s.Hands += other.Hands
	s.SumBB += other.SumBB
	s.SumBB2 += other.SumBB2
	s.Values = append(s.Values, other.Values...)
	s.ShowdownWins += other.ShowdownWins
	s.NonShowdownWins += other.NonShowdownWins
	s.ShowdownBB += other.ShowdownBB
	s.NonShowdownBB += other.NonShowdownBB
	s.AllBB += other.AllBB
	for i := range s.PositionResults {
		s.PositionResults[i].Hands += other.PositionResults[i].Hands
		s.PositionResults[i].SumBB += other.PositionResults[i].SumBB
		s.PositionResults[i].SumBB2 += other.PositionResults[i].SumBB2
	}
	if other.MaxPotChips > s.MaxPotChips {
		s.MaxPotChips = other.MaxPotChips
		s.MaxPotBB = other.MaxPotBB
	}
	s.BigPots += other.BigPots
	s.BigPotsBB += other.BigPotsBB
}

// Median returns the median of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at percentile p in [0, 1], interpolating
// between neighbours.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// PositionMean returns the mean result for a position
func (s *Statistics) PositionMean(position int) float64 {
	if position < 1 || position > MaxPositions {
		return 0
	}
	ps := s.PositionResults[position]
	if ps.Hands == 0 {
		return 0
	}
	return ps.SumBB / float64(ps.Hands)
}

// IsLedgerBalanced checks that showdown and non-showdown results add up
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the internal consistency of the counters
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllBB=%.6f, ShowdownBB=%.6f, NonShowdownBB=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)",
			len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", wins, s.Hands)
	}

	positioned := 0
	for pos := 1; pos <= MaxPositions; pos++ {
		positioned += s.PositionResults[pos].Hands
	}
	if positioned != s.Hands {
		return fmt.Errorf("position hands total (%d) does not match total hands (%d)",
			positioned, s.Hands)
	}
	return nil
}
