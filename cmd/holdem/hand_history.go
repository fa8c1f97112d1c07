package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/holdem-table/internal/handhistory"
)

var sectionStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

// HandHistoryCmd is the root command for PHH utilities.
type HandHistoryCmd struct {
	Show HandHistoryShowCmd `cmd:"show" help:"Print the hands in a PHH session file"`
}

// HandHistoryShowCmd prints recorded hands
type HandHistoryShowCmd struct {
	File  string `arg:"" name:"file" help:"Path to a .phhs file" type:"existingfile"`
	Limit int    `help:"Maximum number of hands to print (0 = all)"`
}

func (cmd *HandHistoryShowCmd) Run() error {
	if cmd.File == "" {
		return errors.New("hand-history show requires a file path")
	}
	hands, err := handhistory.ReadFile(cmd.File)
	if err != nil {
		return err
	}
	if len(hands) == 0 {
		return fmt.Errorf("no hands found in %s", cmd.File)
	}
	return renderHands(os.Stdout, hands, cmd.Limit)
}

func renderHands(w io.Writer, hands map[int]*handhistory.History, limit int) error {
	sections := make([]int, 0, len(hands))
	for n := range hands {
		sections = append(sections, n)
	}
	slices.Sort(sections)
	if limit > 0 && limit < len(sections) {
		sections = sections[:limit]
	}

	for _, n := range sections {
		h := hands[n]
		fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("Hand %d  %s", n, h.HandID)))
		if h.Year != 0 {
			fmt.Fprintf(w, "%04d-%02d-%02d %s\n", h.Year, h.Month, h.Day, h.Time)
		}
		fmt.Fprintf(w, "Blinds %v\n", nonZero(h.BlindsOrStraddles))
		for i, name := range h.Players {
			fmt.Fprintf(w, "  p%d %-12s seat %d  %6d -> %6d", i+1, name, at(h.Seats, i), at(h.StartingStacks, i), at(h.FinishingStacks, i))
			if won := at(h.Winnings, i); won > 0 {
				fmt.Fprintf(w, "  won %d", won)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "  "+strings.Join(h.Actions, "\n  "))
		fmt.Fprintln(w)
	}
	return nil
}

func at(values []int, i int) int {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func nonZero(values []int) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		if v != 0 {
			out = append(out, v)
		}
	}
	return out
}
