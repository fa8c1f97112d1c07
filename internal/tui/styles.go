package tui

import "github.com/charmbracelet/lipgloss"

// Palette
const (
	white  = lipgloss.Color("#FAFAFA")
	violet = lipgloss.Color("#7D56F4")
	sage   = lipgloss.Color("#96CEB4")
	gold   = lipgloss.Color("#FFD700")
	coral  = lipgloss.Color("#FF6B6B")
	green  = lipgloss.Color("#04B575")
	grey   = lipgloss.Color("#626262")
	cream  = lipgloss.Color("#FFEAA7")
)

func bold(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

var (
	HeaderStyle   = bold(white).Background(violet)
	HandInfoStyle = bold(sage)
	ActionsStyle  = bold(gold)

	// Hearts and diamonds render red.
	RedCardStyle   = bold(coral)
	BlackCardStyle = bold(white)

	ActivePlayerStyle = bold(green)
	FoldedPlayerStyle = lipgloss.NewStyle().Foreground(grey).Strikethrough(true)

	SuccessStyle = bold(sage)
	ErrorStyle   = bold(coral)
	WarningStyle = bold(cream)
	InfoStyle    = lipgloss.NewStyle().Foreground(grey)

	promptStyle    = bold(green)
	inputTextStyle = lipgloss.NewStyle().Foreground(white)

	paneBorder    = grey
	focusedBorder = green
)
