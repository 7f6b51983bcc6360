// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	TitleStyle     lipgloss.Style
	SubtitleStyle  lipgloss.Style
	MutedStyle     lipgloss.Style
	PanelStyle     lipgloss.Style
	PanelTitle     lipgloss.Style
	PanelFocused   lipgloss.Style
	HeaderStyle    lipgloss.Style
	CellStyle      lipgloss.Style
	SelectedStyle  lipgloss.Style
	FlagOnStyle    lipgloss.Style
	FlagOffStyle   lipgloss.Style
	BigNumberStyle lipgloss.Style
	HelpStyle      lipgloss.Style
	ErrorStyle     lipgloss.Style

	StatusIdleStyle    lipgloss.Style
	StatusSyncingStyle lipgloss.Style
	StatusSavedStyle   lipgloss.Style
	StatusErrorStyle   lipgloss.Style
	StatusOfflineStyle lipgloss.Style

	ModalStyle          lipgloss.Style
	ModalTitleStyle     lipgloss.Style
	ButtonStyle         lipgloss.Style
	ButtonSelectedStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	TitleStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(p.Secondary)
	MutedStyle = lipgloss.NewStyle().Foreground(p.Muted)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface).
		Padding(0, 1)
	PanelFocused = PanelStyle.BorderForeground(p.Primary)
	PanelTitle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)

	HeaderStyle = lipgloss.NewStyle().Foreground(p.Muted).Bold(true)
	CellStyle = lipgloss.NewStyle().Foreground(p.Foreground)
	SelectedStyle = lipgloss.NewStyle().Background(p.Surface).Foreground(p.Foreground).Bold(true)

	FlagOnStyle = lipgloss.NewStyle().Foreground(p.Success).Bold(true)
	FlagOffStyle = lipgloss.NewStyle().Foreground(p.Muted)
	BigNumberStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	HelpStyle = lipgloss.NewStyle().Foreground(p.Muted)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)

	StatusIdleStyle = lipgloss.NewStyle().Foreground(p.Muted)
	StatusSyncingStyle = lipgloss.NewStyle().Foreground(p.Warning)
	StatusSavedStyle = lipgloss.NewStyle().Foreground(p.Success)
	StatusErrorStyle = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	StatusOfflineStyle = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Foreground)
	ButtonStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(p.Muted)
	ButtonSelectedStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).
		Foreground(p.Background).
		Background(p.Primary)
}

// BarColor maps a progress bar color name to the palette.
func BarColor(name string) lipgloss.Color {
	switch name {
	case "red":
		return CurrentPalette.Error
	case "green":
		return CurrentPalette.Success
	default:
		return CurrentPalette.Primary
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func hexPtr(c lipgloss.Color) *string {
	if c == "" {
		return nil
	}
	s := string(c)
	return &s
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := hexPtr(CurrentPalette.Foreground)
	primary := hexPtr(CurrentPalette.Primary)
	secondary := hexPtr(CurrentPalette.Secondary)
	muted := hexPtr(CurrentPalette.Muted)
	surface := hexPtr(CurrentPalette.Surface)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary
	cfg.H3.Color = primary

	cfg.Emph.Color = muted
	cfg.Strong.Color = secondary
	cfg.Table.Color = fg

	return cfg
}
