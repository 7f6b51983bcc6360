package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/painel/internal/core/styles"
)

// Modal represents a confirmation dialog.
type Modal struct {
	title           string
	message         string
	visible         bool
	confirmSelected bool
}

// NewModal creates a visible modal with the cancel button selected.
func NewModal(title, message string) Modal {
	return Modal{
		title:   title,
		message: message,
		visible: true,
	}
}

// ToggleSelection switches the selected button.
func (m *Modal) ToggleSelection() {
	m.confirmSelected = !m.confirmSelected
}

// ConfirmSelected returns true if the confirm button is selected.
func (m Modal) ConfirmSelected() bool {
	return m.confirmSelected
}

// Visible returns whether the modal should be displayed.
func (m Modal) Visible() bool {
	return m.visible
}

// Overlay renders the modal centered over the screen area, replacing the
// background.
func (m Modal) Overlay(background string, width, height int) string {
	if !m.visible {
		return background
	}

	confirmBtn := styles.ButtonStyle.Render("Confirm")
	cancelBtn := styles.ButtonSelectedStyle.Render("Cancel")
	if m.confirmSelected {
		confirmBtn = styles.ButtonSelectedStyle.Render("Confirm")
		cancelBtn = styles.ButtonStyle.Render("Cancel")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, confirmBtn, "  ", cancelBtn)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		"",
		m.message,
		lipgloss.NewStyle().MarginTop(1).Render(buttons),
		styles.HelpStyle.Render("y confirm  n/esc cancel  ←/→ select"),
	)

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content),
	)
}
