package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"dataroom/pkg/format"
)

func (m Model) View() string {
	var body string
	switch m.view {
	case viewLogin, viewRegister:
		body = m.authView()
	default:
		body = m.browseView()
	}

	if toasts := m.toasts.view(); toasts != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, toasts)
	}
	return baseStyle.Render(body)
}

func (m Model) authView() string {
	var b strings.Builder

	if m.view == viewLogin {
		b.WriteString(titleStyle.Render("Dataroom · Sign in"))
		b.WriteString("\n")
		b.WriteString(inputStyle.Render(m.emailInput.View()))
		b.WriteString("\n")
		b.WriteString(inputStyle.Render(m.passwordInput.View()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("Enter to sign in, Tab to move, Ctrl+R to create an account, Esc to quit."))
	} else {
		b.WriteString(titleStyle.Render("Dataroom · Create account"))
		b.WriteString("\n")
		b.WriteString(inputStyle.Render(m.emailInput.View()))
		b.WriteString("\n")
		b.WriteString(inputStyle.Render(m.nameInput.View()))
		b.WriteString("\n")
		b.WriteString(inputStyle.Render(m.passwordInput.View()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("Enter to register, Tab to move, Ctrl+R to go back to sign in, Esc to quit."))
	}

	return b.String()
}

func (m Model) browseView() string {
	var b strings.Builder

	header := breadcrumbRoot
	if m.searching() {
		header = fmt.Sprintf("Search results for %q", m.results.Query)
	} else if m.folder != nil {
		header = Breadcrumb(m.chain)
	}
	b.WriteString(crumbStyle.Render(header))
	b.WriteString("\n")

	b.WriteString(inputStyle.Render("🔍 " + m.searchInput.View()))
	b.WriteString("\n")

	if m.loading {
		b.WriteString("Loading…\n")
	} else if len(m.entries) == 0 {
		if m.searching() {
			b.WriteString(helpStyle.Render("No matches."))
		} else {
			b.WriteString(helpStyle.Render("This folder is empty."))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	if m.modal != modalNone {
		b.WriteString("\n")
		b.WriteString(m.modalView())
		b.WriteString("\n")
	}

	help := "Enter open · n new folder · u upload · r rename · d delete · / search · x dismiss toast · Ctrl+L logout · q quit"
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m Model) modalView() string {
	var title string
	switch m.modal {
	case modalCreateFolder:
		title = "Create folder"
	case modalRename:
		title = "Rename"
	case modalDelete:
		title = "Delete (cannot be undone)"
	case modalUpload:
		title = "Upload PDFs"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		m.modalInput.View(),
		helpStyle.Render("Enter to confirm, Esc to cancel"),
	)
	return modalStyle.Render(content)
}

// entryRow formats one table row for a folder or file entry.
func entryRow(e entry) table.Row {
	if e.kind == entryFolder {
		return table.Row{
			"📁 " + e.folder.Name,
			"folder",
			"-",
			e.folder.OwnerName,
			format.RelTime(e.folder.UpdatedAt),
		}
	}
	return table.Row{
		"📄 " + e.file.Name,
		"file",
		format.FileSize(e.file.SizeBytes),
		e.file.OwnerName,
		format.RelTime(e.file.UpdatedAt),
	}
}
