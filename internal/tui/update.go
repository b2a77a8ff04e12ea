package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"dataroom/pkg/client"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width - 4)
		if msg.Height > 14 {
			m.table.SetHeight(msg.Height - 12)
		}
		return m, nil

	case toastExpiredMsg:
		m.toasts.expire(msg.id)
		return m, nil

	case errMsg:
		m.loading = false
		// An expired or revoked session drops us back to the login form.
		if client.IsStatus(msg.err, 401) && m.view == viewBrowse {
			m.view = viewLogin
			m.resetAuthForm()
			return m, m.toasts.push("Session expired, please log in again", toastError)
		}
		return m, m.toasts.push(msg.err.Error(), toastError)

	case loggedInMsg:
		m.view = viewBrowse
		m.folder = nil
		m.chain = nil
		m.clearSearch()
		cmd := m.reload()
		return m, tea.Batch(cmd, m.toasts.push("Welcome, "+msg.session.User.Name, toastSuccess))

	case loggedOutMsg:
		m.view = viewLogin
		m.folder = nil
		m.chain = nil
		m.entries = nil
		m.clearSearch()
		m.resetAuthForm()
		return m, m.toasts.push("Logged out", toastSuccess)

	case rootLoadedMsg:
		m.loading = false
		m.folder = nil
		m.chain = nil
		if !m.searching() {
			m.setEntries(msg.listing.Folders, msg.listing.Files)
		}
		return m, nil

	case folderLoadedMsg:
		m.loading = false
		folder := msg.contents.Folder
		m.folder = &folder
		m.chain = msg.chain
		if !m.searching() {
			m.setEntries(msg.contents.Subfolders, msg.contents.Files)
		}
		return m, nil

	case searchDebounceMsg:
		if !m.deb.settled(msg.gen) {
			return m, nil
		}
		return m, searchCmd(m.api, msg.gen, msg.query)

	case searchResultsMsg:
		if !m.deb.settled(msg.gen) {
			return m, nil
		}
		m.results = msg.results
		m.setEntries(msg.results.Folders, msg.results.Files)
		return m, nil

	case actionDoneMsg:
		m.closeModal()
		cmd := m.reload()
		return m, tea.Batch(cmd, m.toasts.push(msg.note, toastSuccess))

	case uploadedMsg:
		cmds := []tea.Cmd{m.toasts.push("Uploaded \""+msg.file.Name+"\"", toastSuccess)}
		if next := uploadNextCmd(m.api, m.currentFolderID(), msg.remaining); next != nil {
			cmds = append(cmds, next)
		} else {
			cmds = append(cmds, m.reload())
		}
		return m, tea.Batch(cmds...)

	case uploadFailedMsg:
		cmds := []tea.Cmd{m.toasts.push("Upload failed for "+msg.path+": "+msg.err.Error(), toastError)}
		if next := uploadNextCmd(m.api, m.currentFolderID(), msg.remaining); next != nil {
			cmds = append(cmds, next)
		} else {
			cmds = append(cmds, m.reload())
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		switch m.view {
		case viewLogin, viewRegister:
			return m.updateAuth(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

// updateAuth drives the login and register forms.
func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := m.authFields()

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "shift+tab", "down", "up":
		if msg.String() == "shift+tab" || msg.String() == "up" {
			m.focusIndex--
		} else {
			m.focusIndex++
		}
		if m.focusIndex < 0 {
			m.focusIndex = len(fields) - 1
		}
		if m.focusIndex >= len(fields) {
			m.focusIndex = 0
		}
		for i, f := range fields {
			if i == m.focusIndex {
				f.Focus()
			} else {
				f.Blur()
			}
		}
		return m, nil

	case "ctrl+r":
		if m.view == viewLogin {
			m.view = viewRegister
		} else {
			m.view = viewLogin
		}
		m.resetAuthForm()
		return m, nil

	case "enter":
		if m.focusIndex < len(fields)-1 {
			fields[m.focusIndex].Blur()
			m.focusIndex++
			fields[m.focusIndex].Focus()
			return m, nil
		}
		if m.view == viewLogin {
			return m, loginCmd(m.api, trimmed(m.emailInput), m.passwordInput.Value())
		}
		return m, registerCmd(m.api, trimmed(m.emailInput), trimmed(m.nameInput), m.passwordInput.Value())
	}

	var cmd tea.Cmd
	*fields[m.focusIndex], cmd = fields[m.focusIndex].Update(msg)
	return m, cmd
}

// authFields returns the focusable inputs for the current auth view, in tab
// order.
func (m *Model) authFields() []*textinput.Model {
	if m.view == viewRegister {
		return []*textinput.Model{&m.emailInput, &m.nameInput, &m.passwordInput}
	}
	return []*textinput.Model{&m.emailInput, &m.passwordInput}
}

// updateBrowse drives the main listing: navigation, search and the keys that
// open modals.
func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchInput.Focused() {
		switch msg.String() {
		case "esc":
			m.searchInput.Blur()
			m.clearSearch()
			return m, m.reload()
		case "enter", "down":
			m.searchInput.Blur()
			m.table.Focus()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			if q := trimmed(m.searchInput); q == "" {
				m.deb.gen++
				if m.searching() {
					m.clearSearch()
					return m, tea.Batch(cmd, m.reload())
				}
				return m, cmd
			}
			debCmd := m.deb.input(m.searchInput.Value())
			return m, tea.Batch(cmd, debCmd)
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "/":
		m.table.Blur()
		m.searchInput.Focus()
		return m, textinput.Blink

	case "esc", "backspace", "left":
		if m.searching() {
			m.clearSearch()
			return m, m.reload()
		}
		// Go up one level.
		if m.folder == nil {
			return m, nil
		}
		if m.folder.ParentID == nil {
			m.folder = nil
			m.chain = nil
			return m, m.reload()
		}
		parent := *m.folder.ParentID
		m.loading = true
		return m, loadFolderCmd(m.api, parent)

	case "enter", "right":
		e := m.selected()
		if e == nil {
			return m, nil
		}
		if e.kind == entryFolder {
			m.clearSearch()
			m.loading = true
			return m, loadFolderCmd(m.api, e.folder.ID)
		}
		return m, m.toasts.push("Preview: "+m.api.PreviewURL(e.file.ID), toastSuccess)

	case "n":
		if !m.canWriteHere() {
			return m, m.toasts.push("You can only create folders in your own folders", toastError)
		}
		return m.openModal(modalCreateFolder, "New folder name", nil)

	case "u":
		if !m.canWriteHere() {
			return m, m.toasts.push("You can only upload into your own folders", toastError)
		}
		return m.openModal(modalUpload, "PDF path(s), space separated", nil)

	case "r":
		e := m.selected()
		if e == nil {
			return m, nil
		}
		if !m.canMutate(e) {
			return m, m.toasts.push("You can only rename your own items", toastError)
		}
		return m.openModal(modalRename, "New name", e)

	case "d":
		e := m.selected()
		if e == nil {
			return m, nil
		}
		if !m.canMutate(e) {
			return m, m.toasts.push("You can only delete your own items", toastError)
		}
		return m.openModal(modalDelete, "Type the name to confirm", e)

	case "x":
		m.toasts.dismiss()
		return m, nil

	case "ctrl+l":
		return m, logoutCmd(m.api)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) openModal(kind modalKind, placeholder string, target *entry) (tea.Model, tea.Cmd) {
	m.modal = kind
	m.modalTarget = nil
	if target != nil {
		// The entries slice is rewritten by refreshes that may land while the
		// modal is open, so keep a copy rather than a pointer into it.
		t := *target
		m.modalTarget = &t
	}
	m.modalInput.SetValue("")
	m.modalInput.Placeholder = placeholder
	if kind == modalRename && target != nil {
		if target.kind == entryFolder {
			m.modalInput.SetValue(target.folder.Name)
		} else {
			m.modalInput.SetValue(target.file.Name)
		}
	}
	m.table.Blur()
	m.modalInput.Focus()
	return m, textinput.Blink
}

func (m *Model) closeModal() {
	m.modal = modalNone
	m.modalTarget = nil
	m.modalInput.Blur()
	m.modalInput.SetValue("")
	m.table.Focus()
}

// updateModal drives whichever modal is open.
func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil

	case "enter":
		value := trimmed(m.modalInput)
		switch m.modal {
		case modalCreateFolder:
			if value == "" {
				return m, m.toasts.push("Folder name cannot be empty", toastError)
			}
			return m, createFolderCmd(m.api, value, m.currentFolderID())

		case modalRename:
			if value == "" {
				return m, m.toasts.push("Name cannot be empty", toastError)
			}
			e := m.modalTarget
			if e == nil {
				m.closeModal()
				return m, nil
			}
			if e.kind == entryFolder {
				return m, renameFolderCmd(m.api, e.folder.ID, value)
			}
			return m, renameFileCmd(m.api, e.file.ID, value)

		case modalDelete:
			e := m.modalTarget
			if e == nil {
				m.closeModal()
				return m, nil
			}
			name := e.folder.Name
			if e.kind == entryFile {
				name = e.file.Name
			}
			if value != name {
				return m, m.toasts.push("Name does not match, nothing deleted", toastError)
			}
			if e.kind == entryFolder {
				return m, deleteFolderCmd(m.api, e.folder.ID, name)
			}
			return m, deleteFileCmd(m.api, e.file.ID, name)

		case modalUpload:
			paths := strings.Fields(value)
			if len(paths) == 0 {
				return m, m.toasts.push("No files given", toastError)
			}
			first := uploadNextCmd(m.api, m.currentFolderID(), paths)
			m.closeModal()
			return m, first
		}
	}

	var cmd tea.Cmd
	m.modalInput, cmd = m.modalInput.Update(msg)
	return m, cmd
}
