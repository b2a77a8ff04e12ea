// Package tui is a terminal dashboard for browsing and managing a dataroom:
// folder navigation, PDF upload, rename, delete and live search.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"dataroom/internal/domain"
	"dataroom/pkg/client"
)

type view int

const (
	viewLogin view = iota
	viewRegister
	viewBrowse
)

type entryKind int

const (
	entryFolder entryKind = iota
	entryFile
)

// entry is one row in the browse table, either a folder or a file.
type entry struct {
	kind   entryKind
	folder domain.Folder
	file   domain.File
}

type modalKind int

const (
	modalNone modalKind = iota
	modalCreateFolder
	modalRename
	modalDelete
	modalUpload
)

// Model is the full dashboard state.
type Model struct {
	api *client.Client

	view    view
	width   int
	height  int
	loading bool

	// login / register form
	emailInput    textinput.Model
	nameInput     textinput.Model
	passwordInput textinput.Model
	focusIndex    int

	// browse state. folder == nil means the root listing.
	folder  *domain.Folder
	chain   []domain.Folder
	entries []entry
	table   table.Model

	// search
	searchInput textinput.Model
	deb         debouncer
	results     *domain.SearchResults

	// modal workflow
	modal       modalKind
	modalInput  textinput.Model
	modalTarget *entry

	toasts toastStack
}

// New builds the dashboard. When the client already holds a session the
// browse view opens directly.
func New(api *client.Client) Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	email.Width = 40

	name := textinput.New()
	name.Placeholder = "name"
	name.Width = 40

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.Width = 40

	search := textinput.New()
	search.Placeholder = "Search folders and files…"
	search.Width = 40

	modal := textinput.New()
	modal.Width = 40

	columns := []table.Column{
		{Title: "Name", Width: 40},
		{Title: "Kind", Width: 8},
		{Title: "Size", Width: 10},
		{Title: "Owner", Width: 16},
		{Title: "Modified", Width: 14},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	m := Model{
		api:           api,
		view:          viewLogin,
		emailInput:    email,
		nameInput:     name,
		passwordInput: pass,
		searchInput:   search,
		modalInput:    modal,
		table:         t,
	}
	if api.LoggedIn() {
		m.view = viewBrowse
		m.loading = true
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.view == viewBrowse {
		return tea.Batch(textinput.Blink, loadRootCmd(m.api))
	}
	return textinput.Blink
}

// user returns the logged-in user, or nil.
func (m *Model) user() *domain.User {
	if s := m.api.Session(); s != nil {
		return &s.User
	}
	return nil
}

// canWriteHere reports whether the current user may create folders or upload
// files at the current location. The root is open to everyone; inside a
// folder only its owner may add.
func (m *Model) canWriteHere() bool {
	u := m.user()
	if u == nil {
		return false
	}
	if m.folder == nil {
		return true
	}
	return m.folder.OwnerID == u.ID
}

// canMutate reports whether the current user owns the given entry.
func (m *Model) canMutate(e *entry) bool {
	u := m.user()
	if u == nil || e == nil {
		return false
	}
	if e.kind == entryFolder {
		return e.folder.OwnerID == u.ID
	}
	return e.file.OwnerID == u.ID
}

// selected returns the entry under the table cursor.
func (m *Model) selected() *entry {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return nil
	}
	return &m.entries[i]
}

// setEntries replaces the table contents from folder and file slices.
func (m *Model) setEntries(folders []domain.Folder, files []domain.File) {
	m.entries = m.entries[:0]
	for _, f := range folders {
		m.entries = append(m.entries, entry{kind: entryFolder, folder: f})
	}
	for _, f := range files {
		m.entries = append(m.entries, entry{kind: entryFile, file: f})
	}
	m.refreshRows()
}

func (m *Model) refreshRows() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, entryRow(e))
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// reload returns the command that refreshes the current location.
func (m *Model) reload() tea.Cmd {
	m.loading = true
	if m.folder == nil {
		return loadRootCmd(m.api)
	}
	return loadFolderCmd(m.api, m.folder.ID)
}

// currentFolderID returns the id of the open folder for create and upload
// calls, nil at the root.
func (m *Model) currentFolderID() *int64 {
	if m.folder == nil {
		return nil
	}
	id := m.folder.ID
	return &id
}

// resetAuthForm clears the login and register inputs.
func (m *Model) resetAuthForm() {
	m.emailInput.SetValue("")
	m.nameInput.SetValue("")
	m.passwordInput.SetValue("")
	m.focusIndex = 0
	m.emailInput.Focus()
	m.nameInput.Blur()
	m.passwordInput.Blur()
}

// searching reports whether search results are being shown instead of the
// folder listing.
func (m *Model) searching() bool {
	return m.results != nil
}

// clearSearch drops results and restores the folder listing rows.
func (m *Model) clearSearch() {
	m.results = nil
	m.searchInput.SetValue("")
	m.deb.gen++
}

func trimmed(in textinput.Model) string {
	return strings.TrimSpace(in.Value())
}
