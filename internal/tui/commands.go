package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dataroom/internal/domain"
	"dataroom/pkg/client"
)

// requestTimeout bounds every API call made from the UI.
const requestTimeout = 15 * time.Second

type (
	loggedInMsg struct {
		session *client.Session
	}
	loggedOutMsg struct{}

	rootLoadedMsg struct {
		listing *client.Listing
	}
	folderLoadedMsg struct {
		contents *domain.FolderContents
		chain    []domain.Folder
	}
	searchResultsMsg struct {
		gen     int
		results *domain.SearchResults
	}
	actionDoneMsg struct {
		note string
	}
	uploadedMsg struct {
		file      *domain.File
		remaining []string
	}
	uploadFailedMsg struct {
		path      string
		err       error
		remaining []string
	}
	errMsg struct {
		err error
	}
)

func apiCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func loginCmd(api *client.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		session, err := api.Login(ctx, email, password)
		if err != nil {
			return errMsg{err}
		}
		return loggedInMsg{session}
	}
}

func registerCmd(api *client.Client, email, name, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		session, err := api.Register(ctx, email, name, password)
		if err != nil {
			return errMsg{err}
		}
		return loggedInMsg{session}
	}
}

func logoutCmd(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		_ = api.Logout(ctx)
		return loggedOutMsg{}
	}
}

func loadRootCmd(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		listing, err := api.ListRoot(ctx, false, 0, 0)
		if err != nil {
			return errMsg{err}
		}
		return rootLoadedMsg{listing}
	}
}

// loadFolderCmd fetches a folder's contents and its breadcrumb chain in one
// command.
func loadFolderCmd(api *client.Client, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		contents, err := api.GetFolder(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		chain, err := api.GetAncestors(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return folderLoadedMsg{contents: contents, chain: chain}
	}
}

func searchCmd(api *client.Client, gen int, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		results, err := api.Search(ctx, query, 0, 0)
		if err != nil {
			return errMsg{err}
		}
		return searchResultsMsg{gen: gen, results: results}
	}
}

func createFolderCmd(api *client.Client, name string, parentID *int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		folder, err := api.CreateFolder(ctx, name, parentID)
		if err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{note: "Folder \"" + folder.Name + "\" created"}
	}
}

func renameFolderCmd(api *client.Client, id int64, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		folder, err := api.RenameFolder(ctx, id, name)
		if err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{note: "Renamed to \"" + folder.Name + "\""}
	}
}

func deleteFolderCmd(api *client.Client, id int64, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		if err := api.DeleteFolder(ctx, id); err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{note: "Folder \"" + name + "\" deleted"}
	}
}

func renameFileCmd(api *client.Client, id int64, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		file, err := api.RenameFile(ctx, id, name)
		if err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{note: "Renamed to \"" + file.Name + "\""}
	}
}

func deleteFileCmd(api *client.Client, id int64, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		if err := api.DeleteFile(ctx, id); err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{note: "File \"" + name + "\" deleted"}
	}
}

// uploadNextCmd uploads the first path in the queue and reports what is left,
// so uploads run one at a time with a toast each.
func uploadNextCmd(api *client.Client, folderID *int64, queue []string) tea.Cmd {
	if len(queue) == 0 {
		return nil
	}
	path, remaining := queue[0], queue[1:]

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadFailedMsg{path: path, err: err, remaining: remaining}
		}
		defer f.Close()

		name := filepath.Base(path)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		file, err := api.Upload(ctx, name, folderID, name, f)
		if err != nil {
			return uploadFailedMsg{path: path, err: err, remaining: remaining}
		}
		return uploadedMsg{file: file, remaining: remaining}
	}
}
