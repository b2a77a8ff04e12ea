package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"dataroom/internal/tui"
	"dataroom/pkg/client"
)

func main() {
	baseURL := os.Getenv("DATAROOM_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	sessionPath := os.Getenv("DATAROOM_SESSION_FILE")
	if sessionPath == "" {
		var err error
		sessionPath, err = client.DefaultSessionPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to resolve session path: %v\n", err)
			os.Exit(1)
		}
	}

	api, err := client.New(baseURL,
		client.WithSessionStore(client.NewFileStore(sessionPath)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(tui.New(api), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting program: %v\n", err)
		os.Exit(1)
	}
}
