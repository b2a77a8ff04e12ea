package config

const (
	// MaxNameLength is the maximum length for folder and file display names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxNameLength = 255

	// MinPasswordLength is the minimum accepted password length at registration.
	MinPasswordLength = 6

	// DefaultListLimit and MaxListLimit bound folder/user listing pagination.
	DefaultListLimit = 100
	MaxListLimit     = 1000

	// DefaultSearchLimit and MaxSearchLimit bound search pagination.
	DefaultSearchLimit = 50
	MaxSearchLimit     = 500

	// MinSearchQueryLength is the shortest query the search endpoint accepts.
	MinSearchQueryLength = 2
)
