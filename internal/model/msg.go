package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// RecordsLoadedMsg is sent when the provider of a tab returned.
type RecordsLoadedMsg struct {
	Tab     int
	Records []Record
	Err     error
}

// CopiedMsg is sent after a cell value was copied to the clipboard.
type CopiedMsg struct {
	Value string
	Err   error
}

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeEdit
	ModeFilter
)
