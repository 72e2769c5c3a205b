package shell

import (
	"context"
	"time"

	"github.com/marcus/partman/internal/partsclient"
)

// PartsService is the slice of the parts server the shell talks to.
// *partsclient.Client satisfies it.
type PartsService interface {
	CreateUser(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) error
	ListParts(ctx context.Context, name, description string) ([]partsclient.PartWithStock, error)
	NewPart(ctx context.Context, name, description string) error
	StockPart(ctx context.Context, partID, stock int64, row, column, z int) error
	ListProfiles(ctx context.Context) ([]partsclient.Profile, error)
	NewProfile(ctx context.Context, name string) error
	SelectProfile(p partsclient.Profile)
	Profile() *partsclient.Profile
}

var _ PartsService = (*partsclient.Client)(nil)

// requestTimeout bounds every server call made from the shell.
const requestTimeout = 10 * time.Second

// statusTTL is how long a status line message stays visible.
const statusTTL = 4 * time.Second

// Tab identifies the main content area.
type Tab int

const (
	TabSearch Tab = iota
	TabImport
)

func (t Tab) String() string {
	switch t {
	case TabImport:
		return "Import"
	default:
		return "Search"
	}
}

// ModalKind identifies the dialog drawn over the main view.
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalLogin
	ModalProfiles
	ModalHelp
	ModalStock
)

// Cell addresses one bin in the storage grid.
type Cell struct {
	Row, Column, Z int
}

// --- Messages ---

// LoginResultMsg reports the outcome of a login or account creation.
type LoginResultMsg struct {
	Email   string
	Created bool
	Err     error
}

// ProfilesMsg carries the user's profiles.
type ProfilesMsg struct {
	Profiles []partsclient.Profile
	Err      error
}

// ProfileCreatedMsg reports the outcome of creating a profile.
type ProfileCreatedMsg struct {
	Name string
	Err  error
}

// PartsMsg carries the result of a part search.
type PartsMsg struct {
	Parts []partsclient.PartWithStock
	Err   error
}

// PartAddedMsg reports the outcome of adding a part from the import tab.
type PartAddedMsg struct {
	Name string
	Err  error
}

// StockChangedMsg reports the outcome of a stock edit.
type StockChangedMsg struct {
	PartID int64
	Name   string
	Stock  int64
	Cell   Cell
	Err    error
}

// HelpRenderedMsg carries the rendered help text.
type HelpRenderedMsg struct {
	Text string
	Err  error
}

// ClearStatusMsg clears the status line if it still shows the message
// with the same sequence number.
type ClearStatusMsg struct {
	Seq int
}
