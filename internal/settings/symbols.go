package settings

import "github.com/marcus/partman/internal/suggest"

// Command is a statement verb.
type Command int

const (
	CmdBind Command = iota + 1
	CmdGrid
	CmdSetServer
)

var commands = []struct {
	cmd   Command
	name  string
	arity int
}{
	{CmdBind, "Bind", 2},
	{CmdGrid, "Grid", 3},
	{CmdSetServer, "SetServer", 1},
}

// ParseCommand resolves a statement's first word. Matching is case-sensitive.
func ParseCommand(name string) (Command, error) {
	for _, c := range commands {
		if c.name == name {
			return c.cmd, nil
		}
	}
	return 0, &UnknownCommandError{Name: name, Suggestion: suggest.Closest(name, commandNames())}
}

func (c Command) String() string {
	for _, e := range commands {
		if e.cmd == c {
			return e.name
		}
	}
	return "Command(?)"
}

// Arity is the exact number of arguments the command takes.
func (c Command) Arity() int {
	for _, e := range commands {
		if e.cmd == c {
			return e.arity
		}
	}
	return 0
}

func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}
	return names
}

// Action is a symbolic name a chord can be bound to. The shell turns actions
// into UI messages.
type Action int

const (
	ActionLogin Action = iota + 1
	ActionSelectProfile
	ActionImportTab
	ActionSearchTab
	ActionQuit
)

var actions = []struct {
	action Action
	name   string
	desc   string
}{
	{ActionLogin, "Login", "Open the login dialog"},
	{ActionSelectProfile, "SelectProfile", "Choose the active profile"},
	{ActionImportTab, "ImportTab", "Switch to the BOM import tab"},
	{ActionSearchTab, "SearchTab", "Switch to the search tab"},
	{ActionQuit, "Quit", "Quit (when no dialog is open)"},
}

// ParseAction resolves an action name. Matching is case-sensitive.
func ParseAction(name string) (Action, error) {
	for _, a := range actions {
		if a.name == name {
			return a.action, nil
		}
	}
	return 0, &UnknownActionError{Name: name, Suggestion: suggest.Closest(name, actionNames())}
}

func (a Action) String() string {
	for _, e := range actions {
		if e.action == a {
			return e.name
		}
	}
	return "Action(?)"
}

// Description is a one-line summary used in help output.
func (a Action) Description() string {
	for _, e := range actions {
		if e.action == a {
			return e.desc
		}
	}
	return ""
}

// Actions lists every bindable action in declaration order.
func Actions() []Action {
	out := make([]Action, len(actions))
	for i, a := range actions {
		out[i] = a.action
	}
	return out
}

func actionNames() []string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.name
	}
	return names
}

// ServerKind selects which parts server the client talks to.
type ServerKind int

const (
	ServerProduction ServerKind = iota
	ServerDevelopment
)

var serverKinds = []struct {
	kind ServerKind
	name string
}{
	{ServerProduction, "Production"},
	{ServerDevelopment, "Development"},
}

// ParseServerKind resolves a server name. Matching is case-sensitive.
func ParseServerKind(name string) (ServerKind, error) {
	for _, s := range serverKinds {
		if s.name == name {
			return s.kind, nil
		}
	}
	return 0, &UnknownServerKindError{Name: name, Suggestion: suggest.Closest(name, serverKindNames())}
}

func (s ServerKind) String() string {
	for _, e := range serverKinds {
		if e.kind == s {
			return e.name
		}
	}
	return "ServerKind(?)"
}

func serverKindNames() []string {
	names := make([]string, len(serverKinds))
	for i, s := range serverKinds {
		names[i] = s.name
	}
	return names
}
