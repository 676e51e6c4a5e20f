// Package cli parses arguments for the wfs command line tool.
package cli

import "fmt"

type ValidationError struct {
	Arg   string
	Cause string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Arg, e.Cause)
}

type Action int

const (
	ActionSnapshot Action = iota
	ActionRestore
	ActionTree
	ActionSize
)

// Command is a parsed invocation. Source is always set; Dest only for
// actions that take a destination.
type Command struct {
	Action    Action
	Source    string
	Dest      string
	Overwrite bool
}

// Usage describes the accepted invocations.
const Usage = `usage:
  wfs snapshot <dir> <out.zip>
  wfs restore <archive.zip> <dest-dir> [-overwrite]
  wfs tree <dir>
  wfs size <path>`

// Parse validates arity and flags. Path existence is checked later,
// when the command runs.
func Parse(args []string) (*Command, error) {
	if len(args) == 0 {
		return nil, &ValidationError{Arg: "<command>", Cause: "no command provided"}
	}

	cmd, rest := args[0], args[1:]

	var positional []string
	overwrite := false
	for _, a := range rest {
		if a == "-overwrite" || a == "--overwrite" {
			overwrite = true
			continue
		}
		positional = append(positional, a)
	}

	switch cmd {
	case "snapshot":
		if len(positional) != 2 {
			return nil, &ValidationError{Arg: cmd, Cause: "expected <dir> <out.zip>"}
		}
		return &Command{Action: ActionSnapshot, Source: positional[0], Dest: positional[1], Overwrite: overwrite}, nil

	case "restore":
		if len(positional) != 2 {
			return nil, &ValidationError{Arg: cmd, Cause: "expected <archive.zip> <dest-dir>"}
		}
		return &Command{Action: ActionRestore, Source: positional[0], Dest: positional[1], Overwrite: overwrite}, nil

	case "tree":
		if len(positional) != 1 {
			return nil, &ValidationError{Arg: cmd, Cause: "expected <dir>"}
		}
		return &Command{Action: ActionTree, Source: positional[0]}, nil

	case "size":
		if len(positional) != 1 {
			return nil, &ValidationError{Arg: cmd, Cause: "expected <path>"}
		}
		return &Command{Action: ActionSize, Source: positional[0]}, nil

	default:
		return nil, &ValidationError{Arg: cmd, Cause: "unknown command"}
	}
}
