package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/tasklog/internal/model"
)

type Type string

const (
	TypeStart  Type = "start"
	TypePause  Type = "pause"
	TypeResume Type = "resume"
	TypeStop   Type = "stop"
	TypeAdd    Type = "add"
	TypeEdit   Type = "edit"
	TypeDelete Type = "delete"
	TypeRename Type = "rename"
	TypeFileOp Type = "fileop"
	TypeLayout Type = "layout"
	TypeSearch Type = "search"
)

// Names lists the palette commands in display order.
func Names() []Type {
	return []Type{TypeStart, TypePause, TypeResume, TypeStop, TypeAdd, TypeEdit, TypeDelete, TypeRename, TypeFileOp, TypeLayout, TypeSearch}
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type StartArgs struct {
	Name string
}

// AddArgs describes a retroactive task: add <HH:MM[:SS]> <name> [-- narration].
type AddArgs struct {
	Duration  int64
	Name      string
	Narration string
}

// TargetArgs selects a logged task by its 1-based row in the log view or by id.
type TargetArgs struct {
	Row int
	ID  string
}

type RenameArgs struct {
	Name string
}

type FileOpArgs struct {
	Operation string
	Details   string
}

// LayoutArgs.Layout is empty when the command should toggle.
type LayoutArgs struct {
	Layout string
}

type SearchArgs struct {
	Query string
}

type Command struct {
	Type   Type
	Raw    string
	Start  *StartArgs
	Add    *AddArgs
	Target *TargetArgs
	Rename *RenameArgs
	FileOp *FileOpArgs
	Layout *LayoutArgs
	Search *SearchArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeStart:
		return Command{Type: TypeStart, Raw: input, Start: &StartArgs{Name: strings.Join(args, " ")}}, nil
	case TypePause, TypeResume, TypeStop:
		return Command{Type: Type(head), Raw: input}, nil
	case TypeAdd:
		return parseAdd(input, args)
	case TypeEdit, TypeDelete:
		return parseTarget(input, Type(head), args)
	case TypeRename:
		return parseRename(input, args)
	case TypeFileOp:
		return parseFileOp(input, args)
	case TypeLayout:
		return parseLayout(input, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Query: strings.Join(args, " ")}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a duration and a name"}
	}
	secs, err := model.ParseDuration(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	rest := strings.Join(args[1:], " ")
	name, narration, _ := strings.Cut(rest, "--")
	name = strings.TrimSpace(name)
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a name"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Duration: secs, Name: name, Narration: strings.TrimSpace(narration)}}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a row number or task id", typ)}
	}
	target := &TargetArgs{}
	if row, err := strconv.Atoi(args[0]); err == nil {
		if row < 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "row numbers start at 1"}
		}
		target.Row = row
	} else {
		target.ID = args[0]
	}
	return Command{Type: typ, Raw: raw, Target: target}, nil
}

func parseRename(raw string, args []string) (Command, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "rename requires a name"}
	}
	return Command{Type: TypeRename, Raw: raw, Rename: &RenameArgs{Name: name}}, nil
}

func parseFileOp(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "fileop requires an operation"}
	}
	return Command{Type: TypeFileOp, Raw: raw, FileOp: &FileOpArgs{Operation: args[0], Details: strings.Join(args[1:], " ")}}, nil
}

func parseLayout(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Type: TypeLayout, Raw: raw, Layout: &LayoutArgs{}}, nil
	}
	layout := strings.ToLower(args[0])
	switch layout {
	case "horizontal", "vertical":
		return Command{Type: TypeLayout, Raw: raw, Layout: &LayoutArgs{Layout: layout}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "layout must be horizontal or vertical"}
	}
}
