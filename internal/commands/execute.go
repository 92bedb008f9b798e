package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Start  func(StartArgs) (Result, error)
	Pause  func() (Result, error)
	Resume func() (Result, error)
	Stop   func() (Result, error)
	Add    func(AddArgs) (Result, error)
	Edit   func(TargetArgs) (Result, error)
	Delete func(TargetArgs) (Result, error)
	Rename func(RenameArgs) (Result, error)
	FileOp func(FileOpArgs) (Result, error)
	Layout func(LayoutArgs) (Result, error)
	Search func(SearchArgs) (Result, error)
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeStart:
		if handlers.Start == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Start(*cmd.Start)
	case TypePause:
		if handlers.Pause == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Pause()
	case TypeResume:
		if handlers.Resume == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Resume()
	case TypeStop:
		if handlers.Stop == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Stop()
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeEdit:
		if handlers.Edit == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Edit(*cmd.Target)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Delete(*cmd.Target)
	case TypeRename:
		if handlers.Rename == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Rename(*cmd.Rename)
	case TypeFileOp:
		if handlers.FileOp == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.FileOp(*cmd.FileOp)
	case TypeLayout:
		if handlers.Layout == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Layout(*cmd.Layout)
	case TypeSearch:
		if handlers.Search == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Search(*cmd.Search)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
