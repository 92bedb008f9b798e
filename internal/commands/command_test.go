package commands

import (
	"errors"
	"testing"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/start Client A", TypeStart},
		{"pause", TypePause},
		{"/resume", TypeResume},
		{"STOP", TypeStop},
		{"add 1:30 Internal - Meetings -- weekly sync", TypeAdd},
		{"edit 2", TypeEdit},
		{"delete 7f3c", TypeDelete},
		{"rename Client B", TypeRename},
		{"fileop Saved report.xlsx", TypeFileOp},
		{"layout", TypeLayout},
		{"search acme", TypeSearch},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseArguments(t *testing.T) {
	cmd, err := Parse("add 01:30 Internal - Meetings -- weekly sync")
	if err != nil {
		t.Fatalf("parse add: %v", err)
	}
	if cmd.Add.Duration != 5400 || cmd.Add.Name != "Internal - Meetings" || cmd.Add.Narration != "weekly sync" {
		t.Fatalf("unexpected add args: %+v", cmd.Add)
	}

	cmd, err = Parse("edit 3")
	if err != nil || cmd.Target.Row != 3 || cmd.Target.ID != "" {
		t.Fatalf("unexpected edit target: %+v (%v)", cmd.Target, err)
	}
	cmd, err = Parse("delete 3a9e-11")
	if err != nil || cmd.Target.ID != "3a9e-11" || cmd.Target.Row != 0 {
		t.Fatalf("unexpected delete target: %+v (%v)", cmd.Target, err)
	}

	cmd, err = Parse("layout Vertical")
	if err != nil || cmd.Layout.Layout != "vertical" {
		t.Fatalf("unexpected layout: %+v (%v)", cmd.Layout, err)
	}

	cmd, err = Parse("start")
	if err != nil || cmd.Start.Name != "" {
		t.Fatalf("start without name should parse, got %+v (%v)", cmd.Start, err)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	for _, in := range []string{"add 1:75 Client", "add 1:30", "edit", "delete 0", "rename", "fileop", "layout diagonal"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument error, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}

	_, err = Parse("  /  ")
	if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
		t.Fatalf("expected empty input error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/rename write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Rename: func(a RenameArgs) (Result, error) {
			called = true
			if a.Name != "write docs" {
				t.Fatalf("unexpected name: %q", a.Name)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("pause")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
