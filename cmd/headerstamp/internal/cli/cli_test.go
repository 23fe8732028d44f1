package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

// TestNoFlagConflicts verifies that all subcommands can be initialized
// without flag shorthand conflicts. This catches issues like multiple
// commands defining the same shorthand (e.g., -v for both --verbosity
// and --verbose).
func TestNoFlagConflicts(t *testing.T) {
	root := RootCmd()
	if root == nil {
		t.Fatal("RootCmd() returned nil")
	}

	var check func(cmd *cobra.Command)
	check = func(cmd *cobra.Command) {
		for _, sub := range cmd.Commands() {
			t.Run(sub.CommandPath(), func(t *testing.T) {
				defer func() {
					if r := recover(); r != nil {
						t.Errorf("flag conflict in %q command: %v", sub.CommandPath(), r)
					}
				}()

				// Merges persistent flags from parents with local flags.
				_ = sub.Flags()
				_ = sub.InheritedFlags()
			})
			check(sub)
		}
	}
	check(root)
}

// TestGlobalFlags verifies the persistent flags on the root command.
func TestGlobalFlags(t *testing.T) {
	root := RootCmd()

	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"verbosity", "v", "1"},
		{"log-format", "", "text"},
		{"config", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := root.PersistentFlags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected persistent %q flag on root command", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("%q shorthand = %q, want %q", tt.name, flag.Shorthand, tt.shorthand)
			}
			if flag.DefValue != tt.def {
				t.Errorf("%q default = %q, want %q", tt.name, flag.DefValue, tt.def)
			}
		})
	}
}

// TestSubcommandsExist verifies expected subcommands are registered.
func TestSubcommandsExist(t *testing.T) {
	root := RootCmd()

	for _, name := range []string{"version", "stamp", "status", "watch", "init", "metadata"} {
		if findCommand(root, name) == nil {
			t.Errorf("expected subcommand %q not found", name)
		}
	}

	meta := findCommand(root, "metadata")
	if meta == nil {
		t.Fatal("metadata command not found")
	}
	for _, name := range []string{"check", "resolve"} {
		if findCommand(meta, name) == nil {
			t.Errorf("expected metadata subcommand %q not found", name)
		}
	}
}

func TestStampCmd_FlagDefaults(t *testing.T) {
	cmd := findCommand(RootCmd(), "stamp")
	if cmd == nil {
		t.Fatal("stamp command not found")
	}

	tests := []struct {
		flagName    string
		wantDefault string
		wantType    string
	}{
		{"no-force", "false", "bool"},
		{"dry-run", "false", "bool"},
		{"check", "false", "bool"},
		{"incremental", "false", "bool"},
		{"json", "false", "bool"},
		{"no-color", "false", "bool"},
		{"metadata", "", "string"},
		{"languages", "[]", "stringSlice"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("flag %q not found on stamp command", tt.flagName)
			}
			if flag.DefValue != tt.wantDefault {
				t.Errorf("flag %q default = %q, want %q", tt.flagName, flag.DefValue, tt.wantDefault)
			}
			if flag.Value.Type() != tt.wantType {
				t.Errorf("flag %q type = %q, want %q", tt.flagName, flag.Value.Type(), tt.wantType)
			}
		})
	}
}

func TestWatchCmd_DebounceDefault(t *testing.T) {
	cmd := findCommand(RootCmd(), "watch")
	if cmd == nil {
		t.Fatal("watch command not found")
	}
	flag := cmd.Flags().Lookup("debounce")
	if flag == nil || flag.DefValue != "500" {
		t.Errorf("debounce flag = %+v, want default 500", flag)
	}
}

func findCommand(parent *cobra.Command, name string) *cobra.Command {
	for _, c := range parent.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
