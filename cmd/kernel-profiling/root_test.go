package main

import (
	"strings"
	"testing"
)

func TestNewRootCmd_FlagDefaults(t *testing.T) {
	cmd := NewRootCmd()

	tests := []struct {
		flag string
		want string
	}{
		{"count", "20"},
		{"versions", "true"},
		{"output", "result.md"},
	}
	for _, tt := range tests {
		f := cmd.Flags().Lookup(tt.flag)
		if f == nil {
			t.Errorf("flag %q not registered", tt.flag)
			continue
		}
		if f.DefValue != tt.want {
			t.Errorf("flag %q default = %q, want %q", tt.flag, f.DefValue, tt.want)
		}
	}
}

func TestNewRootCmd_CompRequired(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error when --comp is missing")
	}
	if !strings.Contains(err.Error(), "comp") {
		t.Errorf("error %q should mention the missing comp flag", err)
	}
}
