package shared

import (
	"errors"
	"os/exec"
	"testing"
)

func TestBrowser(t *testing.T) {
	t.Run("browserCommand", func(t *testing.T) {
		tc := []struct {
			goos    string
			wantErr bool
		}{
			{goos: "darwin"},
			{goos: "linux"},
			{goos: "windows"},
			{goos: "plan9", wantErr: true},
		}

		for _, tt := range tc {
			t.Run(tt.goos, func(t *testing.T) {
				cmd, err := browserCommand(tt.goos, "https://example.com")
				if tt.wantErr {
					if err == nil {
						t.Error("expected error for unsupported platform")
					}
					return
				}
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if last := cmd.Args[len(cmd.Args)-1]; last != "https://example.com" {
					t.Errorf("expected url as last arg, got %s", last)
				}
			})
		}
	})

	t.Run("OpenBrowser Start Failure", func(t *testing.T) {
		orig := startCommand
		t.Cleanup(func() { startCommand = orig })
		startCommand = func(*exec.Cmd) error { return errors.New("boom") }

		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected start failure to surface")
		}
	})
}
