package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestPrompterConfirm(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{name: "explicit yes", input: "y\n", want: true},
		{name: "explicit yes word", input: "yes\n", want: true},
		{name: "explicit no", input: "n\n", defaultYes: true, want: false},
		{name: "empty takes default no", input: "\n", want: false},
		{name: "empty takes default yes", input: "\n", defaultYes: true, want: true},
		{name: "garbage is no", input: "maybe\n", defaultYes: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Confirm(context.Background(), "Delete account?", tt.defaultYes)
			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "Delete account?") {
				t.Errorf("prompt not written: %q", out.String())
			}
		})
	}
}

func TestPrompterInputFallback(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("\n"), &out)

	got, err := p.Input(context.Background(), "Currency", "€")
	if err != nil {
		t.Fatalf("Input() error = %v", err)
	}
	if got != "€" {
		t.Errorf("Input() = %q, want fallback", got)
	}
}

func TestPrompterCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A reader that never produces input.
	blocked, w := io.Pipe()
	defer w.Close()

	p := NewPrompter(blocked, &bytes.Buffer{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := p.Confirm(ctx, "Continue?", false); err == nil {
			t.Error("Confirm() with canceled context should fail")
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Confirm() did not return after context cancellation")
	}
}
