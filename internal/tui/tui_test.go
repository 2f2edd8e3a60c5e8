package tui

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewProgram_StopsWhenContextIsCancelled(t *testing.T) {
	m := newTestModel(t, newFakeStore(sampleRecords()...))

	ctx, cancel := context.WithCancel(context.Background())
	p := newProgram(ctx, m, tea.WithInput(nil), tea.WithOutput(io.Discard))

	done := make(chan error, 1)
	go func() {
		_, err := p.Run()
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, tea.ErrProgramKilled) {
			t.Fatalf("expected ErrProgramKilled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		p.Kill()
		t.Fatalf("program kept running after its context was cancelled")
	}
}
