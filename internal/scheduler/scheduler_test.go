package scheduler

import (
	"testing"
	"time"
)

func TestNewWithBadTimezone(t *testing.T) {
	s, err := New(nil, "Not/AZone")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.timezone != time.UTC {
		t.Errorf("expected UTC fallback for unknown timezone, got %v", s.timezone)
	}
}

func TestStartAndStop(t *testing.T) {
	s, err := New(nil, "Asia/Seoul")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestGenerateWeeklyNowWithoutGenerator(t *testing.T) {
	s, err := New(nil, "UTC")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// No generative service configured: the pass is a logged no-op
	if err := s.GenerateWeeklyNow(); err != nil {
		t.Errorf("GenerateWeeklyNow: %v", err)
	}
}
