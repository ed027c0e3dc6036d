package utils

import (
	"testing"
	"time"
)

func TestTimer(t *testing.T) {
	timer := NewTimer()
	if timer.GetDuration() != 0 {
		t.Errorf("GetDuration() before Stop = %v, want 0", timer.GetDuration())
	}

	time.Sleep(2 * time.Millisecond)
	timer.Stop()
	first := timer.GetDuration()
	if first < 2*time.Millisecond {
		t.Errorf("duration %v shorter than the sleep", first)
	}

	timer.Start()
	if timer.GetDuration() != 0 {
		t.Error("Start should clear the previous measurement")
	}
	timer.Stop()
	if second := timer.GetDuration(); second >= first {
		t.Errorf("restarted duration %v should be below %v", second, first)
	}
}
