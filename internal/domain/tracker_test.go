package domain

import (
	"path/filepath"
	"testing"
)

const testLogPath = "/work/productivity_log.json"

func TestTracker_OpenIsIdempotent(t *testing.T) {
	tr := NewTracker(testLogPath)

	if !tr.Open("/work/a.txt", "hello") {
		t.Fatal("first open should set a baseline")
	}
	if tr.Open("/work/a.txt", "hello world, much longer now") {
		t.Error("second open should not reset the baseline")
	}

	got, ok := tr.Baseline("/work/a.txt")
	if !ok || got != 5 {
		t.Errorf("Baseline = %d, %v; want 5, true", got, ok)
	}
}

func TestTracker_SaveAccumulatesGrowth(t *testing.T) {
	tr := NewTracker(testLogPath)
	tr.Open("/work/a.txt", "hello")

	if got := tr.Save("/work/a.txt", "hello world"); got != 5 {
		t.Errorf("Save delta = %d, want 5", got)
	}
	if got := tr.Pending("/work/a.txt"); got != 5 {
		t.Errorf("Pending = %d, want 5", got)
	}
	if got, _ := tr.Baseline("/work/a.txt"); got != 10 {
		t.Errorf("Baseline = %d, want 10", got)
	}
}

func TestTracker_SaveShrinkLowersBaselineOnly(t *testing.T) {
	tr := NewTracker(testLogPath)
	tr.Open("/work/a.txt", "hello world")

	if got := tr.Save("/work/a.txt", "hi"); got != 0 {
		t.Errorf("Save delta = %d, want 0", got)
	}
	if got := tr.PendingFiles(); got != 0 {
		t.Errorf("PendingFiles = %d, want 0", got)
	}
	if got, _ := tr.Baseline("/work/a.txt"); got != 2 {
		t.Errorf("Baseline = %d, want 2", got)
	}

	// growth is measured from the lowered baseline
	if got := tr.Save("/work/a.txt", "hi there"); got != 5 {
		t.Errorf("Save delta = %d, want 5", got)
	}
}

func TestTracker_SaveWithoutOpenCountsEverything(t *testing.T) {
	tr := NewTracker(testLogPath)

	if got := tr.Save("/work/new.go", "package main"); got != 11 {
		t.Errorf("Save delta = %d, want 11", got)
	}
}

func TestTracker_RepeatedSavesMergeIntoOneDelta(t *testing.T) {
	tr := NewTracker(testLogPath)
	tr.Open("x", "")

	tr.Save("x", "abc")
	tr.Save("x", "abcde")

	deltas := tr.Drain()
	if len(deltas) != 1 {
		t.Fatalf("Drain returned %d deltas, want 1", len(deltas))
	}
	if deltas[0] != (Delta{FileName: "x", Chars: 5}) {
		t.Errorf("delta = %+v, want {x 5}", deltas[0])
	}
}

func TestTracker_DrainKeepsFirstGrowthOrderAndClears(t *testing.T) {
	tr := NewTracker(testLogPath)
	for _, f := range []string{"c", "a", "b"} {
		tr.Save(f, "xx")
	}
	tr.Save("c", "xxxx")

	deltas := tr.Drain()
	want := []Delta{{"c", 4}, {"a", 2}, {"b", 2}}
	if len(deltas) != len(want) {
		t.Fatalf("Drain returned %d deltas, want %d", len(deltas), len(want))
	}
	for i := range want {
		if deltas[i] != want[i] {
			t.Errorf("delta[%d] = %+v, want %+v", i, deltas[i], want[i])
		}
	}

	if again := tr.Drain(); len(again) != 0 {
		t.Errorf("second Drain returned %d deltas, want 0", len(again))
	}
	if got, _ := tr.Baseline("c"); got != 4 {
		t.Errorf("Drain must not touch baselines, got %d", got)
	}
}

func TestTracker_IgnoresOwnLogFile(t *testing.T) {
	tr := NewTracker(testLogPath)

	tests := []string{
		testLogPath,
		"/work/./productivity_log.json",
		filepath.Join("/elsewhere", "productivity_log.json"),
	}
	for _, path := range tests {
		if tr.Open(path, "[]") {
			t.Errorf("Open(%q) set a baseline for the log file", path)
		}
		if got := tr.Save(path, `[{"charsAdded": 1}]`); got != 0 {
			t.Errorf("Save(%q) = %d, want 0", path, got)
		}
		if _, ok := tr.Baseline(path); ok {
			t.Errorf("log file %q has a baseline", path)
		}
	}
}
