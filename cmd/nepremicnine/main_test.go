package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelRouterSplitsByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(&levelRouter{
		stdout: slog.NewTextHandler(&stdout, nil),
		stderr: slog.NewTextHandler(&stderr, nil),
	}).With("component", "test")

	logger.Info("hello")
	logger.Warn("careful")
	logger.Error("broken")
	logger.Debug("hidden")

	if !strings.Contains(stdout.String(), "hello") || !strings.Contains(stdout.String(), "careful") {
		t.Errorf("stdout missing info/warn records: %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "broken") {
		t.Error("error record written to stdout")
	}
	if !strings.Contains(stderr.String(), "broken") || !strings.Contains(stderr.String(), "component=test") {
		t.Errorf("stderr missing error record with attrs: %q", stderr.String())
	}
	if strings.Contains(stdout.String()+stderr.String(), "hidden") {
		t.Error("debug record should be dropped")
	}
}

func TestFlagKeysCoverShortAndLongForms(t *testing.T) {
	pairs := [][2]string{{"d", "db"}, {"a", "addr"}, {"l", "log"}}
	for _, p := range pairs {
		if flagKeys[p[0]] == "" || flagKeys[p[0]] != flagKeys[p[1]] {
			t.Errorf("flags -%s and -%s should map to the same key", p[0], p[1])
		}
	}
}
