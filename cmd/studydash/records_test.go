package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestCommandTree(t *testing.T) {
	paths := [][]string{
		{"config", "init"},
		{"config", "keys", "init"},
		{"overview"},
		{"assignments"},
		{"assignment", "advance"},
		{"assignment", "add"},
		{"course", "edit"},
		{"slot", "rm"},
		{"event", "add"},
		{"user", "set"},
		{"theme", "toggle"},
		{"export", "timetable"},
		{"snapshot", "pull"},
		{"status"},
	}

	for _, p := range paths {
		cmd, rest, err := rootCmd.Find(p)
		if err != nil || len(rest) != 0 || cmd.Name() != p[len(p)-1] {
			t.Errorf("Find(%v) = %v, %v, %v", p, cmd.Name(), rest, err)
		}
	}
}

func TestChangedFields(t *testing.T) {
	flags := []recordFlag{{name: "title"}, {name: "due"}, {name: "course"}}
	cmd := &cobra.Command{Use: "edit"}
	for _, f := range flags {
		cmd.Flags().String(f.name, "", "")
	}

	if err := cmd.ParseFlags([]string{"--title", "Lab 5", "--course", ""}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	got := changedFields(cmd, flags)
	if len(got) != 2 || got["title"] != "Lab 5" {
		t.Errorf("changedFields() = %v, want title and course", got)
	}
	if v, ok := got["course"]; !ok || v != "" {
		t.Errorf("explicitly emptied course not kept: %v", got)
	}
	if _, ok := got["due"]; ok {
		t.Error("unset flag reported as changed")
	}
}
