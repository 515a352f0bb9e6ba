package main

import "testing"

func TestRootCmdRegistersSubcommands(t *testing.T) {
	rootCmd := newRootCmd()
	want := []string{"signup", "profile", "rain", "stats", "progress", "leaderboard", "achievements", "config"}
	for _, name := range want {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected %q subcommand to be registered", name)
		}
	}
}

func TestProgressCmdFlags(t *testing.T) {
	rootCmd := newRootCmd()
	for _, sub := range rootCmd.Commands() {
		if sub.Name() != "progress" {
			continue
		}
		for _, flag := range []string{"user", "from", "to", "window"} {
			if sub.Flags().Lookup(flag) == nil {
				t.Fatalf("expected progress --%s flag", flag)
			}
		}
		return
	}
	t.Fatalf("progress subcommand not registered")
}

func TestDateRange(t *testing.T) {
	from, to, err := dateRange("2026-03-01", "2026-03-08")
	if err != nil {
		t.Fatalf("date range: %v", err)
	}
	if from.Format("2006-01-02") != "2026-03-01" || to.Format("2006-01-02") != "2026-03-08" {
		t.Fatalf("unexpected range: %v .. %v", from, to)
	}

	from, to, err = dateRange("", "")
	if err != nil {
		t.Fatalf("default date range: %v", err)
	}
	if from.AddDate(0, 0, defaultStatsDays).Format("2006-01-02") != to.Format("2006-01-02") {
		t.Fatalf("expected a %d day default range, got %v .. %v", defaultStatsDays, from, to)
	}

	if _, _, err := dateRange("March 1st", ""); err == nil {
		t.Fatalf("expected error for malformed --from")
	}
}
