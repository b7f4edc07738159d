package quest

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(NewMemoryBackend(), map[string]int{
		"pdas":   2,
		"tokens": 3,
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestAwardUnlockIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	awarded, err := store.AwardUnlock("pdas", "pp-bump")
	if err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if !awarded {
		t.Fatal("first unlock must award XP")
	}

	awarded, err = store.AwardUnlock("pdas", "pp-bump")
	if err != nil {
		t.Fatalf("repeat unlock failed: %v", err)
	}
	if awarded {
		t.Error("second unlock of the same entry must be a no-op")
	}

	state := store.Snapshot()
	if state.XP != UnlockXP {
		t.Errorf("expected %d XP after a repeated unlock, got %d", UnlockXP, state.XP)
	}
	if got := state.Unlocked["pdas"]; len(got) != 1 || got[0] != "pp-bump" {
		t.Errorf("unexpected unlock set: %v", got)
	}
}

func TestFirstPrinciplesBadge(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if _, err := store.AwardUnlock("pdas", "pp-bump"); err != nil {
		t.Fatal(err)
	}
	if hasBadge(store.Snapshot(), "first-principles") {
		t.Error("badge must not be earned for a non-definition entry")
	}

	if _, err := store.AwardUnlock("pdas", "pp-what"); err != nil {
		t.Fatal(err)
	}
	if !hasBadge(store.Snapshot(), "first-principles") {
		t.Error("unlocking a definition entry must earn first-principles")
	}
}

func TestTopicMasteryBadge(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if _, err := store.AwardUnlock("pdas", "pp-what"); err != nil {
		t.Fatal(err)
	}
	if hasBadge(store.Snapshot(), "master-pdas") {
		t.Error("mastery needs every entry of the topic")
	}

	if _, err := store.AwardUnlock("pdas", "pp-bump"); err != nil {
		t.Fatal(err)
	}
	if !hasBadge(store.Snapshot(), "master-pdas") {
		t.Error("expected master-pdas after unlocking the whole topic")
	}
	if hasBadge(store.Snapshot(), "master-tokens") {
		t.Error("untouched topics must not be mastered")
	}
}

func TestDailyCompletionIdempotentPerDay(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	recorded, err := store.RecordDailyCompletion("2026-03-14")
	if err != nil || !recorded {
		t.Fatalf("first completion: recorded=%v err=%v", recorded, err)
	}

	recorded, err = store.RecordDailyCompletion("2026-03-14T18:30:00Z")
	if err != nil {
		t.Fatal(err)
	}
	if recorded {
		t.Error("same UTC date must not be counted twice")
	}

	state := store.Snapshot()
	if state.XP != DailyXP {
		t.Errorf("expected %d XP, got %d", DailyXP, state.XP)
	}
	if state.Streak != 1 {
		t.Errorf("expected streak 1, got %d", state.Streak)
	}
}

func TestDailyStreakRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		days       []string
		wantStreak int
	}{
		{
			name:       "consecutive days extend",
			days:       []string{"2026-03-10", "2026-03-11", "2026-03-12"},
			wantStreak: 3,
		},
		{
			name:       "a gap resets to one",
			days:       []string{"2026-03-10", "2026-03-11", "2026-03-14"},
			wantStreak: 1,
		},
		{
			name:       "single completion",
			days:       []string{"2026-03-10"},
			wantStreak: 1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newTestStore(t)
			for _, day := range tt.days {
				if _, err := store.RecordDailyCompletion(day); err != nil {
					t.Fatalf("day %s: %v", day, err)
				}
			}
			if got := store.Snapshot().Streak; got != tt.wantStreak {
				t.Errorf("expected streak %d, got %d", tt.wantStreak, got)
			}
		})
	}
}

func TestWeekStreakBadge(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	days := []string{
		"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04",
		"2026-03-05", "2026-03-06", "2026-03-07",
	}
	for i, day := range days {
		if _, err := store.RecordDailyCompletion(day); err != nil {
			t.Fatal(err)
		}
		earned := hasBadge(store.Snapshot(), "week-streak")
		if i < len(days)-1 && earned {
			t.Fatalf("badge earned too early, on day %d", i+1)
		}
		if i == len(days)-1 && !earned {
			t.Error("expected week-streak after seven consecutive days")
		}
	}
}

func TestDailyRejectsBadDates(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if _, err := store.RecordDailyCompletion("not a date"); err == nil {
		t.Error("expected error for an unparseable date")
	}
}

func TestRankBreakpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		xp   int
		want string
	}{
		{0, "Novice"},
		{49, "Novice"},
		{50, "Explorer"},
		{149, "Explorer"},
		{150, "Builder"},
		{299, "Builder"},
		{300, "Expert"},
		{599, "Expert"},
		{600, "Legend"},
		{10000, "Legend"},
	}

	for _, tt := range tests {
		if got := Rank(tt.xp); got != tt.want {
			t.Errorf("Rank(%d) = %q, want %q", tt.xp, got, tt.want)
		}
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "quest.json")
	backend := NewFileBackend(path)

	// Missing file means a fresh start, not an error.
	state, err := backend.Load()
	if err != nil {
		t.Fatalf("load of missing file failed: %v", err)
	}
	if state != nil {
		t.Fatal("expected nil state for a missing file")
	}

	store, err := NewStore(backend, map[string]int{"pdas": 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.AwardUnlock("pdas", "pp-what"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordDailyCompletion("2026-03-14"); err != nil {
		t.Fatal(err)
	}

	// A second store over the same file sees the persisted progression.
	reloaded, err := NewStore(backend, map[string]int{"pdas": 2})
	if err != nil {
		t.Fatal(err)
	}
	state2 := reloaded.Snapshot()
	if state2.XP != UnlockXP+DailyXP {
		t.Errorf("expected %d XP after reload, got %d", UnlockXP+DailyXP, state2.XP)
	}
	if state2.LastDaily != "2026-03-14" {
		t.Errorf("expected lastDaily 2026-03-14, got %q", state2.LastDaily)
	}
	if !hasBadge(state2, "first-principles") {
		t.Error("badges must survive a reload")
	}
}

func hasBadge(state State, badge string) bool {
	for _, b := range state.Badges {
		if b == badge {
			return true
		}
	}
	return false
}
