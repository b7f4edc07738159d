// Package quest tracks the player's local progression: XP, unlocked
// entries, badges, and the daily streak. State lives behind an injected
// persistence backend and is never synced to the server.
package quest

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Fixed XP increments.
const (
	UnlockXP = 10
	DailyXP  = 20
)

// streakBadgeThreshold is the consecutive-day count that earns the streak
// badge.
const streakBadgeThreshold = 7

// firstPrinciplesMarker tags the "definition" entries; unlocking any of
// them earns the first-principles badge.
const firstPrinciplesMarker = "-what"

const dateLayout = "2006-01-02"

// State is the persisted progression record.
type State struct {
	XP        int                 `json:"xp"`
	Unlocked  map[string][]string `json:"unlocked"`
	Badges    []string            `json:"badges"`
	LastDaily string              `json:"lastDaily,omitempty"`
	Streak    int                 `json:"streak"`
}

func newState() *State {
	return &State{
		Unlocked: make(map[string][]string),
		Badges:   []string{},
	}
}

// Backend persists quest state.
type Backend interface {
	Load() (*State, error)
	Save(*State) error
}

// Store mutates quest state through a persistence backend. Methods are safe
// for concurrent use.
type Store struct {
	mu      sync.Mutex
	backend Backend
	state   *State
	// topicSizes maps topic name to total entry count, for the
	// topic-mastery badge.
	topicSizes map[string]int
}

// NewStore loads existing state from the backend, or starts fresh.
// topicSizes names every topic and its total entry count.
func NewStore(backend Backend, topicSizes map[string]int) (*Store, error) {
	state, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load quest state: %w", err)
	}
	if state == nil {
		state = newState()
	}
	if state.Unlocked == nil {
		state.Unlocked = make(map[string][]string)
	}
	if state.XP < 0 {
		state.XP = 0
	}
	return &Store{backend: backend, state: state, topicSizes: topicSizes}, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := State{
		XP:        s.state.XP,
		Unlocked:  make(map[string][]string, len(s.state.Unlocked)),
		Badges:    append([]string(nil), s.state.Badges...),
		LastDaily: s.state.LastDaily,
		Streak:    s.state.Streak,
	}
	for topic, ids := range s.state.Unlocked {
		copied.Unlocked[topic] = append([]string(nil), ids...)
	}
	return copied
}

// AwardUnlock records an unlocked entry. A second call with the same
// (topic, id) is a no-op: XP is added at most once per entry.
func (s *Store) AwardUnlock(topic, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.state.Unlocked[topic] {
		if existing == id {
			return false, nil
		}
	}

	s.state.Unlocked[topic] = append(s.state.Unlocked[topic], id)
	s.state.XP += UnlockXP
	s.recomputeBadges()

	return true, s.backend.Save(s.state)
}

// RecordDailyCompletion records the daily challenge for a UTC date given in
// RFC 3339 or date-only form. Completing the same date twice is a no-op. A
// completion the day after the previous one extends the streak; a gap of
// more than one day resets it to 1.
func (s *Store) RecordDailyCompletion(dateISO string) (bool, error) {
	day, err := parseUTCDate(dateISO)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.LastDaily == day.Format(dateLayout) {
		return false, nil
	}

	if s.state.LastDaily == "" {
		s.state.Streak = 1
	} else {
		previous, err := time.ParseInLocation(dateLayout, s.state.LastDaily, time.UTC)
		if err != nil {
			s.state.Streak = 1
		} else {
			switch diff := int(day.Sub(previous).Hours() / 24); {
			case diff == 1:
				s.state.Streak++
			default:
				s.state.Streak = 1
			}
		}
	}

	s.state.LastDaily = day.Format(dateLayout)
	s.state.XP += DailyXP
	if s.state.Streak >= streakBadgeThreshold {
		s.addBadge("week-streak")
	}
	s.recomputeBadges()

	return true, s.backend.Save(s.state)
}

// Rank breakpoints: a pure step function of cumulative XP.
var rankBreakpoints = []struct {
	minXP int
	name  string
}{
	{600, "Legend"},
	{300, "Expert"},
	{150, "Builder"},
	{50, "Explorer"},
	{0, "Novice"},
}

// Rank returns the rank name for an XP total.
func Rank(xp int) string {
	for _, r := range rankBreakpoints {
		if xp >= r.minXP {
			return r.name
		}
	}
	return "Novice"
}

// Rank returns the store's current rank.
func (s *Store) Rank() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Rank(s.state.XP)
}

// recomputeBadges checks every badge rule against the current unlock sets.
// Earned badges are never revoked. Caller holds the lock.
func (s *Store) recomputeBadges() {
	for topic, total := range s.topicSizes {
		if total > 0 && len(s.state.Unlocked[topic]) >= total {
			s.addBadge("master-" + topic)
		}
	}

	for _, ids := range s.state.Unlocked {
		for _, id := range ids {
			if strings.Contains(id, firstPrinciplesMarker) {
				s.addBadge("first-principles")
			}
		}
	}
}

// addBadge inserts a badge keeping the set property. Caller holds the lock.
func (s *Store) addBadge(badge string) {
	for _, existing := range s.state.Badges {
		if existing == badge {
			return
		}
	}
	s.state.Badges = append(s.state.Badges, badge)
	sort.Strings(s.state.Badges)
}

func parseUTCDate(dateISO string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, dateISO); err == nil {
		return t.UTC().Truncate(24 * time.Hour), nil
	}
	t, err := time.ParseInLocation(dateLayout, dateISO, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateISO, err)
	}
	return t, nil
}
