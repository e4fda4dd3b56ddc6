// Package scoreboard keeps the live scores of ongoing two-team matches.
package scoreboard

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Options struct {
	Logger *slog.Logger     // optional; slog.Default() if nil
	Now    func() time.Time // optional; time.Now if nil
}

// Board is the store of ongoing matches.
//
// matches is kept in summary order (total score desc, then start order desc),
// so Summary is a plain copy and mutations pay the reordering.
type Board struct {
	mu sync.RWMutex

	matches []*Match
	playing map[string]*Match // team name -> its ongoing match, home or away
	seq     uint64

	now func() time.Time
	log *slog.Logger
}

func NewBoard(opts Options) *Board {
	b := &Board{
		playing: make(map[string]*Match),
		now:     opts.Now,
		log:     opts.Logger,
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.log == nil {
		b.log = slog.Default()
	}
	return b
}

// Start begins a 0-0 match between home and away.
func (b *Board) Start(home, away string) (Match, error) {
	home, away, err := normalizeTeams(home, away)
	if err != nil {
		return Match{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, team := range []string{home, away} {
		if cur, ok := b.playing[team]; ok {
			return Match{}, fmt.Errorf("%w: %s is in %s vs %s", ErrTeamAlreadyPlaying, team, cur.HomeTeam, cur.AwayTeam)
		}
	}

	b.seq++
	m := &Match{
		ID:        uuid.NewString(),
		HomeTeam:  home,
		AwayTeam:  away,
		StartedAt: b.now(),
		Seq:       b.seq,
	}
	b.insertLocked(m)
	b.playing[home] = m
	b.playing[away] = m

	b.log.Debug("match started", "id", m.ID, "home", home, "away", away, "seq", m.Seq)
	return *m, nil
}

// UpdateScore overwrites both scores of the match started as (home, away).
// Scores are absolute values, not increments.
func (b *Board) UpdateScore(home string, homeScore int, away string, awayScore int) error {
	if err := validateScore(home, homeScore); err != nil {
		return err
	}
	if err := validateScore(away, awayScore); err != nil {
		return err
	}
	if homeScore > math.MaxInt-awayScore {
		return fmt.Errorf("%w: total of %d and %d overflows", ErrInvalidScore, homeScore, awayScore)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	m, err := b.lookupLocked(home, away)
	if err != nil {
		return err
	}

	b.removeLocked(m)
	m.HomeScore = homeScore
	m.AwayScore = awayScore
	b.insertLocked(m)

	b.log.Debug("score updated", "id", m.ID, "home", m.HomeTeam, "away", m.AwayTeam,
		"homeScore", homeScore, "awayScore", awayScore)
	return nil
}

// Finish removes the match started as (home, away). Both teams may start
// new matches afterwards.
func (b *Board) Finish(home, away string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, err := b.lookupLocked(home, away)
	if err != nil {
		return err
	}

	b.removeLocked(m)
	delete(b.playing, m.HomeTeam)
	delete(b.playing, m.AwayTeam)

	b.log.Debug("match finished", "id", m.ID, "home", m.HomeTeam, "away", m.AwayTeam,
		"homeScore", m.HomeScore, "awayScore", m.AwayScore)
	return nil
}

// Summary returns all ongoing matches, highest total score first; equal
// totals list the most recently started match first.
func (b *Board) Summary() []Match {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Match, len(b.matches))
	for i, m := range b.matches {
		out[i] = *m
	}
	return out
}

// Get returns the ongoing match started as (home, away).
func (b *Board) Get(home, away string) (Match, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	m, err := b.lookupLocked(home, away)
	if err != nil {
		return Match{}, false
	}
	return *m, true
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.matches)
}

// lookupLocked matches home and away in the order the match was started.
func (b *Board) lookupLocked(home, away string) (*Match, error) {
	home, away, err := normalizeTeams(home, away)
	if err == nil {
		m, ok := b.playing[home]
		if ok && m.HomeTeam == home && m.AwayTeam == away {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s vs %s", ErrMatchNotFound, home, away)
}

func (b *Board) insertLocked(m *Match) {
	i := sort.Search(len(b.matches), func(i int) bool {
		return ranksBefore(m, b.matches[i])
	})
	b.matches = slices.Insert(b.matches, i, m)
}

func (b *Board) removeLocked(m *Match) {
	if i := slices.Index(b.matches, m); i >= 0 {
		b.matches = slices.Delete(b.matches, i, i+1)
	}
}
