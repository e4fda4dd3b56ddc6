package scoreboard

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidTeams       = errors.New("invalid teams")
	ErrTeamAlreadyPlaying = errors.New("team already playing")
	ErrMatchNotFound      = errors.New("match not found")
	ErrInvalidScore       = errors.New("invalid score")
)

// Match is a copy of one ongoing match. Changing it does not touch the board.
type Match struct {
	ID        string
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
	StartedAt time.Time
	Seq       uint64 // start order, strictly increasing per board
}

func (m Match) TotalScore() int {
	return m.HomeScore + m.AwayScore
}

// String renders the scoreboard line, e.g. "Spain 10 - Brazil 2".
func (m Match) String() string {
	return fmt.Sprintf("%s %d - %s %d", m.HomeTeam, m.HomeScore, m.AwayTeam, m.AwayScore)
}

// ranksBefore reports whether a is listed above b in the summary.
func ranksBefore(a, b *Match) bool {
	if ta, tb := a.TotalScore(), b.TotalScore(); ta != tb {
		return ta > tb
	}
	return a.Seq > b.Seq
}

// normalizeTeams trims surrounding whitespace so " Spain" and "Spain" are the
// same team, then checks the pair.
func normalizeTeams(home, away string) (string, string, error) {
	home, away = strings.TrimSpace(home), strings.TrimSpace(away)
	return home, away, validateTeams(home, away)
}

func validateTeams(home, away string) error {
	if home == "" || away == "" {
		return fmt.Errorf("%w: team name is empty", ErrInvalidTeams)
	}
	if home == away {
		return fmt.Errorf("%w: %s cannot play with itself", ErrInvalidTeams, home)
	}
	return nil
}

func validateScore(team string, score int) error {
	if score < 0 {
		return fmt.Errorf("%w: %s score %d is negative", ErrInvalidScore, team, score)
	}
	return nil
}
