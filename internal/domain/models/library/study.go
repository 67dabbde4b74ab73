package library

import (
	"sort"
	"time"
)

// Attempt is one timed study pass over a deck.
type Attempt struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	DeckID      string    `json:"deck_id" db:"deck_id"`
	Correct     int       `json:"correct" db:"correct"`
	Total       int       `json:"total" db:"total"`
	DurationMS  int64     `json:"duration_ms" db:"duration_ms"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
}

// Accuracy returns correct/total in [0,1]; 0 for an empty attempt.
func (a Attempt) Accuracy() float64 {
	if a.Total <= 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Total)
}

// DeckStats aggregates all attempts on a deck.
type DeckStats struct {
	DeckID         string     `json:"deck_id"`
	Attempts       int        `json:"attempts"`
	CardsSeen      int        `json:"cards_seen"`
	CardsCorrect   int        `json:"cards_correct"`
	Accuracy       float64    `json:"accuracy"` // CardsCorrect / CardsSeen
	BestDurationMS *int64     `json:"best_duration_ms"`
	LastStudiedAt  *time.Time `json:"last_studied_at"`
}

// Streak describes runs of consecutive study days.
type Streak struct {
	Current      int     `json:"current"`
	Longest      int     `json:"longest"`
	LastStudyDay *string `json:"last_study_day"` // YYYY-MM-DD in the caller's time zone
}

const dayLayout = "2006-01-02"

// ComputeStreak derives the current and longest streak from attempt completion times.
// Days are calendar days in loc. The current streak only counts if its last day is
// today or yesterday, so a streak survives until the end of the following day.
func ComputeStreak(completions []time.Time, now time.Time, loc *time.Location) Streak {
	if loc == nil {
		loc = time.UTC
	}
	if len(completions) == 0 {
		return Streak{}
	}

	seen := make(map[string]bool, len(completions))
	days := make([]time.Time, 0, len(completions))
	for _, t := range completions {
		local := t.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		key := day.Format(dayLayout)
		if seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if isNextDay(days[i-1], days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	last := days[len(days)-1]
	lastKey := last.Format(dayLayout)

	nowLocal := now.In(loc)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, loc)

	current := 0
	if sameDay(last, today) || isNextDay(last, today) {
		current = run
	}

	return Streak{
		Current:      current,
		Longest:      longest,
		LastStudyDay: &lastKey,
	}
}

// isNextDay reports whether b is the calendar day after a. Uses AddDate so DST
// transitions (23h/25h days) are handled.
func isNextDay(a, b time.Time) bool {
	return sameDay(a.AddDate(0, 0, 1), b)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
