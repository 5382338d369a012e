package rules

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

type ConflictLevel string

const (
	LevelNone   ConflictLevel = "none"
	LevelLow    ConflictLevel = "low"
	LevelMedium ConflictLevel = "medium"
	LevelHigh   ConflictLevel = "high"
)

// score weights
const (
	genreScore       = 3
	sameWeekScore    = 3
	twoWeeksScore    = 2
	audienceHitScore = 1
	audienceScoreCap = 3
	territoryScore   = 2
	sameWeekWindow   = 7 * 24 * time.Hour
	proximityWindow  = 14 * 24 * time.Hour
	lowThreshold     = 0
	mediumThreshold  = 5
	highThreshold    = 8
)

var levelRank = map[ConflictLevel]int{
	LevelNone:   0,
	LevelLow:    1,
	LevelMedium: 2,
	LevelHigh:   3,
}

// CampaignProfile is the subset of a campaign the conflict scorer looks at.
type CampaignProfile struct {
	CampaignID       uuid.UUID
	FilmTitle        string
	Genres           []string
	StartDate        time.Time
	AudienceKeywords []string
	Territories      []string
}

type ConflictMatch struct {
	CampaignID      uuid.UUID     `json:"campaign_id"`
	OtherCampaignID uuid.UUID     `json:"other_campaign_id"`
	OtherFilmTitle  string        `json:"other_film_title"`
	Score           int           `json:"score"`
	Level           ConflictLevel `json:"level"`
	Reasons         []string      `json:"reasons"`
}

// LevelForScore buckets a score into none/low/medium/high.
func LevelForScore(score int) ConflictLevel {
	switch {
	case score <= lowThreshold:
		return LevelNone
	case score < mediumThreshold:
		return LevelLow
	case score < highThreshold:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// Worse reports whether a is a more severe level than b.
func Worse(a, b ConflictLevel) bool {
	return levelRank[a] > levelRank[b]
}

func HighestLevel(matches []ConflictMatch) ConflictLevel {
	out := LevelNone
	for _, m := range matches {
		if Worse(m.Level, out) {
			out = m.Level
		}
	}
	return out
}

// DetectConflicts scores candidate against every existing campaign and returns
// the pairs that reach at least a low level, worst first.
func DetectConflicts(candidate CampaignProfile, existing []CampaignProfile) []ConflictMatch {
	out := make([]ConflictMatch, 0)

	for _, other := range existing {
		if other.CampaignID == candidate.CampaignID {
			continue
		}

		score, reasons := ScorePair(candidate, other)
		level := LevelForScore(score)
		if level == LevelNone {
			continue
		}

		out = append(out, ConflictMatch{
			CampaignID:      candidate.CampaignID,
			OtherCampaignID: other.CampaignID,
			OtherFilmTitle:  other.FilmTitle,
			Score:           score,
			Level:           level,
			Reasons:         reasons,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].OtherCampaignID.String() < out[j].OtherCampaignID.String()
	})

	return out
}

// ScorePair returns the overlap score between two campaigns. Without a shared
// genre the score is always zero.
func ScorePair(a, b CampaignProfile) (int, []string) {
	genres := intersect(a.Genres, b.Genres)
	if len(genres) == 0 {
		return 0, nil
	}

	score := genreScore
	reasons := []string{"genre: " + strings.Join(genres, ", ")}

	if !a.StartDate.IsZero() && !b.StartDate.IsZero() {
		gap := a.StartDate.Sub(b.StartDate)
		if gap < 0 {
			gap = -gap
		}
		switch {
		case gap <= sameWeekWindow:
			score += sameWeekScore
			reasons = append(reasons, "start dates within 7 days")
		case gap <= proximityWindow:
			score += twoWeeksScore
			reasons = append(reasons, "start dates within 14 days")
		}
	}

	if shared := intersect(a.AudienceKeywords, b.AudienceKeywords); len(shared) > 0 {
		hits := len(shared) * audienceHitScore
		if hits > audienceScoreCap {
			hits = audienceScoreCap
		}
		score += hits
		reasons = append(reasons, "audience: "+strings.Join(shared, ", "))
	}

	if shared := intersect(a.Territories, b.Territories); len(shared) > 0 {
		score += territoryScore
		reasons = append(reasons, "territory: "+strings.Join(shared, ", "))
	}

	return score, reasons
}

// intersect returns the case-folded values present in both lists, in the order
// they appear in a, without duplicates.
func intersect(a, b []string) []string {
	fold := cases.Fold()

	right := make(map[string]struct{}, len(b))
	for _, v := range b {
		if k := normalize(fold, v); k != "" {
			right[k] = struct{}{}
		}
	}

	var out []string
	seen := make(map[string]struct{})
	for _, v := range a {
		k := normalize(fold, v)
		if k == "" {
			continue
		}
		if _, ok := right[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func normalize(fold cases.Caser, s string) string {
	return fold.String(strings.TrimSpace(s))
}
