package rules

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestLevelForScore(t *testing.T) {
	cases := []struct {
		score int
		want  ConflictLevel
	}{
		{-1, LevelNone},
		{0, LevelNone},
		{1, LevelLow},
		{4, LevelLow},
		{5, LevelMedium},
		{7, LevelMedium},
		{8, LevelHigh},
		{12, LevelHigh},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, LevelForScore(c.score), "score %d", c.score)
	}
}

func TestScorePair_GenreRequired(t *testing.T) {
	a := CampaignProfile{
		CampaignID:       uuid.New(),
		Genres:           []string{"Horror"},
		StartDate:        day(0),
		AudienceKeywords: []string{"teens", "gamers"},
		Territories:      []string{"US"},
	}
	b := CampaignProfile{
		CampaignID:       uuid.New(),
		Genres:           []string{"Comedy"},
		StartDate:        day(0),
		AudienceKeywords: []string{"teens", "gamers"},
		Territories:      []string{"US"},
	}

	score, reasons := ScorePair(a, b)
	assert.Zero(t, score)
	assert.Empty(t, reasons)
}

func TestScorePair_Components(t *testing.T) {
	base := CampaignProfile{
		CampaignID:       uuid.New(),
		Genres:           []string{"Horror", "Thriller"},
		StartDate:        day(0),
		AudienceKeywords: []string{"teens", "gamers", "students", "couples"},
		Territories:      []string{"US", "CA"},
	}

	tests := []struct {
		name  string
		other CampaignProfile
		want  int
	}{
		{
			name:  "genre only, far apart",
			other: CampaignProfile{Genres: []string{" horror "}, StartDate: day(60)},
			want:  3,
		},
		{
			name:  "genre and same week",
			other: CampaignProfile{Genres: []string{"HORROR"}, StartDate: day(-7)},
			want:  6,
		},
		{
			name:  "genre and two weeks",
			other: CampaignProfile{Genres: []string{"thriller"}, StartDate: day(14)},
			want:  5,
		},
		{
			name:  "day fifteen is outside the window",
			other: CampaignProfile{Genres: []string{"thriller"}, StartDate: day(15)},
			want:  3,
		},
		{
			name: "audience capped at three",
			other: CampaignProfile{
				Genres:           []string{"horror"},
				StartDate:        day(90),
				AudienceKeywords: []string{"Teens", "gamers", "students", "couples"},
			},
			want: 6,
		},
		{
			name: "everything",
			other: CampaignProfile{
				Genres:           []string{"horror"},
				StartDate:        day(3),
				AudienceKeywords: []string{"teens"},
				Territories:      []string{"us"},
			},
			want: 9,
		},
		{
			name:  "missing start date scores no proximity",
			other: CampaignProfile{Genres: []string{"horror"}, Territories: []string{"CA"}},
			want:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.other.CampaignID = uuid.New()
			score, _ := ScorePair(base, tt.other)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestDetectConflicts(t *testing.T) {
	candidate := CampaignProfile{
		CampaignID:       uuid.New(),
		FilmTitle:        "Night Shift",
		Genres:           []string{"horror"},
		StartDate:        day(0),
		AudienceKeywords: []string{"teens"},
		Territories:      []string{"US"},
	}

	high := CampaignProfile{
		CampaignID:       uuid.New(),
		FilmTitle:        "The Basement",
		Genres:           []string{"Horror"},
		StartDate:        day(2),
		AudienceKeywords: []string{"teens"},
		Territories:      []string{"US"},
	}
	low := CampaignProfile{
		CampaignID: uuid.New(),
		FilmTitle:  "Old Bones",
		Genres:     []string{"horror"},
		StartDate:  day(120),
	}
	unrelated := CampaignProfile{
		CampaignID: uuid.New(),
		FilmTitle:  "Summer Love",
		Genres:     []string{"romance"},
		StartDate:  day(0),
	}

	matches := DetectConflicts(candidate, []CampaignProfile{low, candidate, unrelated, high})
	require.Len(t, matches, 2)

	assert.Equal(t, high.CampaignID, matches[0].OtherCampaignID)
	assert.Equal(t, LevelHigh, matches[0].Level)
	assert.Equal(t, 9, matches[0].Score)
	assert.Equal(t, "The Basement", matches[0].OtherFilmTitle)
	assert.Contains(t, matches[0].Reasons, "start dates within 7 days")

	assert.Equal(t, low.CampaignID, matches[1].OtherCampaignID)
	assert.Equal(t, LevelLow, matches[1].Level)

	assert.Equal(t, LevelHigh, HighestLevel(matches))
}

func TestDetectConflicts_Empty(t *testing.T) {
	matches := DetectConflicts(CampaignProfile{CampaignID: uuid.New()}, nil)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
	assert.Equal(t, LevelNone, HighestLevel(matches))
}

func TestWorse(t *testing.T) {
	assert.True(t, Worse(LevelHigh, LevelMedium))
	assert.True(t, Worse(LevelLow, LevelNone))
	assert.False(t, Worse(LevelLow, LevelLow))
	assert.False(t, Worse(LevelNone, LevelMedium))
}
