package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeStroke(username, color string, lineWidth float64, pointsCount int) DrawEvent {
	return DrawEvent{
		Points:    make([]DrawPoint, pointsCount),
		Color:     color,
		LineWidth: lineWidth,
		Username:  username,
	}
}

func TestStandings(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		desc      string
		strokes   []DrawEvent
		usernames []string
		expected  []ScoreEntry
	}{
		{
			desc:      "no strokes, everyone at zero",
			strokes:   nil,
			usernames: []string{"alice", "bob"},
			expected: []ScoreEntry{
				{Username: "alice", Percentage: "0.00"},
				{Username: "bob", Percentage: "0.00"},
			},
		},
		{
			desc:      "ten points at width four round up to 0.03",
			strokes:   []DrawEvent{makeStroke("alice", "#f00", 4, 10)},
			usernames: []string{"alice", "bob"},
			expected: []ScoreEntry{
				{Username: "alice", Percentage: "0.03"},
				{Username: "bob", Percentage: "0.00"},
			},
		},
		{
			desc: "higher coverage sorts first",
			strokes: []DrawEvent{
				makeStroke("alice", "#f00", 4, 10),
				makeStroke("bob", "#00f", 40, 100),
			},
			usernames: []string{"alice", "bob"},
			expected: []ScoreEntry{
				{Username: "bob", Percentage: "26.18"},
				{Username: "alice", Percentage: "0.03"},
			},
		},
		{
			desc: "coverage beyond the canvas clamps at 100",
			strokes: []DrawEvent{
				makeStroke("alice", "#f00", 800, 500),
			},
			usernames: []string{"alice"},
			expected: []ScoreEntry{
				{Username: "alice", Percentage: "100.00"},
			},
		},
		{
			desc:      "equal scores keep join order",
			strokes:   nil,
			usernames: []string{"carol", "alice", "bob"},
			expected: []ScoreEntry{
				{Username: "carol", Percentage: "0.00"},
				{Username: "alice", Percentage: "0.00"},
				{Username: "bob", Percentage: "0.00"},
			},
		},
		{
			desc: "duplicate usernames collapse into one entry",
			strokes: []DrawEvent{
				makeStroke("alice", "#f00", 4, 10),
			},
			usernames: []string{"alice", "bob", "alice"},
			expected: []ScoreEntry{
				{Username: "alice", Percentage: "0.03"},
				{Username: "bob", Percentage: "0.00"},
			},
		},
		{
			desc: "strokes from departed authors still count for nobody present",
			strokes: []DrawEvent{
				makeStroke("ghost", "#f00", 40, 100),
			},
			usernames: []string{"alice"},
			expected: []ScoreEntry{
				{Username: "alice", Percentage: "0.00"},
			},
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.expected, Standings(tC.strokes, tC.usernames))
		})
	}
}

func TestColorUsage(t *testing.T) {
	t.Parallel()
	strokes := []DrawEvent{
		makeStroke("alice", "#f00", 4, 10),
		makeStroke("bob", "#00f", 4, 10),
		makeStroke("alice", "#f00", 4, 10),
		makeStroke("alice", "#0f0", 4, 5),
	}

	stats := ColorUsage(strokes)

	assert.Len(t, stats, 3)
	assert.Equal(t, "alice", stats[0].Username)
	assert.Equal(t, "#f00", stats[0].Color)
	assert.InDelta(t, strokePixelEstimate(strokes[0])*2, stats[0].PixelEstimate, 1e-9)
	assert.Equal(t, "bob", stats[1].Username)
	assert.Equal(t, "#0f0", stats[2].Color)
	assert.InDelta(t, stats[0].PixelEstimate/(CANVAS_WIDTH*CANVAS_HEIGHT)*100, stats[0].Percentage, 1e-9)
}

func TestStrokePixelEstimate(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 125.66, strokePixelEstimate(makeStroke("alice", "#f00", 4, 10)), 0.01)
	assert.Zero(t, strokePixelEstimate(makeStroke("alice", "#f00", 4, 0)))
}
