package game

import (
	"fmt"
	"math"
	"sort"
)

const (
	CANVAS_WIDTH  = 800
	CANVAS_HEIGHT = 600
)

type ColorStat struct {
	Username      string  `json:"username"`
	Color         string  `json:"color"`
	PixelEstimate float64 `json:"pixelCount"`
	Percentage    float64 `json:"percentage"`
}

// strokePixelEstimate approximates the pixels covered by one stroke as one
// brush-sized disc per recorded point. Overlapping points count twice.
func strokePixelEstimate(stroke DrawEvent) float64 {
	return math.Pi * math.Pow(stroke.LineWidth/2, 2) * float64(len(stroke.Points))
}

// ColorUsage accumulates per (username, color) coverage over the stroke log,
// in first-appearance order. Clients derive the same breakdown locally for
// their palette analytics; this is the server-side counterpart over the
// authoritative log, kept alongside Standings for parity.
func ColorUsage(strokes []DrawEvent) []ColorStat {
	stats := make([]ColorStat, 0)
	indexes := make(map[string]int)

	for _, stroke := range strokes {
		key := stroke.Username + "-" + stroke.Color
		i, ok := indexes[key]
		if !ok {
			i = len(stats)
			indexes[key] = i
			stats = append(stats, ColorStat{Username: stroke.Username, Color: stroke.Color})
		}
		stats[i].PixelEstimate += strokePixelEstimate(stroke)
	}

	for i := range stats {
		stats[i].Percentage = stats[i].PixelEstimate / (CANVAS_WIDTH * CANVAS_HEIGHT) * 100
	}
	return stats
}

// Standings computes the ordered score list for a room: every member appears
// exactly once (duplicate usernames collapse into the first holder), sorted by
// coverage descending. The sort is stable so equal scores keep join order.
func Standings(strokes []DrawEvent, usernames []string) []ScoreEntry {
	pixels := make(map[string]float64)
	for _, stroke := range strokes {
		pixels[stroke.Username] += strokePixelEstimate(stroke)
	}

	type scored struct {
		username string
		pct      float64
	}

	entries := make([]scored, 0, len(usernames))
	seen := make(map[string]bool)
	for _, username := range usernames {
		if seen[username] {
			continue
		}
		seen[username] = true

		pct := pixels[username] / (CANVAS_WIDTH * CANVAS_HEIGHT) * 100
		if pct > 100 {
			pct = 100
		}
		entries = append(entries, scored{username: username, pct: pct})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].pct > entries[j].pct
	})

	standings := make([]ScoreEntry, 0, len(entries))
	for _, e := range entries {
		standings = append(standings, ScoreEntry{
			Username:   e.username,
			Percentage: fmt.Sprintf("%.2f", e.pct),
		})
	}
	return standings
}
