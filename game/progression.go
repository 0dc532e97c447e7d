// File: game/progression.go
package game

import (
	"time"

	"github.com/bubblepop/bubblepop/utils"
)

// colorThresholds maps cumulative score to unlocked palette size. Ordered,
// strictly increasing in both columns.
var colorThresholds = []struct {
	Score  int
	Colors int
}{
	{300, 5},
	{800, 6},
	{1500, 7},
	{2500, 8},
}

// intervalThresholds maps cumulative score to the descent interval. Ordered
// by score, non-increasing in interval; IntervalForScore clamps the result
// at cfg.MinDescentInterval.
var intervalThresholds = []struct {
	Score    int
	Interval time.Duration
}{
	{500, 13 * time.Second},
	{1200, 10 * time.Second},
	{2200, 8 * time.Second},
	{3500, 6 * time.Second},
}

// ColorUnlock describes one newly unlocked palette color.
type ColorUnlock struct {
	Color int    `json:"color"`
	Name  string `json:"name"`
	Value [3]int `json:"value"`
}

// Progression accumulates score and unlocks palette colors. Score and the
// unlocked count are both monotonically non-decreasing. Owned by the
// session actor and reset explicitly on restart.
type Progression struct {
	cfg            utils.Config
	score          int
	unlockedColors int
}

func NewProgression(cfg utils.Config) *Progression {
	return &Progression{cfg: cfg, unlockedColors: cfg.InitialColors}
}

func (p *Progression) Score() int          { return p.score }
func (p *Progression) UnlockedColors() int { return p.unlockedColors }

// AddScore credits points and returns one ColorUnlock per threshold the new
// total crossed. Negative points are ignored.
func (p *Progression) AddScore(points int) []ColorUnlock {
	if points <= 0 {
		return nil
	}
	p.score += points

	target := p.UnlockedColorCount(p.score)
	var unlocks []ColorUnlock
	for color := p.unlockedColors; color < target; color++ {
		unlocks = append(unlocks, ColorUnlock{
			Color: color,
			Name:  utils.ColorNames[color],
			Value: utils.ColorValues[color],
		})
	}
	p.unlockedColors = target
	return unlocks
}

// UnlockedColorCount is the palette size for a cumulative score: a step
// function starting at cfg.InitialColors, capped at the full palette.
func (p *Progression) UnlockedColorCount(score int) int {
	colors := p.cfg.InitialColors
	for _, threshold := range colorThresholds {
		if score >= threshold.Score && threshold.Colors > colors {
			colors = threshold.Colors
		}
	}
	if colors > utils.MaxColors {
		colors = utils.MaxColors
	}
	return colors
}

// IntervalForScore is the descent interval for a cumulative score: a step
// function starting at cfg.InitialDescentInterval, never increasing with
// score, floored at cfg.MinDescentInterval.
func (p *Progression) IntervalForScore(score int) time.Duration {
	interval := p.cfg.InitialDescentInterval
	for _, threshold := range intervalThresholds {
		if score >= threshold.Score && threshold.Interval < interval {
			interval = threshold.Interval
		}
	}
	if interval < p.cfg.MinDescentInterval {
		interval = p.cfg.MinDescentInterval
	}
	return interval
}

// Reset returns the progression to its session-start state.
func (p *Progression) Reset() {
	p.score = 0
	p.unlockedColors = p.cfg.InitialColors
}
