// File: game/trajectory.go
package game

import (
	"github.com/bubblepop/bubblepop/utils"
)

// Vec2 is a world position.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StopKind classifies how a trajectory walk ended.
type StopKind string

const (
	// StopCeiling: the walk crossed the ceiling and ends pinned to it.
	StopCeiling StopKind = "ceiling"
	// StopContact: the walk entered the contact range of a settled bubble.
	StopContact StopKind = "contact"
	// StopTruncated: the preview bounce cap or the hard step ceiling cut
	// the walk short. Never a settling outcome.
	StopTruncated StopKind = "truncated"
)

// TrajectoryResult is the outcome of one trajectory walk.
type TrajectoryResult struct {
	Points     []Vec2   `json:"points"` // launch point, each bounce, final stop
	Stop       Vec2     `json:"stop"`
	Kind       StopKind `json:"kind"`
	PathLength float64  `json:"pathLength"`
	Steps      int      `json:"steps"`
	Bounces    int      `json:"bounces"`
}

// SimulateTrajectory steps a point from the shooter along the aim angle
// (degrees, 90 = straight up), reflecting off the side walls, until it
// reaches the ceiling or the contact range of a settled bubble.
//
// The same walk serves the aim preview and the authoritative shot: the only
// difference is bounceCap. The preview passes cfg.PreviewBounceCap and is
// truncated at that bounce so its polyline stays bounded; the resolution
// passes a negative cap and always runs to a physical stop. Both are bounded
// by cfg.MaxTrajectorySteps regardless of bounces, so the walk terminates
// even under pathological angles.
func SimulateTrajectory(cfg utils.Config, grid *Grid, angle float64, bounceCap int) TrajectoryResult {
	angle = utils.Clamp(angle, cfg.MinAimAngle, cfg.MaxAimAngle)
	dx, dy := utils.DegreesToVector(angle)

	pos := Vec2{X: cfg.ShooterX, Y: cfg.ShooterY}
	result := TrajectoryResult{Points: []Vec2{pos}}
	contactRange := cfg.ContactFactor * cfg.BubbleDiameter
	minX := cfg.BubbleRadius
	maxX := cfg.PlayfieldWidth - cfg.BubbleRadius

	for step := 0; step < cfg.MaxTrajectorySteps; step++ {
		next := Vec2{X: pos.X + dx*cfg.TrajectoryStep, Y: pos.Y + dy*cfg.TrajectoryStep}
		result.Steps++
		result.PathLength += cfg.TrajectoryStep

		// Side walls reflect the horizontal component.
		bounced := false
		if next.X < minX {
			next.X = 2*minX - next.X
			dx = -dx
			bounced = true
		} else if next.X > maxX {
			next.X = 2*maxX - next.X
			dx = -dx
			bounced = true
		}
		if bounced {
			result.Bounces++
			result.Points = append(result.Points, next)
			if bounceCap >= 0 && result.Bounces >= bounceCap {
				result.Stop = next
				result.Kind = StopTruncated
				return result
			}
		}

		// Ceiling terminates the flight pinned to the top.
		if next.Y <= cfg.BubbleRadius {
			next.Y = cfg.BubbleRadius
			result.Stop = next
			result.Kind = StopCeiling
			result.Points = append(result.Points, next)
			return result
		}

		// Contact with a settled bubble terminates the flight.
		if hit := contactAt(cfg, grid, next, contactRange); hit != nil {
			result.Stop = next
			result.Kind = StopContact
			result.Points = append(result.Points, next)
			return result
		}

		pos = next
	}

	// Hard step ceiling: should not be reached with sane configs.
	result.Stop = pos
	result.Kind = StopTruncated
	result.Points = append(result.Points, pos)
	return result
}

// contactAt returns a settled bubble whose center lies within contactRange
// of the position, or nil. Only the 3x3 cell neighborhood of the position's
// nearest cell can hold such a bubble.
func contactAt(cfg utils.Config, grid *Grid, pos Vec2, contactRange float64) *Bubble {
	nearest := grid.WorldToCell(pos.X, pos.Y)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			bubble := grid.Get(nearest.Row+dr, nearest.Col+dc)
			if bubble == nil {
				continue
			}
			if utils.Distance(pos.X, pos.Y, bubble.X, bubble.Y) < contactRange {
				return bubble
			}
		}
	}
	return nil
}
