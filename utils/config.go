// File: utils/config.go
package utils

import (
	"math"
	"time"
)

// Config holds all configurable game parameters.
type Config struct {
	// Timing
	GameTickPeriod time.Duration `json:"gameTickPeriod"` // Time between simulation ticks (falling sweep + broadcast)

	// Playfield & Grid
	PlayfieldWidth  float64 `json:"playfieldWidth"`  // Pixel width of the playfield (must equal ColsPerRow * bubble diameter)
	PlayfieldHeight float64 `json:"playfieldHeight"` // Pixel height of the playfield
	BubbleRadius    float64 `json:"bubbleRadius"`    // Radius of one bubble
	BubbleDiameter  float64 `json:"bubbleDiameter"`  // Calculated: 2 * BubbleRadius
	RowPitch        float64 `json:"rowPitch"`        // Calculated: BubbleDiameter * sqrt(3)/2 (hex packing)
	ColsPerRow      int     `json:"colsPerRow"`      // Cells in an even row; odd rows hold one fewer
	InitialRows     int     `json:"initialRows"`     // Seeded rows at session start
	BottomBoundaryY float64 `json:"bottomBoundaryY"` // Lower extent past this ends the session

	// Shooter & Trajectory
	ShooterX           float64 `json:"shooterX"`           // Launch point X (playfield center)
	ShooterY           float64 `json:"shooterY"`           // Launch point Y
	TrajectoryStep     float64 `json:"trajectoryStep"`     // Step increment for the trajectory walk
	MaxTrajectorySteps int     `json:"maxTrajectorySteps"` // Hard step ceiling, independent of bounces
	PreviewBounceCap   int     `json:"previewBounceCap"`   // Preview polyline stops after this many wall bounces
	ContactFactor      float64 `json:"contactFactor"`      // Contact when within ContactFactor * BubbleDiameter of a settled center
	MinAimAngle        float64 `json:"minAimAngle"`        // Degrees; aim is clamped into [MinAimAngle, MaxAimAngle]
	MaxAimAngle        float64 `json:"maxAimAngle"`
	ShotSpeed          float64 `json:"shotSpeed"` // Pixels per second; flight time = path length / ShotSpeed
	FallSpeed          float64 `json:"fallSpeed"` // Pixels per second for detached bubbles

	// Scoring & Progression
	PointsPerPop  int `json:"pointsPerPop"`  // Per bubble in a popped component
	PointsPerFall int `json:"pointsPerFall"` // Per bubble in a detached cluster
	InitialColors int `json:"initialColors"` // Palette size at score 0

	// Descent
	InitialDescentInterval time.Duration `json:"initialDescentInterval"` // Interval at score 0
	MinDescentInterval     time.Duration `json:"minDescentInterval"`     // Interval floor
	WarningTicks           int           `json:"warningTicks"`           // Countdown ticks before a descent
	WarningTickPeriod      time.Duration `json:"warningTickPeriod"`      // Spacing between countdown ticks

	// Match Engine
	PopThreshold    int           `json:"popThreshold"`    // Minimum same-color component size to pop
	FloatCheckDelay time.Duration `json:"floatCheckDelay"` // Deferred delay before the post-pop float check

	// Sessions & High Scores
	MaxSessions     int           `json:"maxSessions"`     // Concurrent session cap
	HighScoreSize   int           `json:"highScoreSize"`   // Retained leaderboard entries
	InitialsTimeout time.Duration `json:"initialsTimeout"` // Wait for controller initials after a qualifying score
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() Config {
	radius := 20.0
	diameter := 2 * radius
	colsPerRow := 12
	width := diameter * float64(colsPerRow)
	height := 640.0

	return Config{
		// Timing
		GameTickPeriod: 30 * time.Millisecond,

		// Playfield & Grid
		PlayfieldWidth:  width,
		PlayfieldHeight: height,
		BubbleRadius:    radius,
		BubbleDiameter:  diameter,
		RowPitch:        diameter * math.Sqrt(3) / 2,
		ColsPerRow:      colsPerRow,
		InitialRows:     5,
		BottomBoundaryY: height - 2*diameter,

		// Shooter & Trajectory
		ShooterX:           width / 2,
		ShooterY:           height - radius,
		TrajectoryStep:     radius / 5,
		MaxTrajectorySteps: 2000,
		PreviewBounceCap:   3,
		ContactFactor:      0.9,
		MinAimAngle:        10,
		MaxAimAngle:        170,
		ShotSpeed:          900,
		FallSpeed:          600,

		// Scoring & Progression
		PointsPerPop:  10,
		PointsPerFall: 20,
		InitialColors: 4,

		// Descent
		InitialDescentInterval: 16 * time.Second,
		MinDescentInterval:     6 * time.Second,
		WarningTicks:           3,
		WarningTickPeriod:      time.Second,

		// Match Engine
		PopThreshold:    3,
		FloatCheckDelay: 250 * time.Millisecond,

		// Sessions & High Scores
		MaxSessions:     16,
		HighScoreSize:   10,
		InitialsTimeout: 30 * time.Second,
	}
}
