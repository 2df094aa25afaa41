// Package records loads the four recruitment tables into an immutable store
// of typed rows and exposes them to the engine as record views.
package records

import "database/sql"

// Application is one candidate application.
type Application struct {
	ID              string          `json:"id"`
	CVScore         sql.NullFloat64 `json:"cvScore"`
	ExperienceYears sql.NullFloat64 `json:"experienceYears"`
	Status          string          `json:"status"`
	Channel         string          `json:"channel"`
	PositionID      string          `json:"positionId"`
}

// Position is an open position.
type Position struct {
	ID         string `json:"id"`
	Department string `json:"department"`
}

// Interview is one interview held for an application. An application may
// have several.
type Interview struct {
	ApplicationID   string          `json:"applicationId"`
	Score           sql.NullFloat64 `json:"score"` // out of 10
	DurationMinutes sql.NullFloat64 `json:"durationMinutes"`
	Type            string          `json:"type"`
}

// Cost is the total recruiting cost of one application.
type Cost struct {
	ApplicationID string          `json:"applicationId"`
	TotalCost     sql.NullFloat64 `json:"totalCost"`
}

type sqlNull = sql.NullFloat64

// Num builds a valid nullable number.
func Num(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func nullable(n sql.NullFloat64) (float64, bool) {
	return n.Float64, n.Valid
}
