// Package models defines the trail, POI and sync entities stored on a device.
package models

import (
	"errors"
	"time"
)

// TrailType classifies a trail. A community group has at most one trail of
// each type.
type TrailType string

const (
	TrailTypeGraveyard TrailType = "graveyard"
	TrailTypeParish    TrailType = "parish"
)

var ErrInvalidTrailType = errors.New("invalid trail type")

// Valid reports whether t is one of the known trail types.
func (t TrailType) Valid() bool {
	return t == TrailTypeGraveyard || t == TrailTypeParish
}

// Tag returns the one-letter tag embedded in POI ids.
func (t TrailType) Tag() string {
	if t == TrailTypeParish {
		return "p"
	}
	return "g"
}

// TrailTypeFromTag maps a one-letter POI id tag back to a trail type.
func TrailTypeFromTag(tag string) (TrailType, bool) {
	switch tag {
	case "g":
		return TrailTypeGraveyard, true
	case "p":
		return TrailTypeParish, true
	}
	return "", false
}

// Trail is a named collection of POIs of one type under a community group.
type Trail struct {
	ID           string
	GroupCode    string
	TrailType    TrailType
	DisplayName  string
	CreatedAt    time.Time
	NextSequence int
}

// TrailID derives the deterministic trail id. The same group on any device
// produces the same id, which is what makes remote upsert-by-id safe.
func TrailID(groupCode string, trailType TrailType) string {
	return groupCode + "-" + string(trailType)
}
