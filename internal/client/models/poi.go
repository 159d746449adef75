package models

import (
	"fmt"
	"regexp"
	"time"
)

// POIRecord is one recorded heritage site: a photo plus capture metadata.
// Photo and Thumbnail hold raw JPEG bytes; repositories omit them when the
// caller asks for a blob-free read.
type POIRecord struct {
	ID             string
	TrailID        string
	GroupCode      string
	TrailType      TrailType
	Sequence       int
	Filename       string
	Photo          []byte
	Thumbnail      []byte
	Latitude       *float64
	Longitude      *float64
	Accuracy       *float64
	CoordSource    string
	CapturedAt     time.Time
	SiteName       string
	Category       string
	Description    string
	Story          string
	URL            string
	Condition      string
	Notes          string
	Completed      bool
	Rotation       int
	CreatedBy      string
	LastModifiedBy string
	LastModifiedAt *time.Time
}

// HasCoordinates reports whether the record carries a GPS fix.
func (p *POIRecord) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// NewPOIID builds a POI id from the capture timestamp:
// {groupCode}-{g|p}-DDMMYY-HHmmss-SSS. Millisecond granularity keeps ids
// unique across devices capturing concurrently without any coordination.
func NewPOIID(groupCode string, trailType TrailType, capturedAt time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%03d",
		groupCode, trailType.Tag(),
		capturedAt.Format("020106-150405"),
		capturedAt.Nanosecond()/int(time.Millisecond))
}

// POIFilename derives the photo filename for a POI id.
func POIFilename(id string) string {
	return id + ".jpg"
}

// DeriveCompleted computes the completion flag: a POI is complete once it has
// a site name and either a description or a story.
func DeriveCompleted(siteName, description, story string) bool {
	return siteName != "" && (description != "" || story != "")
}

// NormalizeRotation clamps a stored rotation to the supported set. Legacy
// records without a rotation read as 0.
func NormalizeRotation(r int) int {
	switch r {
	case 90, 180, 270:
		return r
	}
	return 0
}

var (
	poiIDPattern       = regexp.MustCompile(`^(.+)-([gp])-\d{6}-\d{6}-\d{3}$`)
	poiIDLegacyPattern = regexp.MustCompile(`^(.+)-([gp])-\d{3}$`)
)

// TrailIDFromPOIID recovers the owning trail id from a POI id. Both the
// timestamp-based format and the legacy fixed-width three-digit suffix are
// recognised; legacy ids only occur in data migrated from old exports.
func TrailIDFromPOIID(id string) (string, bool) {
	m := poiIDPattern.FindStringSubmatch(id)
	if m == nil {
		m = poiIDLegacyPattern.FindStringSubmatch(id)
	}
	if m == nil {
		return "", false
	}
	trailType, ok := TrailTypeFromTag(m[2])
	if !ok {
		return "", false
	}
	return TrailID(m[1], trailType), true
}

// POIPatch is a partial update applied to an existing POI. Nil fields are
// left untouched.
type POIPatch struct {
	Sequence       *int
	SiteName       *string
	Category       *string
	Description    *string
	Story          *string
	URL            *string
	Condition      *string
	Notes          *string
	Rotation       *int
	Latitude       *float64
	Longitude      *float64
	Accuracy       *float64
	CoordSource    *string
	LastModifiedBy *string
}

// TouchesCompletion reports whether applying the patch requires the
// completion flag to be recomputed.
func (p *POIPatch) TouchesCompletion() bool {
	return p.SiteName != nil || p.Description != nil || p.Story != nil
}
