package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
)

// TrailManifest is the per-trail JSON descriptor inside an exported archive.
type TrailManifest struct {
	SchemaVersion  string           `json:"schemaVersion"`
	TrailID        string           `json:"trailId"`
	GroupCode      string           `json:"groupCode"`
	TrailType      models.TrailType `json:"trailType"`
	DisplayName    string           `json:"displayName"`
	CreatedAt      time.Time        `json:"createdAt"`
	NextSequence   int              `json:"nextSequence"`
	LastModifiedAt time.Time        `json:"lastModifiedAt"`
	POICount       int              `json:"poiCount"`
}

// csvHeader is the fixed column set of the per-trail POI table. Order
// matters for writers; the reader resolves columns by name.
var csvHeader = []string{
	"filename", "siteName", "category", "description", "story", "url",
	"condition", "notes", "latitude", "longitude", "accuracy", "capturedAt",
	"sequence", "trailType", "groupCode", "createdBy", "lastModifiedBy",
	"lastModifiedAt",
}

func manifestName(t models.TrailType) string {
	return "trail_" + string(t) + ".json"
}

func csvName(groupCode string, t models.TrailType) string {
	return groupCode + "_" + string(t) + ".csv"
}

func storiesName(groupCode string, t models.TrailType) string {
	return groupCode + "_" + string(t) + "_stories.txt"
}

func kmlName(groupCode string, t models.TrailType) string {
	return groupCode + "_" + string(t) + ".kml"
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Slugify reduces a display name to a safe archive filename fragment:
// lowercase, alphanumerics kept, everything else collapsed to single dashes.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
