package services

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/client"
	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/logging"
)

// Exporter serializes local trails into one portable ZIP archive: per trail
// a manifest, the POI table, every full-resolution photo, a fill-in stories
// template, and a KML file when any POI is geotagged. Trails without POIs
// are skipped entirely.
type Exporter struct {
	repos *client.Repositories
	log   logging.Logger
}

func NewExporter(repos *client.Repositories, log logging.Logger) *Exporter {
	return &Exporter{repos: repos, log: log}
}

// Export writes the archive to w and returns the number of trails included.
func (e *Exporter) Export(ctx context.Context, w io.Writer) (int, error) {
	trails, err := e.repos.Trails.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("error listing trails: %w", err)
	}

	zw := zip.NewWriter(w)
	exported := 0

	for _, t := range trails {
		poiList, err := e.repos.POIs.GetByTrailID(ctx, t.ID, true)
		if err != nil {
			return exported, fmt.Errorf("error listing pois for %s: %w", t.ID, err)
		}
		if len(poiList) == 0 {
			continue
		}
		if err := e.writeTrail(zw, t, poiList); err != nil {
			return exported, fmt.Errorf("error exporting trail %s: %w", t.ID, err)
		}
		exported++
	}

	if err := zw.Close(); err != nil {
		return exported, fmt.Errorf("error finalizing archive: %w", err)
	}
	return exported, nil
}

func (e *Exporter) writeTrail(zw *zip.Writer, t *models.Trail, poiList []*models.POIRecord) error {
	folder := string(t.TrailType) + "/"

	manifest := TrailManifest{
		SchemaVersion:  "1.0",
		TrailID:        t.ID,
		GroupCode:      t.GroupCode,
		TrailType:      t.TrailType,
		DisplayName:    t.DisplayName,
		CreatedAt:      t.CreatedAt,
		NextSequence:   t.NextSequence,
		LastModifiedAt: time.Now().UTC(),
		POICount:       len(poiList),
	}
	if err := writeJSONEntry(zw, folder+manifestName(t.TrailType), manifest); err != nil {
		return err
	}

	if err := e.writeCSV(zw, folder+csvName(t.GroupCode, t.TrailType), poiList); err != nil {
		return err
	}

	for _, p := range poiList {
		fw, err := zw.Create(folder + p.Filename)
		if err != nil {
			return err
		}
		if _, err := fw.Write(p.Photo); err != nil {
			return err
		}
	}

	if err := e.writeStories(zw, folder+storiesName(t.GroupCode, t.TrailType), t, poiList); err != nil {
		return err
	}

	hasGPS := false
	for _, p := range poiList {
		if p.HasCoordinates() {
			hasGPS = true
			break
		}
	}
	if hasGPS {
		if err := e.writeKML(zw, folder+kmlName(t.GroupCode, t.TrailType), t, poiList); err != nil {
			return err
		}
	}
	return nil
}

func writeJSONEntry(zw *zip.Writer, name string, v any) error {
	fw, err := zw.Create(name)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(fw)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (e *Exporter) writeCSV(zw *zip.Writer, name string, poiList []*models.POIRecord) error {
	fw, err := zw.Create(name)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(fw)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range poiList {
		row := []string{
			p.Filename, p.SiteName, p.Category, p.Description, p.Story, p.URL,
			p.Condition, p.Notes,
			formatFloat(p.Latitude), formatFloat(p.Longitude), formatFloat(p.Accuracy),
			p.CapturedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(p.Sequence), string(p.TrailType), p.GroupCode,
			p.CreatedBy, p.LastModifiedBy, formatTime(p.LastModifiedAt),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (e *Exporter) writeStories(zw *zip.Writer, name string, t *models.Trail, poiList []*models.POIRecord) error {
	fw, err := zw.Create(name)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(t.DisplayName + " - Stories\n")
	b.WriteString(strings.Repeat("=", len(t.DisplayName)+10) + "\n\n")
	b.WriteString("Fill in a story for each site below and share this file back.\n\n")
	for _, p := range poiList {
		label := p.SiteName
		if label == "" {
			label = p.Filename
		}
		fmt.Fprintf(&b, "%d. %s\n", p.Sequence, label)
		if p.Story != "" {
			b.WriteString("Story: " + p.Story + "\n")
		} else {
			b.WriteString("Story: ____________________________________________\n")
		}
		b.WriteString("\n")
	}

	_, err = io.WriteString(fw, b.String())
	return err
}

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func (e *Exporter) writeKML(zw *zip.Writer, name string, t *models.Trail, poiList []*models.POIRecord) error {
	fw, err := zw.Create(name)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<kml xmlns=\"http://www.opengis.net/kml/2.2\">\n<Document>\n")
	fmt.Fprintf(&b, "<name>%s</name>\n", xmlEscape(t.DisplayName))
	for _, p := range poiList {
		if !p.HasCoordinates() {
			continue
		}
		label := p.SiteName
		if label == "" {
			label = p.Filename
		}
		b.WriteString("<Placemark>\n")
		fmt.Fprintf(&b, "  <name>%s</name>\n", xmlEscape(label))
		if p.Description != "" {
			fmt.Fprintf(&b, "  <description>%s</description>\n", xmlEscape(p.Description))
		}
		fmt.Fprintf(&b, "  <Point><coordinates>%s,%s,0</coordinates></Point>\n",
			formatFloat(p.Longitude), formatFloat(p.Latitude))
		b.WriteString("</Placemark>\n")
	}
	b.WriteString("</Document>\n</kml>\n")

	_, err = io.WriteString(fw, b.String())
	return err
}

// ArchiveFilename derives the suggested name for the archive itself from the
// graveyard trail's display name, falling back to the profile's group code.
func (e *Exporter) ArchiveFilename(ctx context.Context) (string, error) {
	trails, err := e.repos.Trails.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("error listing trails: %w", err)
	}

	name := ""
	for _, t := range trails {
		if t.TrailType == models.TrailTypeGraveyard {
			name = Slugify(strings.TrimSuffix(t.DisplayName, " Graveyard Trail"))
			break
		}
	}
	if name == "" {
		p, err := e.repos.Profile.Get(ctx)
		if err != nil {
			return "", fmt.Errorf("error reading profile: %w", err)
		}
		if p != nil {
			name = Slugify(p.GroupCode)
		}
	}
	if name == "" {
		name = "trail-export"
	}
	return name + ".zip", nil
}
