package services

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/client"
	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/common"
	"github.com/dmitrijs2005/trailkeeper/internal/logging"
)

// ImportStatus is the outcome of an import attempt.
type ImportStatus string

const (
	StatusImported ImportStatus = "imported"
	StatusConflict ImportStatus = "conflict"
	StatusKept     ImportStatus = "kept"
)

// Conflict resolution strategies accepted by ResolveConflict.
const (
	StrategyKeep      = "keep"
	StrategyOverwrite = "overwrite"
)

// ImportResult reports what an import did. On StatusConflict nothing was
// written and the two timestamps let the caller ask the user which copy wins.
type ImportResult struct {
	Status             ImportStatus
	TrailID            string
	POIsImported       int
	POIsSkipped        int
	ImagesFailed       int
	Warnings           []string
	ExistingModifiedAt *time.Time
	IncomingModifiedAt *time.Time
}

// Importer restores a trail from an exported archive. The import is
// two-phase: the archive is fully parsed and validated before any write, so
// a conflict or a malformed archive never leaves a half-imported trail
// behind. Individual bad rows degrade to warnings instead of failing the
// batch.
type Importer struct {
	repos      *client.Repositories
	gate       *SyncGate
	enq        *Enqueuer
	log        logging.Logger
	writeDelay time.Duration
}

func NewImporter(repos *client.Repositories, gate *SyncGate, enq *Enqueuer, log logging.Logger, writeDelay time.Duration) *Importer {
	return &Importer{repos: repos, gate: gate, enq: enq, log: log, writeDelay: writeDelay}
}

// parsedRow is one CSV row resolved against the archive contents.
type parsedRow struct {
	filename string
	poi      *models.POIRecord
	photo    *zip.File
}

// parsedArchive is the validated in-memory view of one trail folder.
type parsedArchive struct {
	manifest TrailManifest
	folder   string
	rows     []*parsedRow
	warnings []string
}

// ImportArchive parses the archive and either imports its trail or, when a
// trail with the same id already exists locally, returns a StatusConflict
// result without writing anything.
func (im *Importer) ImportArchive(ctx context.Context, ra io.ReaderAt, size int64) (*ImportResult, error) {
	pa, err := im.parseArchive(ra, size)
	if err != nil {
		return nil, err
	}

	existing, err := im.repos.Trails.GetByID(ctx, pa.manifest.TrailID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error reading trail: %w", err)
	}
	if existing != nil {
		existingAt, err := im.lastLocalActivity(ctx, existing)
		if err != nil {
			return nil, err
		}
		incoming := pa.manifest.LastModifiedAt
		return &ImportResult{
			Status:             StatusConflict,
			TrailID:            pa.manifest.TrailID,
			ExistingModifiedAt: &existingAt,
			IncomingModifiedAt: &incoming,
		}, nil
	}

	return im.runImport(ctx, pa)
}

// ResolveConflict settles a previously reported conflict. StrategyKeep leaves
// the local trail untouched; StrategyOverwrite re-parses the archive, drops
// the local copy and imports fresh.
func (im *Importer) ResolveConflict(ctx context.Context, ra io.ReaderAt, size int64, strategy string) (*ImportResult, error) {
	switch strategy {
	case StrategyKeep:
		pa, err := im.parseArchive(ra, size)
		if err != nil {
			return nil, err
		}
		return &ImportResult{Status: StatusKept, TrailID: pa.manifest.TrailID}, nil

	case StrategyOverwrite:
		pa, err := im.parseArchive(ra, size)
		if err != nil {
			return nil, err
		}
		if err := im.dropLocalTrail(ctx, pa.manifest.TrailID); err != nil {
			return nil, err
		}
		return im.runImport(ctx, pa)

	default:
		return nil, common.ErrorUnknownStrategy
	}
}

// dropLocalTrail removes the trail's POIs ahead of an overwrite, enqueueing
// remote deletes so the replaced records do not linger upstream.
func (im *Importer) dropLocalTrail(ctx context.Context, trailID string) error {
	old, err := im.repos.POIs.GetByTrailID(ctx, trailID, false)
	if err != nil {
		return fmt.Errorf("error listing pois: %w", err)
	}
	if err := im.repos.POIs.DeleteByTrailID(ctx, trailID); err != nil {
		return fmt.Errorf("error deleting pois: %w", err)
	}
	if im.gate.Enabled(ctx) {
		for _, p := range old {
			im.enq.Enqueue(models.SyncOpDelete, models.EntityPOI, p.ID, "")
		}
	}
	return nil
}

// lastLocalActivity finds the newest modification timestamp across the
// trail's POIs, falling back to capture time per POI and to the trail's
// creation time when the trail is empty.
func (im *Importer) lastLocalActivity(ctx context.Context, t *models.Trail) (time.Time, error) {
	poiList, err := im.repos.POIs.GetByTrailID(ctx, t.ID, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("error listing pois: %w", err)
	}
	latest := t.CreatedAt
	for _, p := range poiList {
		at := p.CapturedAt
		if p.LastModifiedAt != nil {
			at = *p.LastModifiedAt
		}
		if at.After(latest) {
			latest = at
		}
	}
	return latest, nil
}

// parseArchive is phase one: locate the manifest, validate its schema
// version and resolve every CSV row against the archive, without touching
// the database.
func (im *Importer) parseArchive(ra io.ReaderAt, size int64) (*parsedArchive, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("error opening archive: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	// Graveyard takes precedence when an archive carries both trail types.
	var manifest TrailManifest
	var folder string
	found := false
	for _, tt := range []models.TrailType{models.TrailTypeGraveyard, models.TrailTypeParish} {
		f, ok := files[string(tt)+"/"+manifestName(tt)]
		if !ok {
			continue
		}
		if err := readZipJSON(f, &manifest); err != nil {
			return nil, fmt.Errorf("error reading manifest: %w", err)
		}
		folder = string(tt) + "/"
		found = true
		break
	}
	if !found {
		return nil, common.ErrorNoManifest
	}
	if manifest.SchemaVersion != common.ArchiveSchemaVersion {
		return nil, fmt.Errorf("%w: %q", common.ErrorBadSchemaVersion, manifest.SchemaVersion)
	}
	if !manifest.TrailType.Valid() {
		return nil, models.ErrInvalidTrailType
	}

	pa := &parsedArchive{manifest: manifest, folder: folder}

	csvFile, ok := files[folder+csvName(manifest.GroupCode, manifest.TrailType)]
	if !ok {
		// A trail with a manifest but no table imports as empty.
		pa.warnings = append(pa.warnings, "archive has no POI table")
		return pa, nil
	}
	if err := im.parseCSV(pa, csvFile, files); err != nil {
		return nil, err
	}
	return pa, nil
}

func readZipJSON(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return json.NewDecoder(rc).Decode(v)
}

func (im *Importer) parseCSV(pa *parsedArchive, f *zip.File, files map[string]*zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("error opening poi table: %w", err)
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("error reading poi table header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	get := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading poi table: %w", err)
		}

		filename := get(row, "filename")
		if filename == "" {
			pa.warnings = append(pa.warnings, fmt.Sprintf("row %d: missing filename, dropped", line))
			continue
		}

		p := &models.POIRecord{
			TrailID:        pa.manifest.TrailID,
			GroupCode:      pa.manifest.GroupCode,
			TrailType:      pa.manifest.TrailType,
			SiteName:       get(row, "siteName"),
			Category:       get(row, "category"),
			Description:    get(row, "description"),
			Story:          get(row, "story"),
			URL:            get(row, "url"),
			Condition:      get(row, "condition"),
			Notes:          get(row, "notes"),
			CreatedBy:      get(row, "createdBy"),
			LastModifiedBy: get(row, "lastModifiedBy"),
			CoordSource:    "import",
		}

		if seq, err := strconv.Atoi(get(row, "sequence")); err == nil {
			p.Sequence = seq
		}

		capturedAt, err := time.Parse(time.RFC3339, get(row, "capturedAt"))
		if err != nil {
			pa.warnings = append(pa.warnings,
				fmt.Sprintf("row %d (%s): bad capture time, using now", line, filename))
			capturedAt = time.Now().UTC()
		}
		p.CapturedAt = capturedAt

		lat, latErr := strconv.ParseFloat(get(row, "latitude"), 64)
		lon, lonErr := strconv.ParseFloat(get(row, "longitude"), 64)
		switch {
		case latErr == nil && lonErr == nil:
			p.Latitude = &lat
			p.Longitude = &lon
			if acc, err := strconv.ParseFloat(get(row, "accuracy"), 64); err == nil {
				p.Accuracy = &acc
			}
		case get(row, "latitude") != "" || get(row, "longitude") != "":
			pa.warnings = append(pa.warnings,
				fmt.Sprintf("row %d (%s): unparseable coordinates, imported without GPS", line, filename))
			p.CoordSource = ""
		default:
			p.CoordSource = ""
		}

		pa.rows = append(pa.rows, &parsedRow{
			filename: filename,
			poi:      p,
			photo:    files[pa.folder+filename],
		})
	}
	return nil
}

// runImport is phase two: write the trail and its POIs. Each POI gets a
// freshly minted id so imported records can never collide with ids already
// issued on this device.
func (im *Importer) runImport(ctx context.Context, pa *parsedArchive) (*ImportResult, error) {
	res := &ImportResult{Status: StatusImported, TrailID: pa.manifest.TrailID}
	res.Warnings = append(res.Warnings, pa.warnings...)

	trailOp := models.SyncOpCreate
	if _, err := im.repos.Trails.GetByID(ctx, pa.manifest.TrailID); err == nil {
		trailOp = models.SyncOpUpdate
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error reading trail: %w", err)
	}

	t := &models.Trail{
		ID:           pa.manifest.TrailID,
		GroupCode:    pa.manifest.GroupCode,
		TrailType:    pa.manifest.TrailType,
		DisplayName:  pa.manifest.DisplayName,
		CreatedAt:    pa.manifest.CreatedAt,
		NextSequence: pa.manifest.NextSequence,
	}
	if err := im.repos.Trails.Upsert(ctx, t); err != nil {
		return nil, fmt.Errorf("error saving trail: %w", err)
	}
	if im.gate.Enabled(ctx) {
		im.enq.Enqueue(trailOp, models.EntityTrail, t.ID, "")
	}

	minter := newIDMinter()
	maxSeq := 0

	for _, row := range pa.rows {
		if row.photo == nil {
			res.ImagesFailed++
			res.POIsSkipped++
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s: photo missing from archive, skipped", row.filename))
			continue
		}
		photo, err := readZipBytes(row.photo)
		if err != nil {
			res.ImagesFailed++
			res.POIsSkipped++
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s: photo unreadable, skipped", row.filename))
			continue
		}

		p := row.poi
		p.ID = minter.Mint(p.GroupCode, p.TrailType, p.CapturedAt)
		p.Filename = models.POIFilename(p.ID)
		p.Photo = photo
		// The full photo doubles as the thumbnail until the next edit
		// regenerates one.
		p.Thumbnail = photo
		p.Completed = models.DeriveCompleted(p.SiteName, p.Description, p.Story)

		if err := im.repos.POIs.Create(ctx, p); err != nil {
			res.POIsSkipped++
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", row.filename, err))
			im.log.Warn(ctx, "poi import failed", "filename", row.filename, "error", err)
			continue
		}
		res.POIsImported++
		if p.Sequence > maxSeq {
			maxSeq = p.Sequence
		}
		if im.gate.Enabled(ctx) {
			im.enq.Enqueue(models.SyncOpCreate, models.EntityPOI, p.ID, "")
		}

		if im.writeDelay > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(im.writeDelay):
			}
		}
	}

	if next := maxSeq + 1; next > t.NextSequence {
		if err := im.repos.Trails.SetNextSequence(ctx, t.ID, next); err != nil {
			return res, fmt.Errorf("error updating sequence counter: %w", err)
		}
	}
	return res, nil
}

func readZipBytes(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// idMinter mints capture-timestamp ids during import, bumping the clock by a
// millisecond on collision so every imported POI gets a distinct id even when
// the source rows share a capture time.
type idMinter struct {
	seen map[string]struct{}
}

func newIDMinter() *idMinter {
	return &idMinter{seen: make(map[string]struct{})}
}

func (m *idMinter) Mint(groupCode string, trailType models.TrailType, capturedAt time.Time) string {
	for {
		id := models.NewPOIID(groupCode, trailType, capturedAt)
		if _, dup := m.seen[id]; !dup {
			m.seen[id] = struct{}{}
			return id
		}
		capturedAt = capturedAt.Add(time.Millisecond)
	}
}
