package models

import "time"

// BrochureSetup holds the printable-brochure settings for one trail. Its id
// equals the trail id (one-to-one).
type BrochureSetup struct {
	ID          string
	CoverTitle  string
	CoverPhoto  []byte
	GroupName   string
	Credits     string
	Intro       string
	Funder      string
	MapImage    []byte
	FunderLogos [][]byte
	UpdatedAt   time.Time
}
