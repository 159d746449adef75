// Package common contains shared constants and sentinel errors used across
// TrailKeeper components.
package common

// MaxSyncAttempts is the retry ceiling for a single sync queue item. When an
// item fails this many times it is abandoned (marked done-with-failure) so it
// stops blocking the queue.
const MaxSyncAttempts = 5

// ArchiveSchemaVersion is the only trail-package schema version this build
// reads or writes. Anything else is rejected outright.
const ArchiveSchemaVersion = "1.0"

// MaxFunderLogos caps the number of funder logo images on a brochure setup.
const MaxFunderLogos = 6
