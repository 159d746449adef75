// Package services implements the client's domain operations on top of the
// local repositories: entity lifecycle (trails, POIs, brochures, profile),
// the outbound sync queue and its drain engine, trail-package export/import,
// and device maintenance.
//
// Services receive their repositories, remote store and logger at
// construction. They do not guard against concurrent invocation of the same
// operation; the caller (CLI or UI shell) serializes sync drains and imports.
package services
