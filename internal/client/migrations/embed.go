// Package migrations embeds the goose migrations for the local store.
// Schema evolution is additive only: new collections and indexes arrive as
// new migration files, existing rows are never rewritten.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
