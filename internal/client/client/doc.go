// Package client contains client-side building blocks for TrailKeeper.
//
// # Overview
//
// The package provides:
//  1. Local persistence bootstrap utilities (InitDatabase, RunMigrations),
//     wiring an SQLite database and applying embedded goose migrations, and
//     the Repositories bundle handed to services.
//  2. A transport-agnostic remote-store contract (see the Remote and
//     BlobStore interfaces): upsert-by-id writes to the remote tables and
//     durable-URL blob uploads.
//  3. Concrete implementations: PostgresRemote over database/sql with the
//     pgx driver, and S3BlobStore over aws-sdk-go-v2 using presigned PUT
//     uploads and long-lived presigned GET URLs.
//
// # Error Handling
//
// Remote writes are idempotent upserts keyed by primary id, so replays after
// partial failures are safe. ArchiveTrail returns common.ErrorNotSynced when
// the targeted row has never reached the remote store.
package client
