package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// sync / remote specific errors
	ErrorNoIdentity = errors.New("no profile configured on this device")
	ErrorNotSynced  = errors.New("trail has never been synced, sync first")
	ErrorNoRemote   = errors.New("no remote store configured")

	// import specific errors
	ErrorNoManifest       = errors.New("no trail manifest found, archive may be from an older export")
	ErrorBadSchemaVersion = errors.New("unsupported archive schema version")
	ErrorUnknownStrategy  = errors.New("unknown conflict resolution strategy")
)
