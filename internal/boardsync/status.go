package boardsync

import (
	"time"

	"github.com/hay-kot/painel/internal/core/board"
)

// Status is the sync indicator shown to the user.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSaved   Status = "saved"
	StatusError   Status = "error"
)

// Snapshot is the engine state published to subscribers after every change.
type Snapshot struct {
	Document board.Document
	Status   Status
	Endpoint string
	// LastPush is when the remote store last accepted a write. Zero when no
	// write has succeeded in this process.
	LastPush time.Time
}

// Offline reports whether remote sync is disabled.
func (s Snapshot) Offline() bool {
	return s.Endpoint == ""
}

// PollResult describes what a single poll did.
type PollResult string

const (
	// PollSkipped means no fetch was made: no endpoint, a push is pending,
	// or the engine is closed.
	PollSkipped PollResult = "skipped"
	// PollFailed means the fetch or decode failed. Local state is untouched.
	PollFailed PollResult = "failed"
	// PollNoMarker means the payload carried no lastUpdated marker.
	PollNoMarker PollResult = "no-marker"
	// PollUnchanged means the remote document equals local state.
	PollUnchanged PollResult = "unchanged"
	// PollEchoGuarded means the remote document differs but a local write
	// was accepted too recently to trust it.
	PollEchoGuarded PollResult = "echo-guarded"
	// PollDiscarded means local state changed while the fetch was in flight.
	PollDiscarded PollResult = "discarded"
	// PollAdopted means the remote document replaced local state.
	PollAdopted PollResult = "adopted"
)
