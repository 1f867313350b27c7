// Package idhash derives deterministic identifiers for canonical events,
// so consumers can deduplicate across stream reconnects and replays.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"sol-dex-stream/internal/event"
)

// ComputeEventID computes a deterministic event identifier using SHA256.
// Formula: SHA256(signature|kind|slot|outer_index)
// Returns hex-encoded hash (64 characters).
func ComputeEventID(ev event.Event) string {
	meta := ev.Meta()
	data := fmt.Sprintf("%s|%s|%d|%d",
		meta.Signature,
		ev.Kind(),
		meta.Slot,
		meta.OuterIndex,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
