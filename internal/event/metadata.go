package event

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// Metadata carries the fields shared by every decoded event.
type Metadata struct {
	Signature solana.Signature
	Slot      uint64
	BlockTime *int64 // unix seconds, nil when the block is not yet timestamped
	// BlockTimeMS is BlockTime in milliseconds, 0 when BlockTime is nil.
	BlockTimeMS int64
	ProgramID   solana.PublicKey
	// OuterIndex is the position of the decoded instruction in the
	// transaction. For log-derived events it is the index of the decoded
	// log line instead, so events stay distinguishable by position.
	OuterIndex int64
	InnerIndex *int64
	TxIndex    *uint64
	// RecvUS is when the transaction snapshot was received, HandleUS when
	// this event was decoded, both in microseconds since the epoch.
	RecvUS   int64
	HandleUS int64
}

// NewMetadata builds metadata for one decode pass. recvUS is the stream
// receive timestamp; pass 0 to stamp with the current time.
func NewMetadata(sig solana.Signature, slot uint64, blockTime *int64, programID solana.PublicKey, recvUS int64) Metadata {
	now := time.Now().UnixMicro()
	if recvUS == 0 {
		recvUS = now
	}
	m := Metadata{
		Signature: sig,
		Slot:      slot,
		BlockTime: blockTime,
		ProgramID: programID,
		RecvUS:    recvUS,
		HandleUS:  now,
	}
	if blockTime != nil {
		m.BlockTimeMS = *blockTime * 1000
	}
	return m
}
