package decode

import (
	"sol-dex-stream/internal/cursor"
	"sol-dex-stream/internal/dispatch"
	"sol-dex-stream/internal/event"
)

// PumpSwap emits its event discriminator bare at the head of the payload,
// so it registers in the legacy 8-byte table. Only the log side exists;
// PumpSwap events pass through the merge engine unpaired.
var (
	pumpSwapBuyLog        = [8]byte{102, 6, 61, 18, 1, 218, 235, 234}
	pumpSwapSellLog       = [8]byte{51, 230, 133, 164, 1, 127, 131, 173}
	pumpSwapCreatePoolLog = [8]byte{233, 146, 209, 142, 207, 104, 64, 188}
)

func registerPumpSwap(r *dispatch.Registry) {
	r.RegisterProgram(PumpSwapProgram)
	r.RegisterLegacyLogEvent(pumpSwapBuyLog, decodePumpSwapBuyLog)
	r.RegisterLegacyLogEvent(pumpSwapSellLog, decodePumpSwapSellLog)
	r.RegisterLegacyLogEvent(pumpSwapCreatePoolLog, decodePumpSwapCreatePoolLog)
}

func decodePumpSwapBuyLog(data []byte, meta event.Metadata) event.Event {
	off := 0
	user, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	tokenMint, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	solAmount, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	tokenAmount, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	pool, _, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	return &event.PumpSwapBuyEvent{
		Metadata:    meta,
		Pool:        pool,
		User:        user,
		TokenMint:   tokenMint,
		SolAmount:   solAmount,
		TokenAmount: tokenAmount,
	}
}

func decodePumpSwapSellLog(data []byte, meta event.Metadata) event.Event {
	off := 0
	user, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	tokenMint, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	tokenAmount, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	solAmount, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	pool, _, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	return &event.PumpSwapSellEvent{
		Metadata:    meta,
		Pool:        pool,
		User:        user,
		TokenMint:   tokenMint,
		TokenAmount: tokenAmount,
		SolAmount:   solAmount,
	}
}

func decodePumpSwapCreatePoolLog(data []byte, meta event.Metadata) event.Event {
	off := 0
	creator, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	tokenMint, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	pool, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	initialSol, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	initialToken, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	return &event.PumpSwapCreatePoolEvent{
		Metadata:           meta,
		Pool:               pool,
		Creator:            creator,
		TokenMint:          tokenMint,
		InitialSolAmount:   initialSol,
		InitialTokenAmount: initialToken,
	}
}
