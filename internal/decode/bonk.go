package decode

import (
	"sol-dex-stream/internal/cursor"
	"sol-dex-stream/internal/dispatch"
	"sol-dex-stream/internal/event"
)

// Bonk launchpad log event discriminators, bare 8-byte form.
var (
	bonkTradeLog      = [8]byte{2, 3, 4, 5, 6, 7, 8, 9}
	bonkPoolCreateLog = [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	bonkMigrateAmmLog = [8]byte{3, 4, 5, 6, 7, 8, 9, 10}
)

func registerBonk(r *dispatch.Registry) {
	r.RegisterProgram(BonkProgram)
	r.RegisterLegacyLogEvent(bonkTradeLog, decodeBonkTradeLog)
	r.RegisterLegacyLogEvent(bonkPoolCreateLog, decodeBonkPoolCreateLog)
	r.RegisterLegacyLogEvent(bonkMigrateAmmLog, decodeBonkMigrateAmmLog)
}

func decodeBonkTradeLog(data []byte, meta event.Metadata) event.Event {
	off := 0
	poolState, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	user, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	amountIn, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	amountOut, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	isBuy, off, ok := cursor.ReadBool(data, off)
	if !ok {
		return nil
	}
	exactIn, _, ok := cursor.ReadBool(data, off)
	if !ok {
		return nil
	}
	return &event.BonkTradeEvent{
		Metadata:  meta,
		PoolState: poolState,
		User:      user,
		AmountIn:  amountIn,
		AmountOut: amountOut,
		IsBuy:     isBuy,
		ExactIn:   exactIn,
	}
}

func decodeBonkPoolCreateLog(data []byte, meta event.Metadata) event.Event {
	off := 0
	poolState, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	baseMint, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	quoteMint, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	creator, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	liquidityBase, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	liquidityQuote, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	return &event.BonkPoolCreateEvent{
		Metadata:              meta,
		PoolState:             poolState,
		Creator:               creator,
		BaseMint:              baseMint,
		QuoteMint:             quoteMint,
		InitialLiquidityBase:  liquidityBase,
		InitialLiquidityQuote: liquidityQuote,
	}
}

func decodeBonkMigrateAmmLog(data []byte, meta event.Metadata) event.Event {
	off := 0
	oldPool, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	newPool, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	user, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	liquidity, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	return &event.BonkMigrateAmmEvent{
		Metadata:        meta,
		OldPool:         oldPool,
		NewPool:         newPool,
		User:            user,
		LiquidityAmount: liquidity,
	}
}
