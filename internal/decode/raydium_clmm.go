package decode

import (
	"github.com/gagliardetto/solana-go"

	"sol-dex-stream/internal/cursor"
	"sol-dex-stream/internal/dispatch"
	"sol-dex-stream/internal/event"
)

// Raydium CLMM is instruction-only: the program logs no structured events
// for these operations.
var (
	clmmSwapIx              = [8]byte{248, 198, 158, 145, 225, 117, 135, 200}
	clmmIncreaseLiquidityIx = [8]byte{133, 29, 89, 223, 69, 238, 176, 10}
	clmmDecreaseLiquidityIx = [8]byte{160, 38, 208, 111, 104, 91, 44, 1}
	clmmCreatePoolIx        = [8]byte{233, 146, 209, 142, 207, 104, 64, 188}
	clmmOpenPositionIx      = [8]byte{135, 128, 47, 77, 15, 152, 240, 49}
	clmmClosePositionIx     = [8]byte{123, 134, 81, 0, 49, 68, 98, 98}
)

func registerRaydiumClmm(r *dispatch.Registry) {
	r.RegisterInstruction(RaydiumClmmProgram, clmmSwapIx, decodeClmmSwap)
	r.RegisterInstruction(RaydiumClmmProgram, clmmIncreaseLiquidityIx, decodeClmmIncreaseLiquidity)
	r.RegisterInstruction(RaydiumClmmProgram, clmmDecreaseLiquidityIx, decodeClmmDecreaseLiquidity)
	r.RegisterInstruction(RaydiumClmmProgram, clmmCreatePoolIx, decodeClmmCreatePool)
	r.RegisterInstruction(RaydiumClmmProgram, clmmOpenPositionIx, decodeClmmOpenPosition)
	r.RegisterInstruction(RaydiumClmmProgram, clmmClosePositionIx, decodeClmmClosePosition)
}

func decodeClmmSwap(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	off := 0
	amount, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	threshold, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	sqrtPriceLimit, off, ok := cursor.ReadU128(data, off)
	if !ok {
		return nil
	}
	isBaseInput, _, ok := cursor.ReadBool(data, off)
	if !ok {
		return nil
	}
	if len(accounts) == 0 {
		return nil
	}
	return &event.RaydiumClmmSwapEvent{
		Metadata:             meta,
		Pool:                 accounts[0],
		User:                 account(accounts, 1),
		IsBaseInput:          isBaseInput,
		Amount:               amount,
		OtherAmountThreshold: threshold,
		SqrtPriceLimitX64:    sqrtPriceLimit,
	}
}

func decodeClmmIncreaseLiquidity(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	off := 0
	liquidity, off, ok := cursor.ReadU128(data, off)
	if !ok {
		return nil
	}
	amount0Max, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	amount1Max, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	if len(accounts) == 0 {
		return nil
	}
	return &event.RaydiumClmmIncreaseLiquidityEvent{
		Metadata:   meta,
		Pool:       accounts[0],
		User:       account(accounts, 2),
		Liquidity:  liquidity,
		Amount0Max: amount0Max,
		Amount1Max: amount1Max,
	}
}

func decodeClmmDecreaseLiquidity(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	off := 0
	liquidity, off, ok := cursor.ReadU128(data, off)
	if !ok {
		return nil
	}
	amount0Min, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	amount1Min, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	if len(accounts) == 0 {
		return nil
	}
	return &event.RaydiumClmmDecreaseLiquidityEvent{
		Metadata:   meta,
		Pool:       accounts[0],
		User:       account(accounts, 1),
		Liquidity:  liquidity,
		Amount0Min: amount0Min,
		Amount1Min: amount1Min,
	}
}

func decodeClmmCreatePool(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	off := 0
	sqrtPrice, off, ok := cursor.ReadU128(data, off)
	if !ok {
		return nil
	}
	openTime, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	if len(accounts) == 0 {
		return nil
	}
	return &event.RaydiumClmmCreatePoolEvent{
		Metadata:     meta,
		Pool:         accounts[0],
		Creator:      account(accounts, 1),
		SqrtPriceX64: sqrtPrice,
		OpenTime:     openTime,
	}
}

func decodeClmmOpenPosition(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	off := 0
	tickLower, off, ok := cursor.ReadI32(data, off)
	if !ok {
		return nil
	}
	tickUpper, off, ok := cursor.ReadI32(data, off)
	if !ok {
		return nil
	}
	// tick array start indices, unused
	_, off, ok = cursor.ReadI32(data, off)
	if !ok {
		return nil
	}
	_, off, ok = cursor.ReadI32(data, off)
	if !ok {
		return nil
	}
	liquidity, _, ok := cursor.ReadU128(data, off)
	if !ok {
		return nil
	}
	if len(accounts) == 0 {
		return nil
	}
	return &event.RaydiumClmmOpenPositionEvent{
		Metadata:        meta,
		Pool:            accounts[0],
		User:            account(accounts, 1),
		PositionNftMint: account(accounts, 2),
		TickLowerIndex:  tickLower,
		TickUpperIndex:  tickUpper,
		Liquidity:       liquidity,
	}
}

func decodeClmmClosePosition(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	if len(accounts) == 0 {
		return nil
	}
	return &event.RaydiumClmmClosePositionEvent{
		Metadata:        meta,
		Pool:            accounts[0],
		User:            account(accounts, 1),
		PositionNftMint: account(accounts, 2),
	}
}
