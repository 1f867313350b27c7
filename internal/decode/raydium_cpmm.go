package decode

import (
	"github.com/gagliardetto/solana-go"

	"sol-dex-stream/internal/cursor"
	"sol-dex-stream/internal/dispatch"
	"sol-dex-stream/internal/event"
)

// Raydium CPMM instruction discriminators.
var (
	cpmmSwapBaseInIx  = [8]byte{143, 190, 90, 218, 196, 30, 51, 222}
	cpmmSwapBaseOutIx = [8]byte{55, 217, 98, 86, 163, 74, 180, 173}
	cpmmInitializeIx  = [8]byte{175, 175, 109, 31, 13, 152, 155, 237}
	cpmmDepositIx     = [8]byte{242, 35, 198, 137, 82, 225, 242, 182}
	cpmmWithdrawIx    = [8]byte{183, 18, 70, 156, 148, 109, 161, 34}
)

// Raydium CPMM structured log event discriminators.
var (
	cpmmSwapLog       = [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	cpmmInitializeLog = [8]byte{9, 10, 11, 12, 13, 14, 15, 16}
	cpmmDepositLog    = [8]byte{17, 18, 19, 20, 21, 22, 23, 24}
	cpmmWithdrawLog   = [8]byte{25, 26, 27, 28, 29, 30, 31, 32}
)

func registerRaydiumCpmm(r *dispatch.Registry) {
	r.RegisterInstruction(RaydiumCpmmProgram, cpmmSwapBaseInIx, decodeCpmmSwapBaseIn)
	r.RegisterInstruction(RaydiumCpmmProgram, cpmmSwapBaseOutIx, decodeCpmmSwapBaseOut)
	r.RegisterInstruction(RaydiumCpmmProgram, cpmmInitializeIx, decodeCpmmInitialize)
	r.RegisterInstruction(RaydiumCpmmProgram, cpmmDepositIx, decodeCpmmDeposit)
	r.RegisterInstruction(RaydiumCpmmProgram, cpmmWithdrawIx, decodeCpmmWithdraw)

	r.RegisterLogEvent(cpmmSwapLog, decodeCpmmSwapLog)
	r.RegisterLogEvent(cpmmInitializeLog, decodeCpmmInitializeLog)
	r.RegisterLogEvent(cpmmDepositLog, decodeCpmmDepositLog)
	r.RegisterLogEvent(cpmmWithdrawLog, decodeCpmmWithdrawLog)
}

func decodeCpmmSwapBaseIn(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	off := 0
	amountIn, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	minimumAmountOut, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	if len(accounts) == 0 {
		return nil
	}
	return &event.RaydiumCpmmSwapEvent{
		Metadata:         meta,
		Pool:             accounts[0],
		User:             account(accounts, 1),
		IsBaseInput:      true,
		AmountIn:         amountIn,
		MinimumAmountOut: minimumAmountOut,
	}
}

func decodeCpmmSwapBaseOut(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	off := 0
	maximumAmountIn, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	amountOut, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	if len(accounts) == 0 {
		return nil
	}
	return &event.RaydiumCpmmSwapEvent{
		Metadata:        meta,
		Pool:            accounts[0],
		User:            account(accounts, 1),
		AmountOut:       amountOut,
		MaximumAmountIn: maximumAmountIn,
	}
}

func decodeCpmmInitialize(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	off := 0
	initAmount0, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	initAmount1, off, ok := cursor.ReadU64(data, off)
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
	return &event.RaydiumCpmmInitializeEvent{
		Metadata:    meta,
		Pool:        accounts[0],
		Creator:     account(accounts, 1),
		InitAmount0: initAmount0,
		InitAmount1: initAmount1,
		OpenTime:    openTime,
	}
}

func decodeCpmmDeposit(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	off := 0
	lpTokenAmount, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	max0, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	max1, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	if len(accounts) == 0 {
		return nil
	}
	return &event.RaydiumCpmmDepositEvent{
		Metadata:      meta,
		Pool:          accounts[0],
		User:          account(accounts, 1),
		LpTokenAmount: lpTokenAmount,
		Token0Amount:  max0,
		Token1Amount:  max1,
	}
}

func decodeCpmmWithdraw(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	off := 0
	lpTokenAmount, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	min0, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	min1, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	if len(accounts) == 0 {
		return nil
	}
	return &event.RaydiumCpmmWithdrawEvent{
		Metadata:      meta,
		Pool:          accounts[0],
		User:          account(accounts, 1),
		LpTokenAmount: lpTokenAmount,
		Token0Amount:  min0,
		Token1Amount:  min1,
	}
}

func decodeCpmmSwapLog(data []byte, meta event.Metadata) event.Event {
	off := 0
	pool, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	user, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	token0Mint, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	token1Mint, off, ok := cursor.ReadPubkey(data, off)
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
	isToken0In, off, ok := cursor.ReadBool(data, off)
	if !ok {
		return nil
	}
	feeAmount, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	poolToken0, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	poolToken1, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	price, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	return &event.RaydiumCpmmSwapEvent{
		Metadata:         meta,
		Pool:             pool,
		User:             user,
		Token0Mint:       token0Mint,
		Token1Mint:       token1Mint,
		IsBaseInput:      isToken0In,
		AmountIn:         amountIn,
		AmountOut:        amountOut,
		FeeAmount:        feeAmount,
		PoolToken0Amount: poolToken0,
		PoolToken1Amount: poolToken1,
		Price:            price,
	}
}

func decodeCpmmInitializeLog(data []byte, meta event.Metadata) event.Event {
	off := 0
	pool, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	creator, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	token0Mint, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	token1Mint, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	token0Vault, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	token1Vault, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	lpMint, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	amount0, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	amount1, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	feeRate, _, ok := cursor.ReadU16(data, off)
	if !ok {
		return nil
	}
	return &event.RaydiumCpmmInitializeEvent{
		Metadata:    meta,
		Pool:        pool,
		Creator:     creator,
		Token0Mint:  token0Mint,
		Token1Mint:  token1Mint,
		Token0Vault: token0Vault,
		Token1Vault: token1Vault,
		LpMint:      lpMint,
		InitAmount0: amount0,
		InitAmount1: amount1,
		FeeRate:     feeRate,
	}
}

func decodeCpmmDepositLog(data []byte, meta event.Metadata) event.Event {
	ev, ok := readCpmmLiquidityLog(data)
	if !ok {
		return nil
	}
	out := event.RaydiumCpmmDepositEvent(*ev)
	out.Metadata = meta
	return &out
}

func decodeCpmmWithdrawLog(data []byte, meta event.Metadata) event.Event {
	ev, ok := readCpmmLiquidityLog(data)
	if !ok {
		return nil
	}
	out := event.RaydiumCpmmWithdrawEvent(*ev)
	out.Metadata = meta
	return &out
}

// Deposit and Withdraw share one wire layout.
func readCpmmLiquidityLog(data []byte) (*event.RaydiumCpmmDepositEvent, bool) {
	off := 0
	pool, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil, false
	}
	user, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil, false
	}
	token0Amount, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil, false
	}
	token1Amount, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil, false
	}
	lpTokenAmount, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil, false
	}
	poolToken0, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil, false
	}
	poolToken1, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil, false
	}
	return &event.RaydiumCpmmDepositEvent{
		Pool:             pool,
		User:             user,
		Token0Amount:     token0Amount,
		Token1Amount:     token1Amount,
		LpTokenAmount:    lpTokenAmount,
		PoolToken0Amount: poolToken0,
		PoolToken1Amount: poolToken1,
	}, true
}
