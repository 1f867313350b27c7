package merge

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sol-dex-stream/internal/event"
)

func pk(b byte) solana.PublicKey {
	return solana.PublicKeyFromBytes(bytes.Repeat([]byte{b}, 32))
}

func sig(b byte) solana.Signature {
	return solana.SignatureFromBytes(bytes.Repeat([]byte{b}, 64))
}

func meta(sigByte byte) event.Metadata {
	return event.Metadata{Signature: sig(sigByte), Slot: 100}
}

func buyInstr() *event.PumpFunTradeEvent {
	return &event.PumpFunTradeEvent{
		Metadata:     meta(1),
		Mint:         pk(10),
		User:         pk(11),
		BondingCurve: pk(12),
		IsBuy:        true,
		Amount:       1_000_000_000,
		MaxSolCost:   500_000_000,
		Global:       pk(13),
		CreatorVault: pk(14),
	}
}

func buyLog() *event.PumpFunTradeEvent {
	return &event.PumpFunTradeEvent{
		Metadata:           meta(1),
		Mint:               pk(10),
		User:               pk(11),
		IsBuy:              true,
		SolAmount:          480_000_000,
		TokenAmount:        950_000_000,
		VirtualSolReserves: 30_480_000_000,
		Fee:                4_800_000,
		FeeRecipient:       pk(15),
		Timestamp:          1_700_000_000,
	}
}

func TestMergePrecedence(t *testing.T) {
	out := Events([]event.Event{buyInstr()}, []event.Event{buyLog()})
	require.Len(t, out, 1)

	m := out[0].(*event.PumpFunTradeEvent)
	assert.Equal(t, uint64(500_000_000), m.MaxSolCost, "instruction keeps the limit parameter")
	assert.Equal(t, uint64(1_000_000_000), m.Amount, "instruction keeps the requested amount")
	assert.Equal(t, uint64(480_000_000), m.SolAmount, "log supplies settled sol")
	assert.Equal(t, uint64(950_000_000), m.TokenAmount, "log supplies settled tokens")

	// Zero fields on either side are filled from the other.
	assert.Equal(t, pk(12), m.BondingCurve, "account set comes from the instruction")
	assert.Equal(t, pk(13), m.Global)
	assert.Equal(t, pk(15), m.FeeRecipient, "fee recipient comes from the log")
	assert.Equal(t, int64(1_700_000_000), m.Timestamp)
}

func TestMergeIdempotence(t *testing.T) {
	out := Events([]event.Event{buyLog()}, []event.Event{buyLog()})
	require.Len(t, out, 1)
	assert.Equal(t, buyLog(), out[0], "merging identical copies changes nothing")
}

func TestMergePassThrough(t *testing.T) {
	instr := buyInstr()
	out := Events([]event.Event{instr}, nil)
	require.Len(t, out, 1)
	assert.Same(t, event.Event(instr), out[0], "lone instruction event passes through")

	lg := buyLog()
	out = Events(nil, []event.Event{lg})
	require.Len(t, out, 1)
	assert.Same(t, event.Event(lg), out[0], "lone log event passes through")
}

func TestMergeDirectionMismatch(t *testing.T) {
	sell := buyInstr()
	sell.IsBuy = false
	sell.MaxSolCost = 0
	sell.MinSolOutput = 450_000_000

	out := Events([]event.Event{sell}, []event.Event{buyLog()})
	require.Len(t, out, 2, "opposite directions must not pair")
}

func TestMergeSignatureMismatch(t *testing.T) {
	instr := buyInstr()
	instr.Signature = sig(2)

	out := Events([]event.Event{instr}, []event.Event{buyLog()})
	require.Len(t, out, 2, "different transactions must not pair")
}

func TestMergeVariantMismatchKeepsLogSide(t *testing.T) {
	lg := buyLog()
	got := Pair(lg, &event.BonkTradeEvent{Metadata: meta(1), PoolState: pk(10)})
	assert.Same(t, event.Event(lg), got)
}

func TestMergeNewestCounterpartWinsAndIsConsumed(t *testing.T) {
	older := buyLog()
	older.SolAmount = 111
	newer := buyLog()
	newer.SolAmount = 222

	out := Events([]event.Event{buyInstr(), buyInstr()}, []event.Event{older, newer})
	require.Len(t, out, 2)

	first := out[0].(*event.PumpFunTradeEvent)
	second := out[1].(*event.PumpFunTradeEvent)
	assert.Equal(t, uint64(111), first.SolAmount)
	assert.Equal(t, uint64(222), second.SolAmount)
	assert.Equal(t, uint64(500_000_000), second.MaxSolCost, "first instruction merges into the newest log event")
	assert.Equal(t, uint64(500_000_000), first.MaxSolCost, "second instruction falls back to the older one")
}

func TestMergeCpmmSwap(t *testing.T) {
	instr := &event.RaydiumCpmmSwapEvent{
		Metadata:         meta(3),
		Pool:             pk(50),
		User:             pk(51),
		IsBaseInput:      true,
		AmountIn:         5_000,
		MinimumAmountOut: 4_900,
	}
	lg := &event.RaydiumCpmmSwapEvent{
		Metadata:         meta(3),
		Pool:             pk(50),
		User:             pk(51),
		Token0Mint:       pk(52),
		Token1Mint:       pk(53),
		IsBaseInput:      true,
		AmountIn:         5_000,
		AmountOut:        4_950,
		FeeAmount:        12,
		PoolToken0Amount: 700_000,
		PoolToken1Amount: 800_000,
	}

	out := Events([]event.Event{instr}, []event.Event{lg})
	require.Len(t, out, 1)

	m := out[0].(*event.RaydiumCpmmSwapEvent)
	assert.Equal(t, uint64(4_950), m.AmountOut, "log supplies the settled output")
	assert.Equal(t, uint64(4_900), m.MinimumAmountOut, "instruction supplies the limit")
	assert.Equal(t, uint64(12), m.FeeAmount)
	assert.Equal(t, pk(52), m.Token0Mint)
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	instr := buyInstr()
	lg := buyLog()
	want := *lg

	Events([]event.Event{instr}, []event.Event{lg})
	assert.Equal(t, want, *lg, "log input must stay untouched")
	assert.Equal(t, *buyInstr(), *instr, "instruction input must stay untouched")
}
