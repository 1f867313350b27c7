// Package merge reconciles the two partial views of one on-chain action:
// the instruction view (pre-execution intent, limit parameters, full
// account set) and the log view (post-execution settlement amounts,
// reserves, fees). Pairing is heuristic, scoped to a single transaction:
// nearest unconsumed event of the same variant whose merge key matches.
package merge

import (
	"github.com/gagliardetto/solana-go"

	"sol-dex-stream/internal/cursor"
	"sol-dex-stream/internal/event"
)

// Events merges the instruction-derived and log-derived partial events of
// one transaction. The result set is seeded with the log events; each
// instruction event is merged into the newest unconsumed same-variant
// entry with a matching merge key, or appended unchanged when no
// counterpart exists. Inputs are not mutated.
func Events(instrEvents, logEvents []event.Event) []event.Event {
	out := make([]event.Event, 0, len(instrEvents)+len(logEvents))
	out = append(out, logEvents...)
	consumed := make([]bool, len(logEvents), len(instrEvents)+len(logEvents))

	for _, ie := range instrEvents {
		matched := false
		for i := len(out) - 1; i >= 0; i-- {
			if consumed[i] || !sameAction(out[i], ie) {
				continue
			}
			out[i] = Pair(out[i], ie)
			consumed[i] = true
			matched = true
			break
		}
		if !matched {
			out = append(out, ie)
			consumed = append(consumed, false)
		}
	}
	return out
}

// sameAction reports whether two events describe the same on-chain action:
// same concrete variant, same signature, and matching variant-specific
// identity (pool or mint, plus direction where the protocol distinguishes
// it).
func sameAction(a, b event.Event) bool {
	if a.Meta().Signature != b.Meta().Signature {
		return false
	}
	switch x := a.(type) {
	case *event.PumpFunTradeEvent:
		y, ok := b.(*event.PumpFunTradeEvent)
		return ok && x.Mint == y.Mint && x.IsBuy == y.IsBuy
	case *event.PumpFunCreateEvent:
		y, ok := b.(*event.PumpFunCreateEvent)
		return ok && x.Mint == y.Mint
	case *event.PumpFunCompleteEvent:
		y, ok := b.(*event.PumpFunCompleteEvent)
		return ok && x.Mint == y.Mint
	case *event.PumpSwapBuyEvent:
		y, ok := b.(*event.PumpSwapBuyEvent)
		return ok && x.Pool == y.Pool
	case *event.PumpSwapSellEvent:
		y, ok := b.(*event.PumpSwapSellEvent)
		return ok && x.Pool == y.Pool
	case *event.PumpSwapCreatePoolEvent:
		y, ok := b.(*event.PumpSwapCreatePoolEvent)
		return ok && x.Pool == y.Pool
	case *event.RaydiumCpmmSwapEvent:
		y, ok := b.(*event.RaydiumCpmmSwapEvent)
		return ok && x.Pool == y.Pool
	case *event.RaydiumCpmmDepositEvent:
		y, ok := b.(*event.RaydiumCpmmDepositEvent)
		return ok && x.Pool == y.Pool
	case *event.RaydiumCpmmWithdrawEvent:
		y, ok := b.(*event.RaydiumCpmmWithdrawEvent)
		return ok && x.Pool == y.Pool
	case *event.RaydiumCpmmInitializeEvent:
		y, ok := b.(*event.RaydiumCpmmInitializeEvent)
		return ok && x.Pool == y.Pool
	case *event.RaydiumClmmSwapEvent:
		y, ok := b.(*event.RaydiumClmmSwapEvent)
		return ok && x.Pool == y.Pool && x.IsBaseInput == y.IsBaseInput
	case *event.BonkTradeEvent:
		y, ok := b.(*event.BonkTradeEvent)
		return ok && x.PoolState == y.PoolState
	case *event.BonkPoolCreateEvent:
		y, ok := b.(*event.BonkPoolCreateEvent)
		return ok && x.PoolState == y.PoolState
	}
	return false
}

// Pair merges an instruction-side event into its log-side counterpart.
// Log values win for execution truth, instruction values win for fields
// only the instruction carries, and zero-sentinel fields on either side
// are filled from the other. Variant-mismatched pairs return the log side
// unchanged.
func Pair(logSide, instrSide event.Event) event.Event {
	switch l := logSide.(type) {
	case *event.PumpFunTradeEvent:
		if i, ok := instrSide.(*event.PumpFunTradeEvent); ok {
			return mergePumpFunTrade(l, i)
		}
	case *event.PumpFunCreateEvent:
		if i, ok := instrSide.(*event.PumpFunCreateEvent); ok {
			return mergePumpFunCreate(l, i)
		}
	case *event.RaydiumCpmmSwapEvent:
		if i, ok := instrSide.(*event.RaydiumCpmmSwapEvent); ok {
			return mergeCpmmSwap(l, i)
		}
	case *event.RaydiumCpmmDepositEvent:
		if i, ok := instrSide.(*event.RaydiumCpmmDepositEvent); ok {
			return mergeCpmmDeposit(l, i)
		}
	case *event.RaydiumCpmmWithdrawEvent:
		if i, ok := instrSide.(*event.RaydiumCpmmWithdrawEvent); ok {
			return mergeCpmmWithdraw(l, i)
		}
	case *event.RaydiumCpmmInitializeEvent:
		if i, ok := instrSide.(*event.RaydiumCpmmInitializeEvent); ok {
			return mergeCpmmInitialize(l, i)
		}
	case *event.RaydiumClmmSwapEvent:
		if i, ok := instrSide.(*event.RaydiumClmmSwapEvent); ok {
			return mergeClmmSwap(l, i)
		}
	}
	return logSide
}

func mergeClmmSwap(l, i *event.RaydiumClmmSwapEvent) event.Event {
	m := *l

	m.Pool = pickPk(l.Pool, i.Pool)
	m.User = pickPk(l.User, i.User)
	m.Amount = pickU64(l.Amount, i.Amount)
	m.OtherAmountThreshold = pickU64(i.OtherAmountThreshold, l.OtherAmountThreshold)
	m.SqrtPriceLimitX64 = pickU128(i.SqrtPriceLimitX64, l.SqrtPriceLimitX64)

	return &m
}

func mergePumpFunTrade(l, i *event.PumpFunTradeEvent) event.Event {
	m := *l

	m.Mint = pickPk(l.Mint, i.Mint)
	m.User = pickPk(l.User, i.User)
	m.BondingCurve = pickPk(l.BondingCurve, i.BondingCurve)

	m.SolAmount = pickU64(l.SolAmount, i.SolAmount)
	m.TokenAmount = pickU64(l.TokenAmount, i.TokenAmount)
	m.VirtualSolReserves = pickU64(l.VirtualSolReserves, i.VirtualSolReserves)
	m.VirtualTokenReserves = pickU64(l.VirtualTokenReserves, i.VirtualTokenReserves)
	m.RealSolReserves = pickU64(l.RealSolReserves, i.RealSolReserves)
	m.RealTokenReserves = pickU64(l.RealTokenReserves, i.RealTokenReserves)
	m.FeeRecipient = pickPk(l.FeeRecipient, i.FeeRecipient)
	m.FeeBasisPoints = pickU64(l.FeeBasisPoints, i.FeeBasisPoints)
	m.Fee = pickU64(l.Fee, i.Fee)
	m.Creator = pickPk(l.Creator, i.Creator)
	m.CreatorFee = pickU64(l.CreatorFee, i.CreatorFee)
	m.Timestamp = pickI64(l.Timestamp, i.Timestamp)

	m.Amount = pickU64(i.Amount, l.Amount)
	m.MaxSolCost = pickU64(i.MaxSolCost, l.MaxSolCost)
	m.MinSolOutput = pickU64(i.MinSolOutput, l.MinSolOutput)
	m.IsBot = l.IsBot || i.IsBot

	m.Global = pickPk(i.Global, l.Global)
	m.AssociatedBondingCurve = pickPk(i.AssociatedBondingCurve, l.AssociatedBondingCurve)
	m.AssociatedUser = pickPk(i.AssociatedUser, l.AssociatedUser)
	m.CreatorVault = pickPk(i.CreatorVault, l.CreatorVault)
	m.EventAuthority = pickPk(i.EventAuthority, l.EventAuthority)

	return &m
}

func mergePumpFunCreate(l, i *event.PumpFunCreateEvent) event.Event {
	m := *l

	m.Name = pickStr(l.Name, i.Name)
	m.Symbol = pickStr(l.Symbol, i.Symbol)
	m.URI = pickStr(l.URI, i.URI)
	m.Mint = pickPk(l.Mint, i.Mint)
	m.BondingCurve = pickPk(l.BondingCurve, i.BondingCurve)
	m.User = pickPk(l.User, i.User)
	m.Creator = pickPk(l.Creator, i.Creator)
	m.Timestamp = pickI64(l.Timestamp, i.Timestamp)
	m.VirtualTokenReserves = pickU64(l.VirtualTokenReserves, i.VirtualTokenReserves)
	m.VirtualSolReserves = pickU64(l.VirtualSolReserves, i.VirtualSolReserves)
	m.RealTokenReserves = pickU64(l.RealTokenReserves, i.RealTokenReserves)
	m.TokenTotalSupply = pickU64(l.TokenTotalSupply, i.TokenTotalSupply)

	return &m
}

func mergeCpmmSwap(l, i *event.RaydiumCpmmSwapEvent) event.Event {
	m := *l

	m.Pool = pickPk(l.Pool, i.Pool)
	m.User = pickPk(l.User, i.User)
	m.Token0Mint = pickPk(l.Token0Mint, i.Token0Mint)
	m.Token1Mint = pickPk(l.Token1Mint, i.Token1Mint)

	m.AmountIn = pickU64(l.AmountIn, i.AmountIn)
	m.AmountOut = pickU64(l.AmountOut, i.AmountOut)
	m.FeeAmount = pickU64(l.FeeAmount, i.FeeAmount)
	m.PoolToken0Amount = pickU64(l.PoolToken0Amount, i.PoolToken0Amount)
	m.PoolToken1Amount = pickU64(l.PoolToken1Amount, i.PoolToken1Amount)
	m.Price = pickU64(l.Price, i.Price)

	m.MinimumAmountOut = pickU64(i.MinimumAmountOut, l.MinimumAmountOut)
	m.MaximumAmountIn = pickU64(i.MaximumAmountIn, l.MaximumAmountIn)

	return &m
}

func mergeCpmmDeposit(l, i *event.RaydiumCpmmDepositEvent) event.Event {
	m := *l
	mergeCpmmLiquidity((*event.RaydiumCpmmDepositEvent)(&m), (*event.RaydiumCpmmDepositEvent)(i))
	return &m
}

func mergeCpmmWithdraw(l, i *event.RaydiumCpmmWithdrawEvent) event.Event {
	m := *l
	mergeCpmmLiquidity((*event.RaydiumCpmmDepositEvent)(&m), (*event.RaydiumCpmmDepositEvent)(i))
	return &m
}

func mergeCpmmLiquidity(m, i *event.RaydiumCpmmDepositEvent) {
	m.Pool = pickPk(m.Pool, i.Pool)
	m.User = pickPk(m.User, i.User)
	m.LpTokenAmount = pickU64(m.LpTokenAmount, i.LpTokenAmount)
	m.Token0Amount = pickU64(m.Token0Amount, i.Token0Amount)
	m.Token1Amount = pickU64(m.Token1Amount, i.Token1Amount)
	m.PoolToken0Amount = pickU64(m.PoolToken0Amount, i.PoolToken0Amount)
	m.PoolToken1Amount = pickU64(m.PoolToken1Amount, i.PoolToken1Amount)
}

func mergeCpmmInitialize(l, i *event.RaydiumCpmmInitializeEvent) event.Event {
	m := *l

	m.Pool = pickPk(l.Pool, i.Pool)
	m.Creator = pickPk(l.Creator, i.Creator)
	m.Token0Mint = pickPk(l.Token0Mint, i.Token0Mint)
	m.Token1Mint = pickPk(l.Token1Mint, i.Token1Mint)
	m.Token0Vault = pickPk(l.Token0Vault, i.Token0Vault)
	m.Token1Vault = pickPk(l.Token1Vault, i.Token1Vault)
	m.LpMint = pickPk(l.LpMint, i.LpMint)
	m.InitAmount0 = pickU64(l.InitAmount0, i.InitAmount0)
	m.InitAmount1 = pickU64(l.InitAmount1, i.InitAmount1)
	m.OpenTime = pickU64(l.OpenTime, i.OpenTime)
	m.FeeRate = pickU16(l.FeeRate, i.FeeRate)

	return &m
}

// pick helpers return the preferred value unless it is the zero sentinel,
// in which case the alternative fills it.

func pickU64(pref, alt uint64) uint64 {
	if pref != 0 {
		return pref
	}
	return alt
}

func pickU16(pref, alt uint16) uint16 {
	if pref != 0 {
		return pref
	}
	return alt
}

func pickI64(pref, alt int64) int64 {
	if pref != 0 {
		return pref
	}
	return alt
}

func pickStr(pref, alt string) string {
	if pref != "" {
		return pref
	}
	return alt
}

func pickPk(pref, alt solana.PublicKey) solana.PublicKey {
	if !pref.IsZero() {
		return pref
	}
	return alt
}

func pickU128(pref, alt cursor.Uint128) cursor.Uint128 {
	if !pref.IsZero() {
		return pref
	}
	return alt
}
