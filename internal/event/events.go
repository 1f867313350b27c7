// Package event defines the canonical event model produced by the decode
// pipeline: a closed union of per-protocol variants, each a fixed record of
// shared metadata plus protocol fields. Fields a decoder could not supply
// hold their zero value; the merge engine fills them from the counterpart
// view of the same on-chain action.
package event

import (
	"github.com/gagliardetto/solana-go"

	"sol-dex-stream/internal/cursor"
)

// Kind tags the active variant of an Event.
type Kind uint16

const (
	KindUnknown Kind = iota

	KindPumpFunCreate
	KindPumpFunTrade
	KindPumpFunComplete

	KindPumpSwapBuy
	KindPumpSwapSell
	KindPumpSwapCreatePool

	KindRaydiumCpmmSwap
	KindRaydiumCpmmDeposit
	KindRaydiumCpmmWithdraw
	KindRaydiumCpmmInitialize

	KindRaydiumClmmSwap
	KindRaydiumClmmCreatePool
	KindRaydiumClmmOpenPosition
	KindRaydiumClmmClosePosition
	KindRaydiumClmmIncreaseLiquidity
	KindRaydiumClmmDecreaseLiquidity

	KindBonkTrade
	KindBonkPoolCreate
	KindBonkMigrateAmm

	KindError
)

var kindNames = map[Kind]string{
	KindUnknown:                      "unknown",
	KindPumpFunCreate:                "pumpfun_create",
	KindPumpFunTrade:                 "pumpfun_trade",
	KindPumpFunComplete:              "pumpfun_complete",
	KindPumpSwapBuy:                  "pumpswap_buy",
	KindPumpSwapSell:                 "pumpswap_sell",
	KindPumpSwapCreatePool:           "pumpswap_create_pool",
	KindRaydiumCpmmSwap:              "raydium_cpmm_swap",
	KindRaydiumCpmmDeposit:           "raydium_cpmm_deposit",
	KindRaydiumCpmmWithdraw:          "raydium_cpmm_withdraw",
	KindRaydiumCpmmInitialize:        "raydium_cpmm_initialize",
	KindRaydiumClmmSwap:              "raydium_clmm_swap",
	KindRaydiumClmmCreatePool:        "raydium_clmm_create_pool",
	KindRaydiumClmmOpenPosition:      "raydium_clmm_open_position",
	KindRaydiumClmmClosePosition:     "raydium_clmm_close_position",
	KindRaydiumClmmIncreaseLiquidity: "raydium_clmm_increase_liquidity",
	KindRaydiumClmmDecreaseLiquidity: "raydium_clmm_decrease_liquidity",
	KindBonkTrade:                    "bonk_trade",
	KindBonkPoolCreate:               "bonk_pool_create",
	KindBonkMigrateAmm:               "bonk_migrate_amm",
	KindError:                        "error",
}

// String returns a stable snake_case name for the kind, suitable for
// metric labels.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Event is the closed canonical event union. Exactly one variant struct
// backs each value; consumers type-switch on the concrete type or on
// Kind().
type Event interface {
	Kind() Kind
	Meta() *Metadata
}

// ---------------------------------------------------------------------------
// pump.fun

// PumpFunCreateEvent is a new bonding-curve token launch.
type PumpFunCreateEvent struct {
	Metadata

	Name   string
	Symbol string
	URI    string

	Mint         solana.PublicKey
	BondingCurve solana.PublicKey
	User         solana.PublicKey
	Creator      solana.PublicKey

	Timestamp            int64
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	TokenTotalSupply     uint64
}

func (e *PumpFunCreateEvent) Kind() Kind      { return KindPumpFunCreate }
func (e *PumpFunCreateEvent) Meta() *Metadata { return &e.Metadata }

// PumpFunTradeEvent is a buy or sell against a bonding curve. The
// instruction view supplies the requested amount, the limit parameters and
// the full account set; the settlement log supplies the executed amounts,
// reserves and fees.
type PumpFunTradeEvent struct {
	Metadata

	Mint         solana.PublicKey
	User         solana.PublicKey
	BondingCurve solana.PublicKey
	IsBuy        bool

	// Settlement values, log-derived.
	SolAmount            uint64
	TokenAmount          uint64
	VirtualSolReserves   uint64
	VirtualTokenReserves uint64
	RealSolReserves      uint64
	RealTokenReserves    uint64
	FeeRecipient         solana.PublicKey
	FeeBasisPoints       uint64
	Fee                  uint64
	Creator              solana.PublicKey
	CreatorFee           uint64
	Timestamp            int64

	// Intent values, instruction-derived.
	Amount       uint64 // requested token amount
	MaxSolCost   uint64 // buy limit
	MinSolOutput uint64 // sell limit
	// IsBot marks trades whose user key is off the ed25519 curve, i.e. a
	// program-derived address rather than a wallet.
	IsBot bool

	// Auxiliary accounts, only the instruction carries these.
	Global                 solana.PublicKey
	AssociatedBondingCurve solana.PublicKey
	AssociatedUser         solana.PublicKey
	CreatorVault           solana.PublicKey
	EventAuthority         solana.PublicKey
}

func (e *PumpFunTradeEvent) Kind() Kind      { return KindPumpFunTrade }
func (e *PumpFunTradeEvent) Meta() *Metadata { return &e.Metadata }

// PumpFunCompleteEvent marks a bonding curve completing and graduating off
// the launchpad.
type PumpFunCompleteEvent struct {
	Metadata

	User         solana.PublicKey
	Mint         solana.PublicKey
	BondingCurve solana.PublicKey
	Timestamp    int64
}

func (e *PumpFunCompleteEvent) Kind() Kind      { return KindPumpFunComplete }
func (e *PumpFunCompleteEvent) Meta() *Metadata { return &e.Metadata }

// ---------------------------------------------------------------------------
// PumpSwap

// PumpSwapBuyEvent is a quote-in swap on a PumpSwap AMM pool.
type PumpSwapBuyEvent struct {
	Metadata

	Pool      solana.PublicKey
	User      solana.PublicKey
	TokenMint solana.PublicKey

	SolAmount   uint64
	TokenAmount uint64
	Price       uint64
	Slippage    uint16
}

func (e *PumpSwapBuyEvent) Kind() Kind      { return KindPumpSwapBuy }
func (e *PumpSwapBuyEvent) Meta() *Metadata { return &e.Metadata }

// PumpSwapSellEvent is a base-in swap on a PumpSwap AMM pool.
type PumpSwapSellEvent struct {
	Metadata

	Pool      solana.PublicKey
	User      solana.PublicKey
	TokenMint solana.PublicKey

	TokenAmount uint64
	SolAmount   uint64
	Price       uint64
	Slippage    uint16
}

func (e *PumpSwapSellEvent) Kind() Kind      { return KindPumpSwapSell }
func (e *PumpSwapSellEvent) Meta() *Metadata { return &e.Metadata }

// PumpSwapCreatePoolEvent is the creation of a PumpSwap AMM pool.
type PumpSwapCreatePoolEvent struct {
	Metadata

	Pool      solana.PublicKey
	Creator   solana.PublicKey
	TokenMint solana.PublicKey

	InitialSolAmount   uint64
	InitialTokenAmount uint64
	FeeRate            uint16
}

func (e *PumpSwapCreatePoolEvent) Kind() Kind      { return KindPumpSwapCreatePool }
func (e *PumpSwapCreatePoolEvent) Meta() *Metadata { return &e.Metadata }

// ---------------------------------------------------------------------------
// Raydium CPMM

// RaydiumCpmmSwapEvent is a constant-product swap.
type RaydiumCpmmSwapEvent struct {
	Metadata

	Pool        solana.PublicKey
	User        solana.PublicKey
	Token0Mint  solana.PublicKey
	Token1Mint  solana.PublicKey
	IsBaseInput bool

	AmountIn  uint64
	AmountOut uint64

	// Limit parameters, instruction-only.
	MinimumAmountOut uint64
	MaximumAmountIn  uint64

	// Settlement detail, log-only.
	FeeAmount        uint64
	PoolToken0Amount uint64
	PoolToken1Amount uint64
	Price            uint64
}

func (e *RaydiumCpmmSwapEvent) Kind() Kind      { return KindRaydiumCpmmSwap }
func (e *RaydiumCpmmSwapEvent) Meta() *Metadata { return &e.Metadata }

// RaydiumCpmmDepositEvent is a liquidity add.
type RaydiumCpmmDepositEvent struct {
	Metadata

	Pool solana.PublicKey
	User solana.PublicKey

	LpTokenAmount    uint64
	Token0Amount     uint64
	Token1Amount     uint64
	PoolToken0Amount uint64
	PoolToken1Amount uint64
}

func (e *RaydiumCpmmDepositEvent) Kind() Kind      { return KindRaydiumCpmmDeposit }
func (e *RaydiumCpmmDepositEvent) Meta() *Metadata { return &e.Metadata }

// RaydiumCpmmWithdrawEvent is a liquidity removal.
type RaydiumCpmmWithdrawEvent struct {
	Metadata

	Pool solana.PublicKey
	User solana.PublicKey

	LpTokenAmount    uint64
	Token0Amount     uint64
	Token1Amount     uint64
	PoolToken0Amount uint64
	PoolToken1Amount uint64
}

func (e *RaydiumCpmmWithdrawEvent) Kind() Kind      { return KindRaydiumCpmmWithdraw }
func (e *RaydiumCpmmWithdrawEvent) Meta() *Metadata { return &e.Metadata }

// RaydiumCpmmInitializeEvent is pool creation.
type RaydiumCpmmInitializeEvent struct {
	Metadata

	Pool    solana.PublicKey
	Creator solana.PublicKey

	Token0Mint  solana.PublicKey
	Token1Mint  solana.PublicKey
	Token0Vault solana.PublicKey
	Token1Vault solana.PublicKey
	LpMint      solana.PublicKey

	InitAmount0 uint64
	InitAmount1 uint64
	OpenTime    uint64
	FeeRate     uint16
}

func (e *RaydiumCpmmInitializeEvent) Kind() Kind      { return KindRaydiumCpmmInitialize }
func (e *RaydiumCpmmInitializeEvent) Meta() *Metadata { return &e.Metadata }

// ---------------------------------------------------------------------------
// Raydium CLMM

// RaydiumClmmSwapEvent is a concentrated-liquidity swap.
type RaydiumClmmSwapEvent struct {
	Metadata

	Pool        solana.PublicKey
	User        solana.PublicKey
	IsBaseInput bool

	Amount               uint64
	OtherAmountThreshold uint64
	SqrtPriceLimitX64    cursor.Uint128
}

func (e *RaydiumClmmSwapEvent) Kind() Kind      { return KindRaydiumClmmSwap }
func (e *RaydiumClmmSwapEvent) Meta() *Metadata { return &e.Metadata }

// RaydiumClmmCreatePoolEvent is CLMM pool creation.
type RaydiumClmmCreatePoolEvent struct {
	Metadata

	Pool    solana.PublicKey
	Creator solana.PublicKey

	SqrtPriceX64 cursor.Uint128
	OpenTime     uint64
}

func (e *RaydiumClmmCreatePoolEvent) Kind() Kind      { return KindRaydiumClmmCreatePool }
func (e *RaydiumClmmCreatePoolEvent) Meta() *Metadata { return &e.Metadata }

// RaydiumClmmOpenPositionEvent opens a position NFT over a tick range.
type RaydiumClmmOpenPositionEvent struct {
	Metadata

	Pool            solana.PublicKey
	User            solana.PublicKey
	PositionNftMint solana.PublicKey

	TickLowerIndex int32
	TickUpperIndex int32
	Liquidity      cursor.Uint128
}

func (e *RaydiumClmmOpenPositionEvent) Kind() Kind      { return KindRaydiumClmmOpenPosition }
func (e *RaydiumClmmOpenPositionEvent) Meta() *Metadata { return &e.Metadata }

// RaydiumClmmClosePositionEvent burns a position NFT.
type RaydiumClmmClosePositionEvent struct {
	Metadata

	Pool            solana.PublicKey
	User            solana.PublicKey
	PositionNftMint solana.PublicKey
}

func (e *RaydiumClmmClosePositionEvent) Kind() Kind      { return KindRaydiumClmmClosePosition }
func (e *RaydiumClmmClosePositionEvent) Meta() *Metadata { return &e.Metadata }

// RaydiumClmmIncreaseLiquidityEvent adds liquidity to a position.
type RaydiumClmmIncreaseLiquidityEvent struct {
	Metadata

	Pool solana.PublicKey
	User solana.PublicKey

	Liquidity  cursor.Uint128
	Amount0Max uint64
	Amount1Max uint64
}

func (e *RaydiumClmmIncreaseLiquidityEvent) Kind() Kind      { return KindRaydiumClmmIncreaseLiquidity }
func (e *RaydiumClmmIncreaseLiquidityEvent) Meta() *Metadata { return &e.Metadata }

// RaydiumClmmDecreaseLiquidityEvent removes liquidity from a position.
type RaydiumClmmDecreaseLiquidityEvent struct {
	Metadata

	Pool solana.PublicKey
	User solana.PublicKey

	Liquidity  cursor.Uint128
	Amount0Min uint64
	Amount1Min uint64
}

func (e *RaydiumClmmDecreaseLiquidityEvent) Kind() Kind      { return KindRaydiumClmmDecreaseLiquidity }
func (e *RaydiumClmmDecreaseLiquidityEvent) Meta() *Metadata { return &e.Metadata }

// ---------------------------------------------------------------------------
// Bonk launchpad

// BonkTradeEvent is a launchpad curve trade.
type BonkTradeEvent struct {
	Metadata

	PoolState solana.PublicKey
	User      solana.PublicKey

	AmountIn  uint64
	AmountOut uint64
	IsBuy     bool
	ExactIn   bool
}

func (e *BonkTradeEvent) Kind() Kind      { return KindBonkTrade }
func (e *BonkTradeEvent) Meta() *Metadata { return &e.Metadata }

// BonkPoolCreateEvent is a launchpad pool creation.
type BonkPoolCreateEvent struct {
	Metadata

	PoolState solana.PublicKey
	Creator   solana.PublicKey
	BaseMint  solana.PublicKey
	QuoteMint solana.PublicKey

	InitialLiquidityBase  uint64
	InitialLiquidityQuote uint64
}

func (e *BonkPoolCreateEvent) Kind() Kind      { return KindBonkPoolCreate }
func (e *BonkPoolCreateEvent) Meta() *Metadata { return &e.Metadata }

// BonkMigrateAmmEvent is a graduation of launchpad liquidity to an AMM.
type BonkMigrateAmmEvent struct {
	Metadata

	OldPool solana.PublicKey
	NewPool solana.PublicKey
	User    solana.PublicKey

	LiquidityAmount uint64
}

func (e *BonkMigrateAmmEvent) Kind() Kind      { return KindBonkMigrateAmm }
func (e *BonkMigrateAmmEvent) Meta() *Metadata { return &e.Metadata }

// ---------------------------------------------------------------------------

// ErrorEvent surfaces an upstream protocol-identification failure through
// the normal delivery path so consumers can observe and count it. It is
// not used for malformed payloads, which are silently skipped.
type ErrorEvent struct {
	Metadata

	Message string
}

func (e *ErrorEvent) Kind() Kind      { return KindError }
func (e *ErrorEvent) Meta() *Metadata { return &e.Metadata }
