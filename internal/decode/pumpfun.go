package decode

import (
	"github.com/gagliardetto/solana-go"

	"sol-dex-stream/internal/cursor"
	"sol-dex-stream/internal/dispatch"
	"sol-dex-stream/internal/event"
)

// pump.fun instruction discriminators.
var (
	pumpFunCreateIx = [8]byte{24, 30, 200, 40, 5, 28, 7, 119}
	pumpFunBuyIx    = [8]byte{102, 6, 61, 18, 1, 218, 235, 234}
	pumpFunSellIx   = [8]byte{51, 230, 133, 164, 1, 127, 131, 173}
)

// pump.fun log event discriminators. The program predates the structured
// event tag, so these match as bare 8-byte prefixes.
var (
	pumpFunCreateLog   = [8]byte{27, 114, 169, 77, 222, 235, 99, 118}
	pumpFunTradeLog    = [8]byte{189, 219, 127, 211, 78, 230, 97, 238}
	pumpFunCompleteLog = [8]byte{95, 114, 97, 156, 212, 46, 152, 8}
)

// Account layout of pump.fun buy/sell instructions.
const (
	pumpFunAcctMint = iota
	pumpFunAcctUser
	pumpFunAcctBondingCurve
	pumpFunAcctFeeRecipient
	pumpFunAcctCreator
	pumpFunAcctGlobal
	pumpFunAcctAssocBondingCurve
	pumpFunAcctAssocUser
	_ // system program
	_ // token program
	pumpFunAcctCreatorVault
	pumpFunAcctEventAuthority
)

func registerPumpFun(r *dispatch.Registry) {
	r.RegisterInstruction(PumpFunProgram, pumpFunCreateIx, decodePumpFunCreateInstruction)
	r.RegisterInstruction(PumpFunProgram, pumpFunBuyIx, decodePumpFunBuyInstruction)
	r.RegisterInstruction(PumpFunProgram, pumpFunSellIx, decodePumpFunSellInstruction)

	r.RegisterLegacyLogEvent(pumpFunCreateLog, decodePumpFunCreateLog)
	r.RegisterLegacyLogEvent(pumpFunTradeLog, decodePumpFunTradeLog)
	r.RegisterLegacyLogEvent(pumpFunCompleteLog, decodePumpFunCompleteLog)
}

// decodePumpFunCreateInstruction sees only the account list; token name,
// symbol and reserve state arrive in the CreateEvent log and get merged in.
func decodePumpFunCreateInstruction(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	if len(accounts) == 0 {
		return nil
	}
	ev := &event.PumpFunCreateEvent{
		Metadata:     meta,
		Mint:         accounts[0],
		BondingCurve: account(accounts, 1),
		User:         account(accounts, 2),
		Creator:      account(accounts, 2),
	}
	if meta.BlockTime != nil {
		ev.Timestamp = *meta.BlockTime
	}
	return ev
}

func decodePumpFunBuyInstruction(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	off := 0
	amount, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	maxSolCost, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	return pumpFunTradeFromInstruction(accounts, meta, true, amount, maxSolCost, 0)
}

func decodePumpFunSellInstruction(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	off := 0
	amount, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	minSolOutput, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	return pumpFunTradeFromInstruction(accounts, meta, false, amount, 0, minSolOutput)
}

func pumpFunTradeFromInstruction(accounts []solana.PublicKey, meta event.Metadata, isBuy bool, amount, maxSolCost, minSolOutput uint64) event.Event {
	if len(accounts) == 0 {
		return nil
	}
	user := account(accounts, pumpFunAcctUser)
	ev := &event.PumpFunTradeEvent{
		Metadata:     meta,
		Mint:         accounts[pumpFunAcctMint],
		User:         user,
		BondingCurve: account(accounts, pumpFunAcctBondingCurve),
		IsBuy:        isBuy,

		FeeRecipient: account(accounts, pumpFunAcctFeeRecipient),
		Creator:      account(accounts, pumpFunAcctCreator),

		Amount:       amount,
		MaxSolCost:   maxSolCost,
		MinSolOutput: minSolOutput,

		Global:                 account(accounts, pumpFunAcctGlobal),
		AssociatedBondingCurve: account(accounts, pumpFunAcctAssocBondingCurve),
		AssociatedUser:         account(accounts, pumpFunAcctAssocUser),
		CreatorVault:           account(accounts, pumpFunAcctCreatorVault),
		EventAuthority:         account(accounts, pumpFunAcctEventAuthority),
	}
	if !user.IsZero() {
		ev.IsBot = !isOnCurve(user)
	}
	if meta.BlockTime != nil {
		ev.Timestamp = *meta.BlockTime
	}
	return ev
}

func decodePumpFunCreateLog(data []byte, meta event.Metadata) event.Event {
	off := 0
	name, off, ok := cursor.ReadString(data, off)
	if !ok {
		return nil
	}
	symbol, off, ok := cursor.ReadString(data, off)
	if !ok {
		return nil
	}
	uri, off, ok := cursor.ReadString(data, off)
	if !ok {
		return nil
	}
	mint, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	bondingCurve, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	user, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	creator, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	timestamp, off, ok := cursor.ReadI64(data, off)
	if !ok {
		return nil
	}
	virtualTokenReserves, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	virtualSolReserves, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	realTokenReserves, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	tokenTotalSupply, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	return &event.PumpFunCreateEvent{
		Metadata:             meta,
		Name:                 name,
		Symbol:               symbol,
		URI:                  uri,
		Mint:                 mint,
		BondingCurve:         bondingCurve,
		User:                 user,
		Creator:              creator,
		Timestamp:            timestamp,
		VirtualTokenReserves: virtualTokenReserves,
		VirtualSolReserves:   virtualSolReserves,
		RealTokenReserves:    realTokenReserves,
		TokenTotalSupply:     tokenTotalSupply,
	}
}

func decodePumpFunTradeLog(data []byte, meta event.Metadata) event.Event {
	off := 0
	mint, off, ok := cursor.ReadPubkey(data, off)
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
	isBuy, off, ok := cursor.ReadBool(data, off)
	if !ok {
		return nil
	}
	user, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	timestamp, off, ok := cursor.ReadI64(data, off)
	if !ok {
		return nil
	}
	virtualSolReserves, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	virtualTokenReserves, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	realSolReserves, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	realTokenReserves, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	feeRecipient, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	feeBasisPoints, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	fee, off, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	creator, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	// creator fee basis points, unused
	_, off, ok = cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	creatorFee, _, ok := cursor.ReadU64(data, off)
	if !ok {
		return nil
	}
	// Newer layouts append volume-tracking fields past this point; they
	// are ignored, so longer payloads still decode.

	return &event.PumpFunTradeEvent{
		Metadata:             meta,
		Mint:                 mint,
		User:                 user,
		IsBuy:                isBuy,
		SolAmount:            solAmount,
		TokenAmount:          tokenAmount,
		VirtualSolReserves:   virtualSolReserves,
		VirtualTokenReserves: virtualTokenReserves,
		RealSolReserves:      realSolReserves,
		RealTokenReserves:    realTokenReserves,
		FeeRecipient:         feeRecipient,
		FeeBasisPoints:       feeBasisPoints,
		Fee:                  fee,
		Creator:              creator,
		CreatorFee:           creatorFee,
		Timestamp:            timestamp,
	}
}

func decodePumpFunCompleteLog(data []byte, meta event.Metadata) event.Event {
	off := 0
	user, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	mint, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	bondingCurve, off, ok := cursor.ReadPubkey(data, off)
	if !ok {
		return nil
	}
	timestamp, _, ok := cursor.ReadI64(data, off)
	if !ok {
		return nil
	}
	return &event.PumpFunCompleteEvent{
		Metadata:     meta,
		User:         user,
		Mint:         mint,
		BondingCurve: bondingCurve,
		Timestamp:    timestamp,
	}
}
