package event

// lamportsPerSol converts lamports to whole SOL.
const lamportsPerSol = 1_000_000_000

// largeTradeLamports is the threshold above which a trade is flagged as
// large: 1 SOL.
const largeTradeLamports = 1_000_000_000

// PriceInSOL returns the effective token price of the trade in SOL, or
// false when the trade settled zero tokens.
func (e *PumpFunTradeEvent) PriceInSOL() (float64, bool) {
	if e.TokenAmount == 0 {
		return 0, false
	}
	return float64(e.SolAmount) / lamportsPerSol / float64(e.TokenAmount), true
}

// IsLargeTrade reports whether the settled SOL amount is at least 1 SOL.
func (e *PumpFunTradeEvent) IsLargeTrade() bool {
	return e.SolAmount >= largeTradeLamports
}

// MarketCapInSOL estimates the token market cap in SOL from the virtual
// reserves, assuming the standard 1B launchpad supply. Returns 0 when the
// reserves are unknown.
func (e *PumpFunTradeEvent) MarketCapInSOL() float64 {
	if e.VirtualTokenReserves == 0 {
		return 0
	}
	price := float64(e.VirtualSolReserves) / float64(e.VirtualTokenReserves)
	const totalSupply = 1_000_000_000 * lamportsPerSol
	return price * totalSupply / lamportsPerSol
}
