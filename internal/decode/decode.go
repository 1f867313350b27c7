// Package decode implements the per-protocol decoders that turn raw
// instruction payloads and program log payloads into events. Each decoder
// reads a fixed little-endian layout through the cursor readers and
// returns nil on any truncated or malformed input.
package decode

import (
	"github.com/gagliardetto/solana-go"

	"sol-dex-stream/internal/dispatch"
)

// Program IDs of the supported protocols.
var (
	PumpFunProgram     = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	PumpSwapProgram    = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")
	RaydiumCpmmProgram = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")
	RaydiumClmmProgram = solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")
	BonkProgram        = solana.MustPublicKeyFromBase58("DjVE6JNiYqPL2QXyCUUh8rNjHrbz9hXHNYt99MQ59qw1")
)

// NewRegistry builds the dispatch table covering every supported protocol.
// Call it once at startup; the result is safe for concurrent readers.
func NewRegistry() *dispatch.Registry {
	r := dispatch.New()

	registerPumpFun(r)
	registerPumpSwap(r)
	registerRaydiumCpmm(r)
	registerRaydiumClmm(r)
	registerBonk(r)

	return r
}

// account returns accounts[i], or the zero key when the instruction's
// account list is shorter than the layout expects. Zero keys are merge
// sentinels, filled from the log view when one arrives.
func account(accounts []solana.PublicKey, i int) solana.PublicKey {
	if i < 0 || i >= len(accounts) {
		return solana.PublicKey{}
	}
	return accounts[i]
}
