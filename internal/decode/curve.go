package decode

import (
	"filippo.io/edwards25519"

	"github.com/gagliardetto/solana-go"
)

// isOnCurve reports whether the key decodes to a valid ed25519 point.
// Wallet keys are on the curve; program-derived addresses are not.
func isOnCurve(pk solana.PublicKey) bool {
	_, err := new(edwards25519.Point).SetBytes(pk[:])
	return err == nil
}
