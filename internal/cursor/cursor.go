// Package cursor provides bounds-checked little-endian readers over raw
// instruction and event payloads. Every reader takes (buffer, offset) and
// returns the decoded value, the next offset, and an ok flag; a false flag
// means the buffer is too short. Readers never panic and never read past
// the end of the buffer.
package cursor

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Uint128 is a little-endian 128-bit unsigned integer split into two
// 64-bit halves. Solana CLMM programs encode sqrt prices and liquidity
// this way.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

// IsZero reports whether both halves are zero.
func (u Uint128) IsZero() bool {
	return u.Lo == 0 && u.Hi == 0
}

// ReadU8 reads a single byte at offset.
func ReadU8(data []byte, off int) (uint8, int, bool) {
	if off < 0 || off >= len(data) {
		return 0, off, false
	}
	return data[off], off + 1, true
}

// ReadBool reads a single byte at offset and interprets any non-zero
// value as true.
func ReadBool(data []byte, off int) (bool, int, bool) {
	b, next, ok := ReadU8(data, off)
	if !ok {
		return false, off, false
	}
	return b != 0, next, true
}

// ReadU16 reads a little-endian uint16 at offset.
func ReadU16(data []byte, off int) (uint16, int, bool) {
	if off < 0 || off+2 > len(data) {
		return 0, off, false
	}
	return binary.LittleEndian.Uint16(data[off:]), off + 2, true
}

// ReadU32 reads a little-endian uint32 at offset.
func ReadU32(data []byte, off int) (uint32, int, bool) {
	if off < 0 || off+4 > len(data) {
		return 0, off, false
	}
	return binary.LittleEndian.Uint32(data[off:]), off + 4, true
}

// ReadI32 reads a little-endian int32 at offset.
func ReadI32(data []byte, off int) (int32, int, bool) {
	v, next, ok := ReadU32(data, off)
	return int32(v), next, ok
}

// ReadU64 reads a little-endian uint64 at offset.
func ReadU64(data []byte, off int) (uint64, int, bool) {
	if off < 0 || off+8 > len(data) {
		return 0, off, false
	}
	return binary.LittleEndian.Uint64(data[off:]), off + 8, true
}

// ReadI64 reads a little-endian int64 at offset.
func ReadI64(data []byte, off int) (int64, int, bool) {
	v, next, ok := ReadU64(data, off)
	return int64(v), next, ok
}

// ReadU128 reads a little-endian 128-bit value at offset.
func ReadU128(data []byte, off int) (Uint128, int, bool) {
	if off < 0 || off+16 > len(data) {
		return Uint128{}, off, false
	}
	return Uint128{
		Lo: binary.LittleEndian.Uint64(data[off:]),
		Hi: binary.LittleEndian.Uint64(data[off+8:]),
	}, off + 16, true
}

// ReadPubkey reads a 32-byte account identifier at offset.
func ReadPubkey(data []byte, off int) (solana.PublicKey, int, bool) {
	if off < 0 || off+32 > len(data) {
		return solana.PublicKey{}, off, false
	}
	var pk solana.PublicKey
	copy(pk[:], data[off:off+32])
	return pk, off + 32, true
}

// ReadString reads a u32-length-prefixed UTF-8 string at offset. The
// length prefix counts bytes, not runes. The returned string is a copy;
// the cursor does not alias the input buffer.
func ReadString(data []byte, off int) (string, int, bool) {
	n, next, ok := ReadU32(data, off)
	if !ok {
		return "", off, false
	}
	end := next + int(n)
	if int(n) < 0 || end < next || end > len(data) {
		return "", off, false
	}
	return string(data[next:end]), end, true
}

// ReadPubkeyList reads a u32-length-prefixed list of 32-byte account
// identifiers at offset.
func ReadPubkeyList(data []byte, off int) ([]solana.PublicKey, int, bool) {
	n, next, ok := ReadU32(data, off)
	if !ok {
		return nil, off, false
	}
	if int(n) < 0 || next+int(n)*32 > len(data) {
		return nil, off, false
	}
	keys := make([]solana.PublicKey, 0, n)
	for i := 0; i < int(n); i++ {
		var pk solana.PublicKey
		pk, next, _ = ReadPubkey(data, next)
		keys = append(keys, pk)
	}
	return keys, next, true
}
