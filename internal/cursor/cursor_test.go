package cursor

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestReadU64_RoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:], 500_000_000)
	binary.LittleEndian.PutUint64(buf[8:], 1_000_000_000)

	v, next, ok := ReadU64(buf, 0)
	if !ok || v != 500_000_000 || next != 8 {
		t.Fatalf("first read: got (%d, %d, %v)", v, next, ok)
	}

	v, next, ok = ReadU64(buf, next)
	if !ok || v != 1_000_000_000 || next != 16 {
		t.Fatalf("second read: got (%d, %d, %v)", v, next, ok)
	}
}

func TestReadU64_ShortBuffer(t *testing.T) {
	buf := []byte{1, 2, 3}

	if _, _, ok := ReadU64(buf, 0); ok {
		t.Error("expected short-buffer failure at offset 0")
	}
	if _, _, ok := ReadU64(buf, 100); ok {
		t.Error("expected short-buffer failure past the end")
	}
	if _, _, ok := ReadU64(nil, 0); ok {
		t.Error("expected failure on nil buffer")
	}
}

func TestReadU64_NegativeOffset(t *testing.T) {
	buf := make([]byte, 32)
	if _, _, ok := ReadU64(buf, -1); ok {
		t.Error("expected failure on negative offset")
	}
}

func TestReadU16U32I32I64(t *testing.T) {
	buf := make([]byte, 18)
	binary.LittleEndian.PutUint16(buf[0:], 250)
	binary.LittleEndian.PutUint32(buf[2:], 70000)
	binary.LittleEndian.PutUint32(buf[6:], 0xFFFFFFFF) // -1 as i32
	binary.LittleEndian.PutUint64(buf[10:], 0xFFFFFFFFFFFFFFFF)

	u16, off, ok := ReadU16(buf, 0)
	if !ok || u16 != 250 {
		t.Fatalf("ReadU16: got (%d, %v)", u16, ok)
	}
	u32, off, ok := ReadU32(buf, off)
	if !ok || u32 != 70000 {
		t.Fatalf("ReadU32: got (%d, %v)", u32, ok)
	}
	i32, off, ok := ReadI32(buf, off)
	if !ok || i32 != -1 {
		t.Fatalf("ReadI32: got (%d, %v)", i32, ok)
	}
	i64, off, ok := ReadI64(buf, off)
	if !ok || i64 != -1 {
		t.Fatalf("ReadI64: got (%d, %v)", i64, ok)
	}
	if off != 18 {
		t.Fatalf("final offset: got %d, want 18", off)
	}
}

func TestReadBool(t *testing.T) {
	buf := []byte{0, 1, 7}

	v, off, ok := ReadBool(buf, 0)
	if !ok || v {
		t.Fatalf("expected false at offset 0")
	}
	v, off, ok = ReadBool(buf, off)
	if !ok || !v {
		t.Fatalf("expected true at offset 1")
	}
	// Any non-zero byte counts as true.
	v, _, ok = ReadBool(buf, off)
	if !ok || !v {
		t.Fatalf("expected true at offset 2")
	}
	if _, _, ok = ReadBool(buf, 3); ok {
		t.Error("expected failure past the end")
	}
}

func TestReadU128(t *testing.T) {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:], 42)
	binary.LittleEndian.PutUint64(buf[8:], 7)

	v, next, ok := ReadU128(buf, 0)
	if !ok || v.Lo != 42 || v.Hi != 7 || next != 16 {
		t.Fatalf("got (%+v, %d, %v)", v, next, ok)
	}
	if v.IsZero() {
		t.Error("non-zero value reported as zero")
	}
	if !(Uint128{}).IsZero() {
		t.Error("zero value not reported as zero")
	}
	if _, _, ok := ReadU128(buf, 1); ok {
		t.Error("expected failure on 15 remaining bytes")
	}
}

func TestReadPubkey(t *testing.T) {
	buf := make([]byte, 33)
	for i := 0; i < 32; i++ {
		buf[i] = byte(i + 1)
	}

	pk, next, ok := ReadPubkey(buf, 0)
	if !ok || next != 32 {
		t.Fatalf("got (%d, %v)", next, ok)
	}
	if !bytes.Equal(pk[:], buf[:32]) {
		t.Error("pubkey bytes mismatch")
	}
	if _, _, ok := ReadPubkey(buf, 2); ok {
		t.Error("expected failure on 31 remaining bytes")
	}
}

func TestReadString(t *testing.T) {
	payload := []byte("pump")
	buf := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[4:], payload)

	s, next, ok := ReadString(buf, 0)
	if !ok || s != "pump" || next != 8 {
		t.Fatalf("got (%q, %d, %v)", s, next, ok)
	}
}

func TestReadString_LengthPastEnd(t *testing.T) {
	buf := make([]byte, 6)
	binary.LittleEndian.PutUint32(buf, 100) // claims 100 bytes, only 2 remain

	if _, _, ok := ReadString(buf, 0); ok {
		t.Error("expected failure when declared length exceeds buffer")
	}
}

func TestReadString_HugeLengthDoesNotOverflow(t *testing.T) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf, 0xFFFFFFFF)

	if _, _, ok := ReadString(buf, 0); ok {
		t.Error("expected failure on adversarial length prefix")
	}
}

func TestReadPubkeyList(t *testing.T) {
	buf := make([]byte, 4+64)
	binary.LittleEndian.PutUint32(buf, 2)
	buf[4] = 0xAA
	buf[4+32] = 0xBB

	keys, next, ok := ReadPubkeyList(buf, 0)
	if !ok || len(keys) != 2 || next != 68 {
		t.Fatalf("got (%d keys, %d, %v)", len(keys), next, ok)
	}
	if keys[0][0] != 0xAA || keys[1][0] != 0xBB {
		t.Error("list element bytes mismatch")
	}

	binary.LittleEndian.PutUint32(buf, 3) // claims 3 keys, only 2 fit
	if _, _, ok := ReadPubkeyList(buf, 0); ok {
		t.Error("expected failure when declared count exceeds buffer")
	}
}
