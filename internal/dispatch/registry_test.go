package dispatch

import (
	"encoding/base64"
	"testing"

	"github.com/gagliardetto/solana-go"

	"sol-dex-stream/internal/event"
)

var testProgram = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

type stubEvent struct {
	event.Metadata
	payload []byte
}

func (e *stubEvent) Kind() event.Kind      { return event.KindUnknown }
func (e *stubEvent) Meta() *event.Metadata { return &e.Metadata }

func stubInstrDecoder(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	return &stubEvent{Metadata: meta, payload: data}
}

func stubLogDecoder(data []byte, meta event.Metadata) event.Event {
	return &stubEvent{Metadata: meta, payload: data}
}

func TestDecodeInstruction(t *testing.T) {
	r := New()
	disc := [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	r.RegisterInstruction(testProgram, disc, stubInstrDecoder)

	payload := append(disc[:], 0xAA, 0xBB)
	got := r.DecodeInstruction(testProgram, payload, nil, event.Metadata{})
	if got == nil {
		t.Fatal("expected decode hit")
	}
	se := got.(*stubEvent)
	if len(se.payload) != 2 || se.payload[0] != 0xAA {
		t.Fatalf("decoder received wrong payload: %v", se.payload)
	}

	if r.DecodeInstruction(testProgram, disc[:7], nil, event.Metadata{}) != nil {
		t.Fatal("short payload should not dispatch")
	}
	other := [8]byte{9, 9, 9, 9, 9, 9, 9, 9}
	if r.DecodeInstruction(testProgram, other[:], nil, event.Metadata{}) != nil {
		t.Fatal("unknown discriminator should not dispatch")
	}
	if r.DecodeInstruction(solana.PublicKey{}, payload, nil, event.Metadata{}) != nil {
		t.Fatal("unknown program should not dispatch")
	}
}

func TestDecodeLogPayloadStructured(t *testing.T) {
	r := New()
	disc := [8]byte{10, 20, 30, 40, 50, 60, 70, 80}
	r.RegisterLogEvent(disc, stubLogDecoder)

	payload := append(anchorEventTag[:], disc[:]...)
	payload = append(payload, 0xCC)
	got := r.DecodeLogPayload(payload, event.Metadata{})
	if got == nil {
		t.Fatal("expected structured log hit")
	}
	if se := got.(*stubEvent); len(se.payload) != 1 || se.payload[0] != 0xCC {
		t.Fatalf("decoder received wrong payload: %v", se.payload)
	}

	// Bare 8-byte discriminator must not match a structured registration.
	if r.DecodeLogPayload(disc[:], event.Metadata{}) != nil {
		t.Fatal("legacy form should miss structured table")
	}
}

func TestDecodeLogPayloadLegacy(t *testing.T) {
	r := New()
	disc := [8]byte{27, 114, 169, 77, 222, 235, 99, 118}
	r.RegisterLegacyLogEvent(disc, stubLogDecoder)

	if r.DecodeLogPayload(append(disc[:], 1, 2, 3), event.Metadata{}) == nil {
		t.Fatal("expected legacy log hit")
	}
	if r.DecodeLogPayload(disc[:4], event.Metadata{}) != nil {
		t.Fatal("truncated discriminator should miss")
	}
	tagged := append(anchorEventTag[:], disc[:]...)
	if r.DecodeLogPayload(tagged, event.Metadata{}) != nil {
		t.Fatal("anchor-tagged form should not fall through to legacy table")
	}
}

func TestProgramMarkers(t *testing.T) {
	r := New()
	r.RegisterProgram(testProgram)

	line := "Program 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P invoke [1]"
	pk, ok := r.InvokedProgram(line)
	if !ok || !pk.Equals(testProgram) {
		t.Fatalf("invoke line not recognized: %v %v", pk, ok)
	}
	if _, ok := r.InvokedProgram("Program 11111111111111111111111111111111 invoke [1]"); ok {
		t.Fatal("unregistered program should not match")
	}
	if !r.EndsProgram("Program 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P success", testProgram) {
		t.Fatal("success line should end the section")
	}
	if !r.EndsProgram("Program 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P failed: custom program error", testProgram) {
		t.Fatal("failed line should end the section")
	}
	if r.EndsProgram(line, testProgram) {
		t.Fatal("invoke line should not end the section")
	}
}

func TestExtractProgramData(t *testing.T) {
	raw := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	line := "Program data: " + base64.StdEncoding.EncodeToString(raw)
	got, ok := ExtractProgramData(line)
	if !ok || len(got) != 4 || got[0] != 0xDE {
		t.Fatalf("ExtractProgramData(%q) = %v, %v", line, got, ok)
	}
	if _, ok := ExtractProgramData("Program log: hello"); ok {
		t.Fatal("non-data line should miss")
	}
	if _, ok := ExtractProgramData("Program data: !!!not-base64!!!"); ok {
		t.Fatal("invalid base64 should miss")
	}
	if _, ok := ExtractProgramData("Program data: "); ok {
		t.Fatal("empty payload should miss")
	}
}
