// Package dispatch maps discriminator byte prefixes to protocol decoders.
// The registry is built once at startup and never mutated afterwards, so
// concurrent readers need no synchronization. A lookup miss means "not
// this protocol", never an error.
package dispatch

import (
	"encoding/base64"
	"strings"

	"github.com/gagliardetto/solana-go"

	"sol-dex-stream/internal/event"
)

// ProgramDataMarker is the literal prefix a log line must carry for its
// remainder to be treated as a base64 event payload.
const ProgramDataMarker = "Program data: "

// anchorEventTag is the fixed 8-byte prefix Anchor programs emit before a
// structured event's own discriminator, forming the 16-byte log tag.
var anchorEventTag = [8]byte{0xe4, 0x45, 0xa5, 0x2e, 0x51, 0xcb, 0x9a, 0x1d}

// InstructionDecoder turns an instruction payload (discriminator already
// stripped) plus its resolved account list into an event, or nil when the
// payload is malformed.
type InstructionDecoder func(data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event

// LogDecoder turns a log event payload (discriminator already stripped)
// into an event, or nil when the payload is malformed.
type LogDecoder func(data []byte, meta event.Metadata) event.Event

type programMarkers struct {
	invoke  string
	success string
	failed  string
}

// Registry is the immutable discriminator dispatch table. Build it with
// New and the Register* methods before handing it to the pipeline; it must
// not be mutated once decoding starts.
type Registry struct {
	instr  map[solana.PublicKey]map[[8]byte]InstructionDecoder
	log16  map[[16]byte]LogDecoder
	log8   map[[8]byte]LogDecoder
	marker map[solana.PublicKey]programMarkers
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		instr:  make(map[solana.PublicKey]map[[8]byte]InstructionDecoder),
		log16:  make(map[[16]byte]LogDecoder),
		log8:   make(map[[8]byte]LogDecoder),
		marker: make(map[solana.PublicKey]programMarkers),
	}
}

// RegisterProgram makes the registry recognize invoke/success/failed log
// markers for the program, which gates log payload attribution.
func (r *Registry) RegisterProgram(pk solana.PublicKey) {
	id := pk.String()
	r.marker[pk] = programMarkers{
		invoke:  "Program " + id + " invoke",
		success: "Program " + id + " success",
		failed:  "Program " + id + " failed",
	}
}

// RegisterInstruction binds an 8-byte instruction discriminator under the
// given program.
func (r *Registry) RegisterInstruction(program solana.PublicKey, disc [8]byte, dec InstructionDecoder) {
	m, ok := r.instr[program]
	if !ok {
		m = make(map[[8]byte]InstructionDecoder)
		r.instr[program] = m
	}
	m[disc] = dec
	if _, ok := r.marker[program]; !ok {
		r.RegisterProgram(program)
	}
}

// RegisterLogEvent binds a structured log event: the wire tag is the
// 16-byte Anchor prefix (event tag + event discriminator).
func (r *Registry) RegisterLogEvent(disc [8]byte, dec LogDecoder) {
	var key [16]byte
	copy(key[:8], anchorEventTag[:])
	copy(key[8:], disc[:])
	r.log16[key] = dec
}

// RegisterLegacyLogEvent binds a legacy log event identified by a bare
// 8-byte discriminator with no Anchor prefix.
func (r *Registry) RegisterLegacyLogEvent(disc [8]byte, dec LogDecoder) {
	r.log8[disc] = dec
}

// Programs returns the registered program IDs in unspecified order.
func (r *Registry) Programs() []solana.PublicKey {
	out := make([]solana.PublicKey, 0, len(r.marker))
	for pk := range r.marker {
		out = append(out, pk)
	}
	return out
}

// Recognizes reports whether the program has any registration.
func (r *Registry) Recognizes(program solana.PublicKey) bool {
	_, ok := r.marker[program]
	return ok
}

// DecodeInstruction dispatches a raw instruction payload. Returns nil when
// the program or discriminator is unknown or the payload is malformed.
func (r *Registry) DecodeInstruction(program solana.PublicKey, data []byte, accounts []solana.PublicKey, meta event.Metadata) event.Event {
	if len(data) < 8 {
		return nil
	}
	m, ok := r.instr[program]
	if !ok {
		return nil
	}
	var disc [8]byte
	copy(disc[:], data[:8])
	dec, ok := m[disc]
	if !ok {
		return nil
	}
	return dec(data[8:], accounts, meta)
}

// DecodeLogPayload dispatches a base64-decoded log payload. Structured
// 16-byte tags are tried first, then the legacy 8-byte table. Returns nil
// on any miss or malformed payload.
func (r *Registry) DecodeLogPayload(data []byte, meta event.Metadata) event.Event {
	if len(data) >= 16 && [8]byte(data[:8]) == anchorEventTag {
		var key [16]byte
		copy(key[:], data[:16])
		if dec, ok := r.log16[key]; ok {
			return dec(data[16:], meta)
		}
		return nil
	}
	if len(data) < 8 {
		return nil
	}
	var disc [8]byte
	copy(disc[:], data[:8])
	dec, ok := r.log8[disc]
	if !ok {
		return nil
	}
	return dec(data[8:], meta)
}

// InvokedProgram reports which registered program a "Program <id> invoke"
// log line starts, if any.
func (r *Registry) InvokedProgram(line string) (solana.PublicKey, bool) {
	for pk, m := range r.marker {
		if strings.Contains(line, m.invoke) {
			return pk, true
		}
	}
	return solana.PublicKey{}, false
}

// EndsProgram reports whether the log line terminates the given program's
// section (success or failure).
func (r *Registry) EndsProgram(line string, program solana.PublicKey) bool {
	m, ok := r.marker[program]
	if !ok {
		return false
	}
	return strings.Contains(line, m.success) || strings.Contains(line, m.failed)
}

// ExtractProgramData returns the base64-decoded payload of a
// "Program data: " log line. Lines without the marker, or whose payload is
// not valid base64, yield (nil, false).
func ExtractProgramData(line string) ([]byte, bool) {
	i := strings.Index(line, ProgramDataMarker)
	if i < 0 {
		return nil, false
	}
	raw := strings.TrimSpace(line[i+len(ProgramDataMarker):])
	if raw == "" {
		return nil, false
	}
	out, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, false
	}
	return out, true
}
