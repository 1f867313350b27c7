// Package pipeline runs the synchronous decode pass: one transaction
// snapshot in, zero or more canonical events out. Instructions and logs
// are decoded separately into partial events, reconciled by the merge
// engine, then handed to the delivery queue and optional callback.
package pipeline

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"sol-dex-stream/internal/dispatch"
	"sol-dex-stream/internal/event"
	"sol-dex-stream/internal/merge"
	"sol-dex-stream/internal/observability"
	"sol-dex-stream/internal/queue"
)

// Instruction is one instruction of a transaction snapshot. Account
// references are indexes into the transaction's account list.
type Instruction struct {
	ProgramIDIndex uint16
	AccountIndexes []uint16
	Data           []byte
}

// Transaction is the read-only per-transaction snapshot handed in by the
// stream client. Log-only sources leave Instructions empty.
type Transaction struct {
	Signature    solana.Signature
	Slot         uint64
	BlockTime    *int64
	Accounts     []solana.PublicKey
	Instructions []Instruction
	Logs         []string

	// ReceivedUS is the ingest receive timestamp in unix microseconds;
	// zero means "stamp at decode time".
	ReceivedUS int64
}

// Decoder runs the decode-and-merge pass. It holds no per-transaction
// state and is safe for use from a single ingest goroutine; the registry
// it wraps is immutable.
type Decoder struct {
	registry *dispatch.Registry
	log      *zap.Logger
}

// NewDecoder wraps a built registry. A nil logger disables decode logging.
func NewDecoder(registry *dispatch.Registry, log *zap.Logger) *Decoder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Decoder{registry: registry, log: log}
}

// Decode produces the canonical events of one transaction. Malformed
// instructions and log lines are skipped individually; an out-of-range
// program reference surfaces as an ErrorEvent so consumers can count it.
func (d *Decoder) Decode(tx *Transaction) []event.Event {
	start := time.Now()

	instrEvents := d.decodeInstructions(tx)
	logEvents := d.decodeLogs(tx)
	merged := merge.Events(instrEvents, logEvents)

	if pairs := len(instrEvents) + len(logEvents) - len(merged); pairs > 0 {
		observability.RecordEventsMerged(pairs)
	}
	observability.RecordTransaction(time.Since(start).Seconds())
	observability.UpdateHighestSlot(tx.Slot)
	return merged
}

func (d *Decoder) decodeInstructions(tx *Transaction) []event.Event {
	var out []event.Event
	for idx, ins := range tx.Instructions {
		if int(ins.ProgramIDIndex) >= len(tx.Accounts) {
			ev := &event.ErrorEvent{
				Metadata: d.metadata(tx, solana.PublicKey{}, int64(idx)),
				Message:  fmt.Sprintf("instruction %d: program index %d out of range (%d accounts)", idx, ins.ProgramIDIndex, len(tx.Accounts)),
			}
			observability.RecordErrorEvent()
			out = append(out, ev)
			continue
		}
		program := tx.Accounts[ins.ProgramIDIndex]
		if !d.registry.Recognizes(program) {
			continue
		}
		accounts := resolveAccounts(tx.Accounts, ins.AccountIndexes)
		ev := d.registry.DecodeInstruction(program, ins.Data, accounts, d.metadata(tx, program, int64(idx)))
		if ev == nil {
			continue
		}
		observability.RecordEventDecoded(ev.Kind().String(), "instruction")
		out = append(out, ev)
	}
	return out
}

// decodeLogs walks the log lines tracking which registered program's
// section is active, decodes "Program data: " payloads inside it, and
// stops after the first decoded event: one action emits one settlement
// log, and coincidental matches further down are noise.
func (d *Decoder) decodeLogs(tx *Transaction) []event.Event {
	var current solana.PublicKey
	for idx, line := range tx.Logs {
		if pk, ok := d.registry.InvokedProgram(line); ok {
			current = pk
			continue
		}
		if !current.IsZero() && d.registry.EndsProgram(line, current) {
			current = solana.PublicKey{}
			continue
		}
		if current.IsZero() {
			continue
		}
		payload, ok := dispatch.ExtractProgramData(line)
		if !ok {
			continue
		}
		ev := d.registry.DecodeLogPayload(payload, d.metadata(tx, current, int64(idx)))
		if ev == nil {
			continue
		}
		observability.RecordEventDecoded(ev.Kind().String(), "log")
		return []event.Event{ev}
	}
	return nil
}

func (d *Decoder) metadata(tx *Transaction, program solana.PublicKey, outerIndex int64) event.Metadata {
	m := event.NewMetadata(tx.Signature, tx.Slot, tx.BlockTime, program, tx.ReceivedUS)
	m.OuterIndex = outerIndex
	return m
}

// resolveAccounts maps instruction account indexes to keys, substituting
// the zero sentinel for out-of-range references.
func resolveAccounts(accounts []solana.PublicKey, indexes []uint16) []solana.PublicKey {
	out := make([]solana.PublicKey, len(indexes))
	for i, idx := range indexes {
		if int(idx) < len(accounts) {
			out[i] = accounts[idx]
		}
	}
	return out
}

// Pipeline couples a Decoder with the delivery queue and an optional
// synchronous callback invoked in decode order.
type Pipeline struct {
	dec     *Decoder
	ring    *queue.Ring
	onEvent func(event.Event)
	log     *zap.Logger
}

// New builds a pipeline. onEvent may be nil when consumers poll the queue
// instead.
func New(dec *Decoder, ring *queue.Ring, onEvent func(event.Event), log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{dec: dec, ring: ring, onEvent: onEvent, log: log}
}

// Queue exposes the delivery ring for polling consumers.
func (p *Pipeline) Queue() *queue.Ring {
	return p.ring
}

// Handle decodes one transaction and delivers its events. Queue overflow
// drops the event and counts it; delivery never blocks the ingest path.
func (p *Pipeline) Handle(tx *Transaction) {
	for _, ev := range p.dec.Decode(tx) {
		if p.onEvent != nil {
			p.onEvent(ev)
		}
		if p.ring == nil {
			continue
		}
		if !p.ring.Push(ev) {
			observability.RecordQueueDrop()
			p.log.Debug("delivery queue full, event dropped",
				zap.String("kind", ev.Kind().String()),
				zap.Uint64("slot", ev.Meta().Slot))
			continue
		}
		observability.RecordDelivered()
		observability.UpdateQueueDepth(p.ring.Len())
	}
}
