package pipeline

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sol-dex-stream/internal/decode"
	"sol-dex-stream/internal/event"
	"sol-dex-stream/internal/queue"
)

func pk(b byte) solana.PublicKey {
	return solana.PublicKeyFromBytes(bytes.Repeat([]byte{b}, 32))
}

func sig(b byte) solana.Signature {
	return solana.SignatureFromBytes(bytes.Repeat([]byte{b}, 64))
}

func newTestDecoder() *Decoder {
	return NewDecoder(decode.NewRegistry(), nil)
}

// buyInstructionData is a pump.fun buy: discriminator, amount, max sol cost.
func buyInstructionData(amount, maxSolCost uint64) []byte {
	data := []byte{102, 6, 61, 18, 1, 218, 235, 234}
	data = binary.LittleEndian.AppendUint64(data, amount)
	return binary.LittleEndian.AppendUint64(data, maxSolCost)
}

// tradeLogLine encodes a pump.fun TradeEvent settlement log line.
func tradeLogLine(mint, user solana.PublicKey, solAmount, tokenAmount uint64, isBuy bool) string {
	data := []byte{189, 219, 127, 211, 78, 230, 97, 238}
	data = append(data, mint.Bytes()...)
	data = binary.LittleEndian.AppendUint64(data, solAmount)
	data = binary.LittleEndian.AppendUint64(data, tokenAmount)
	if isBuy {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}
	data = append(data, user.Bytes()...)
	data = binary.LittleEndian.AppendUint64(data, 1_700_000_000)    // timestamp
	data = binary.LittleEndian.AppendUint64(data, 30_480_000_000)   // virtual sol
	data = binary.LittleEndian.AppendUint64(data, 1_072_050_000_000) // virtual token
	data = binary.LittleEndian.AppendUint64(data, 480_000_000)      // real sol
	data = binary.LittleEndian.AppendUint64(data, 792_150_000_000)  // real token
	data = append(data, pk(200).Bytes()...)                         // fee recipient
	data = binary.LittleEndian.AppendUint64(data, 100)              // fee bps
	data = binary.LittleEndian.AppendUint64(data, solAmount/100)    // fee
	data = append(data, pk(201).Bytes()...)                         // creator
	data = binary.LittleEndian.AppendUint64(data, 0)                // creator fee bps
	data = binary.LittleEndian.AppendUint64(data, 0)                // creator fee
	return "Program data: " + base64.StdEncoding.EncodeToString(data)
}

func pumpFunInvoke() string {
	return "Program " + decode.PumpFunProgram.String() + " invoke [1]"
}

func pumpFunSuccess() string {
	return "Program " + decode.PumpFunProgram.String() + " success"
}

func buyTransaction() *Transaction {
	accounts := []solana.PublicKey{
		pk(10), pk(11), pk(12), pk(13), pk(14), pk(15),
		pk(16), pk(17), pk(18), pk(19), pk(20), pk(21),
		decode.PumpFunProgram,
	}
	indexes := make([]uint16, 12)
	for i := range indexes {
		indexes[i] = uint16(i)
	}
	return &Transaction{
		Signature: sig(1),
		Slot:      330_000_000,
		Accounts:  accounts,
		Instructions: []Instruction{{
			ProgramIDIndex: 12,
			AccountIndexes: indexes,
			Data:           buyInstructionData(1_000_000_000, 500_000_000),
		}},
		Logs: []string{
			pumpFunInvoke(),
			"Program log: Instruction: Buy",
			tradeLogLine(pk(10), pk(11), 480_000_000, 950_000_000, true),
			pumpFunSuccess(),
		},
	}
}

func TestDecodeMergesInstructionAndLog(t *testing.T) {
	out := newTestDecoder().Decode(buyTransaction())
	require.Len(t, out, 1, "the two views of one buy must merge")

	ev := out[0].(*event.PumpFunTradeEvent)
	assert.Equal(t, uint64(1_000_000_000), ev.Amount, "instruction side")
	assert.Equal(t, uint64(500_000_000), ev.MaxSolCost, "instruction side")
	assert.Equal(t, uint64(480_000_000), ev.SolAmount, "log side")
	assert.Equal(t, uint64(950_000_000), ev.TokenAmount, "log side")
	assert.Equal(t, pk(12), ev.BondingCurve, "account set from the instruction")
	assert.Equal(t, pk(200), ev.FeeRecipient, "fees from the log")
	assert.Equal(t, sig(1), ev.Signature)
	assert.NotZero(t, ev.HandleUS)
}

func TestDecodeLogOnlyTransaction(t *testing.T) {
	tx := &Transaction{
		Signature: sig(2),
		Slot:      330_000_001,
		Logs: []string{
			pumpFunInvoke(),
			tradeLogLine(pk(30), pk(31), 250_000_000, 400_000_000, false),
			pumpFunSuccess(),
		},
	}
	out := newTestDecoder().Decode(tx)
	require.Len(t, out, 1)

	ev := out[0].(*event.PumpFunTradeEvent)
	assert.False(t, ev.IsBuy)
	assert.Equal(t, uint64(250_000_000), ev.SolAmount)
	assert.Zero(t, ev.MaxSolCost, "no instruction side to supply limits")
	assert.Equal(t, decode.PumpFunProgram, ev.ProgramID)
	assert.Equal(t, int64(1), ev.OuterIndex, "log events carry the decoded log line index")
}

func TestDecodeStopsAfterFirstLogMatch(t *testing.T) {
	tx := &Transaction{
		Signature: sig(3),
		Slot:      330_000_002,
		Logs: []string{
			pumpFunInvoke(),
			tradeLogLine(pk(40), pk(41), 100, 200, true),
			tradeLogLine(pk(42), pk(43), 300, 400, true),
			pumpFunSuccess(),
		},
	}
	out := newTestDecoder().Decode(tx)
	require.Len(t, out, 1, "log decoding stops after the first match")
	assert.Equal(t, pk(40), out[0].(*event.PumpFunTradeEvent).Mint)
}

func TestDecodeIgnoresDataOutsideKnownPrograms(t *testing.T) {
	tx := &Transaction{
		Signature: sig(4),
		Slot:      330_000_003,
		Logs: []string{
			"Program 11111111111111111111111111111111 invoke [1]",
			tradeLogLine(pk(50), pk(51), 100, 200, true),
			"Program 11111111111111111111111111111111 success",
		},
	}
	out := newTestDecoder().Decode(tx)
	assert.Empty(t, out, "payloads outside a registered program section are not attributed")
}

func TestDecodeErrorEventOnBadProgramIndex(t *testing.T) {
	tx := &Transaction{
		Signature: sig(5),
		Slot:      330_000_004,
		Accounts:  []solana.PublicKey{pk(60)},
		Instructions: []Instruction{{
			ProgramIDIndex: 9,
			Data:           buyInstructionData(1, 2),
		}},
	}
	out := newTestDecoder().Decode(tx)
	require.Len(t, out, 1)
	require.Equal(t, event.KindError, out[0].Kind())
	assert.Contains(t, out[0].(*event.ErrorEvent).Message, "out of range")
}

func TestDecodeSkipsMalformedInstruction(t *testing.T) {
	tx := buyTransaction()
	tx.Logs = nil
	tx.Instructions[0].Data = tx.Instructions[0].Data[:12] // truncated args

	out := newTestDecoder().Decode(tx)
	assert.Empty(t, out, "truncated instruction decodes to nothing, not an error")
}

func TestDecodeUnregisteredProgramSilentSkip(t *testing.T) {
	tx := &Transaction{
		Signature: sig(6),
		Slot:      330_000_005,
		Accounts:  []solana.PublicKey{pk(70), pk(71)},
		Instructions: []Instruction{{
			ProgramIDIndex: 1,
			AccountIndexes: []uint16{0},
			Data:           buyInstructionData(1, 2),
		}},
	}
	out := newTestDecoder().Decode(tx)
	assert.Empty(t, out)
}

func TestDecodeShortAccountIndexesSubstituteSentinel(t *testing.T) {
	tx := buyTransaction()
	tx.Logs = nil
	tx.Instructions[0].AccountIndexes = []uint16{0, 1, 99} // 99 out of range

	out := newTestDecoder().Decode(tx)
	require.Len(t, out, 1)
	ev := out[0].(*event.PumpFunTradeEvent)
	assert.Equal(t, pk(10), ev.Mint)
	assert.True(t, ev.BondingCurve.IsZero(), "out-of-range reference becomes the zero sentinel")
}

func TestHandleDeliversInOrder(t *testing.T) {
	ring := queue.NewRing(16)
	var seen []event.Kind
	p := New(newTestDecoder(), ring, func(ev event.Event) {
		seen = append(seen, ev.Kind())
	}, nil)

	p.Handle(buyTransaction())

	require.Equal(t, []event.Kind{event.KindPumpFunTrade}, seen)
	ev, ok := ring.Pop()
	require.True(t, ok, "event must also be queued")
	assert.Equal(t, event.KindPumpFunTrade, ev.Kind())
	_, ok = ring.Pop()
	assert.False(t, ok)
}

func TestHandleDropsOnFullQueue(t *testing.T) {
	ring := queue.NewRing(2)
	p := New(newTestDecoder(), ring, nil, nil)

	for i := 0; i < 5; i++ {
		p.Handle(buyTransaction())
	}
	assert.Equal(t, 2, ring.Len())
	assert.Equal(t, uint64(3), ring.Dropped())
}
