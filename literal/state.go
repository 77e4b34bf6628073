// Package literal implements the literal substate machine (spec.md
// C5-C8): length coding, context derivation, dual-model mixing, and the
// per-nibble arithmetic coding loop that together turn a run of literal
// bytes into, or back out of, a nibble stream.
package literal

import (
	"github.com/brotligo/litcoder/arith"
	"github.com/brotligo/litcoder/cdf"
	"github.com/brotligo/litcoder/priors"
)

// Substate is the literal coder's tagged state variant (spec.md S3.2).
// The tagged form, rather than an inline loop with spilled locals, is
// what makes suspending mid-command at any DrainOrFill call trivial.
type Substate uint8

const (
	Begin Substate = iota
	CountSmall
	CountFirst
	CountGreater14Less25
	CountMantissaNibbles
	NibbleIndex
	FullyDecoded
)

func (s Substate) String() string {
	switch s {
	case Begin:
		return "Begin"
	case CountSmall:
		return "CountSmall"
	case CountFirst:
		return "CountFirst"
	case CountGreater14Less25:
		return "CountGreater14Less25"
	case CountMantissaNibbles:
		return "CountMantissaNibbles"
	case NibbleIndex:
		return "NibbleIndex"
	case FullyDecoded:
		return "FullyDecoded"
	default:
		return "Unknown"
	}
}

// Command is one literal run (spec.md S3.1). On encode, Data holds the
// source bytes and must be set before the first call to EncodeOrDecode.
// On decode, Data starts nil and is allocated once the length codec
// determines L. Prob is the optional external per-nibble probability
// stream: empty, or exactly 8*len(Data) bytes.
type Command struct {
	Data []byte
	Prob []byte
}

// State drives one Command through the length codec and the per-nibble
// loop. It is resumable: everything EncodeOrDecode needs to continue
// after a NeedsMoreInput/NeedsMoreOutput stall lives on State or on the
// BlockKeeper/Collections it was called with, never in a local variable
// that doesn't survive the call returning (spec.md S5).
type State struct {
	Cmd   Command
	state Substate

	mantissaRemaining uint8
	mantissaAccum     uint32

	nibbleIndex uint32
}

// NewState returns a State ready to encode or decode one literal
// command, starting at Begin.
func NewState() *State {
	return &State{state: Begin}
}

// Substate reports the substate machine's current position.
func (s *State) Substate() Substate { return s.state }

// Done reports whether the command has been fully coded.
func (s *State) Done() bool { return s.state == FullyDecoded }

// EncodeOrDecode drives the substate machine forward, calling
// coder.DrainOrFill at the top of every iteration (spec.md S4.2, S5) and
// returning immediately with whatever non-Success result it gets,
// leaving all state exactly as it needs to be for the next call to
// resume. lit is the stride-indexed prior collection (also used by the
// length codec); cm is the context-map-indexed collection.
func (s *State) EncodeOrDecode(
	mode arith.Mode,
	coder *arith.Coder,
	bk *BlockKeeper,
	lit *priors.Collection,
	cm *priors.Collection,
	in []byte, inOffset *int,
	out []byte, outOffset *int,
) arith.Result {
	for {
		if res := coder.DrainOrFill(in, inOffset, out, outOffset); res != arith.Success {
			return res
		}
		switch s.state {
		case Begin:
			s.state = CountSmall
		case CountSmall, CountFirst, CountGreater14Less25, CountMantissaNibbles:
			s.stepLength(coder, bk, lit, mode)
		case NibbleIndex:
			s.stepNibble(coder, bk, lit, cm, mode)
			if s.state == FullyDecoded {
				return arith.Success
			}
		case FullyDecoded:
			return arith.Success
		}
	}
}

// stepNibble codes exactly one nibble of the literal run (spec.md S4.5),
// using the context deriver (S4.4) and mixer (S4.6) to build the
// effective model, then advances to the next nibble index or to
// FullyDecoded once the last nibble has been coded.
func (s *State) stepNibble(coder *arith.Coder, bk *BlockKeeper, lit, cm *priors.Collection, mode arith.Mode) {
	bk.LastLLen = uint32(len(s.Cmd.Data))

	byteIndex := int(s.nibbleIndex >> 1)
	highNibble := s.nibbleIndex&1 == 0
	var shift uint8
	if highNibble {
		shift = 4
	}

	if len(s.Cmd.Prob) != 0 && len(s.Cmd.Prob) != 8*len(s.Cmd.Data) {
		panic(ErrBadExternalProbLength)
	}

	var sym uint8
	if mode == arith.ModeEncode {
		sym = (s.Cmd.Data[byteIndex] >> shift) & 0xf
	}

	strideOrOne := bk.StrideOrOne()
	k0, k1 := StrideNibblePair(bk.Last8Literals, strideOrOne)
	strideNibbles := int32(k0)*16 + int32(k1)

	prevByte := uint8(bk.Last8Literals >> 0x38)
	prevPrevByte := uint8(bk.Last8Literals >> 0x30)
	selectedContext := DeriveContext(bk.LiteralPredictionMode, prevByte, prevPrevByte)

	cmapIndex := int(selectedContext) + 64*int(bk.GetLiteralBlockType())
	var actualContext int32
	if bk.MaterializedPredictionMode {
		actualContext = int32(bk.LiteralContextMap[cmapIndex])
	} else {
		actualContext = int32(selectedContext)
	}

	var strideModel, cmModel *cdf.CDF16
	if highNibble {
		strideModel = lit.Get(priors.FirstNibble, priors.Key{Ctype: strideOrOne, Ctx: actualContext, Sub: strideNibbles})
		cmModel = cm.Get(priors.FirstNibble, priors.Key{Ctype: 0, Ctx: actualContext, Sub: 0})
	} else {
		curBytePrior := int32(s.Cmd.Data[byteIndex] >> 4)
		strideModel = lit.Get(priors.SecondNibble, priors.Key{Ctype: strideOrOne, Ctx: curBytePrior, Sub: strideNibbles})
		cmModel = cm.Get(priors.SecondNibble, priors.Key{Ctype: 0, Ctx: actualContext, Sub: curBytePrior})
	}

	var effective *cdf.CDF16
	switch {
	case !bk.MaterializedPredictionMode:
		effective = strideModel
	case !bk.CombineLiteralPredictions:
		effective = cmModel
	default:
		w := BlendWeight(bk.ModelWeights)
		effective = cmModel.Average(strideModel, w)
	}

	// External-probability override (spec.md S4.5 step 4, S4.4a): the
	// four bytes are supplied by the caller on both sides (an
	// externally shared prediction, not derived from the data being
	// coded), so the override always targets symbol 0 — "this nibble
	// is probably zero" — the one target both sides can agree on
	// without knowing the true nibble value in advance.
	shiftOffset := 4
	if highNibble {
		shiftOffset = 0
	}
	windowEnd := byteIndex*8 + shiftOffset + 4
	usedCDF := effective
	if len(s.Cmd.Prob) != 0 && windowEnd <= len(s.Cmd.Prob) {
		var probBytes [4]byte
		copy(probBytes[:], s.Cmd.Prob[windowEnd-4:windowEnd])
		usedCDF = cdf.NewExternalProb16(0, probBytes, strideModel)
	}

	r := coder.GetOrPutNibble(&sym, usedCDF)

	NormalizeWeights(&bk.ModelWeights)
	if bk.MaterializedPredictionMode && bk.DynamicContextMixing != 0 {
		modelProbs := [2]uint16{
			strideModel.SymToStartAndFreq(sym).Freq,
			cmModel.SymToStartAndFreq(sym).Freq,
		}
		w0 := ComputeNewWeight(modelProbs, r.Freq, bk.ModelWeights, false)
		w1 := ComputeNewWeight(modelProbs, r.Freq, bk.ModelWeights, true)
		bk.ModelWeights = [2]int32{w0, w1}
	}

	strideModel.Blend(sym, bk.LiteralAdaptation)
	cmModel.Blend(sym, cdf.Glacial)

	s.Cmd.Data[byteIndex] |= sym << shift
	if !highNibble {
		bk.PushLiteralByte(s.Cmd.Data[byteIndex])
	}

	if s.nibbleIndex+1 == uint32(len(s.Cmd.Data))<<1 {
		s.state = FullyDecoded
	} else {
		s.nibbleIndex++
	}
}
