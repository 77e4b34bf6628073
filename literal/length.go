package literal

import (
	"math/bits"

	"github.com/brotligo/litcoder/arith"
	"github.com/brotligo/litcoder/cdf"
	"github.com/brotligo/litcoder/priors"
)

func bitLength32(x uint32) uint8 {
	if x == 0 {
		return 0
	}
	return uint8(32 - bits.LeadingZeros32(x))
}

// roundUpMod4 rounds x up to the next multiple of 4: the mantissa
// nibble count must always be a multiple of 4 since CountMantissaNibbles
// consumes exactly 4 bits per nibble.
func roundUpMod4(x uint8) uint8 {
	return (x + 3) &^ 3
}

// stepLength advances the length-codec portion of the substate machine
// (spec.md S4.3) by exactly one get_or_put_nibble call, then transitions
// to the next length substate or to NibbleIndex once the run length L is
// fully known and Cmd.Data has been sized.
//
// On encode the symbol coded at each step is computed from L = len(Data)
// — the caller's source length, known up front and recomputable from
// persisted state alone at any resumption point. On decode the symbol
// starts at 0 and is overwritten by GetOrPutNibble; only the value after
// the call is used, so the pre-call seed never matters there.
func (s *State) stepLength(coder *arith.Coder, bk *BlockKeeper, lit *priors.Collection, mode arith.Mode) {
	ctype := bk.GetCommandBlockType()
	switch s.state {
	case CountSmall:
		var sym uint8
		if mode == arith.ModeEncode {
			literalLen := uint32(len(s.Cmd.Data))
			sym = uint8(minUint32(15, literalLen-1))
		}
		model := lit.Get(priors.CountSmall, priors.Key{Ctype: ctype})
		coder.GetOrPutNibble(&sym, model)
		model.Blend(sym, cdf.Med)

		if sym == 15 {
			s.state = CountFirst
		} else {
			if mode == arith.ModeDecode {
				s.Cmd.Data = make([]byte, int(sym)+1)
			}
			s.state = NibbleIndex
			s.nibbleIndex = 0
		}

	case CountFirst:
		var sym uint8
		if mode == arith.ModeEncode {
			lllen := s.encodeLllen()
			sym = uint8(minUint32(15, uint32(lllen)))
		}
		model := lit.Get(priors.SizeBegNib, priors.Key{Ctype: ctype})
		coder.GetOrPutNibble(&sym, model)
		model.Blend(sym, cdf.Mud)

		switch {
		case sym == 15:
			s.state = CountGreater14Less25
		case sym <= 1:
			if mode == arith.ModeDecode {
				s.Cmd.Data = make([]byte, 16+int(sym))
			}
			s.state = NibbleIndex
			s.nibbleIndex = 0
		default:
			s.mantissaRemaining = roundUpMod4(sym - 1)
			s.mantissaAccum = uint32(1) << (sym - 1)
			s.state = CountMantissaNibbles
		}

	case CountGreater14Less25:
		var sym uint8
		if mode == arith.ModeEncode {
			lllen := s.encodeLllen()
			sym = lllen - 15
		}
		model := lit.Get(priors.SizeLastNib, priors.Key{Ctype: ctype})
		coder.GetOrPutNibble(&sym, model)
		model.Blend(sym, cdf.Mud)

		s.mantissaRemaining = roundUpMod4(sym + 14)
		s.mantissaAccum = uint32(1) << (sym + 14)
		s.state = CountMantissaNibbles

	case CountMantissaNibbles:
		nextRemaining := s.mantissaRemaining - 4
		var sym uint8
		if mode == arith.ModeEncode {
			serializedLargeLen := uint32(len(s.Cmd.Data)) - 16
			sym = uint8(((serializedLargeLen ^ s.mantissaAccum) >> nextRemaining) & 0xf)
		}
		model := lit.Get(priors.SizeMantissaNib, priors.Key{Ctype: ctype})
		coder.GetOrPutNibble(&sym, model)
		model.Blend(sym, cdf.Mud)
		nextAccum := s.mantissaAccum | (uint32(sym) << nextRemaining)

		if nextRemaining == 0 {
			if mode == arith.ModeDecode {
				s.Cmd.Data = make([]byte, int(nextAccum)+16)
			}
			s.state = NibbleIndex
			s.nibbleIndex = 0
		} else {
			s.mantissaRemaining = nextRemaining
			s.mantissaAccum = nextAccum
		}
	}
}

// encodeLllen is bit_length(L-16), computed fresh from the source
// length. Only meaningful on encode — only called from encode paths.
func (s *State) encodeLllen() uint8 {
	literalLen := uint32(len(s.Cmd.Data))
	return bitLength32(literalLen - 16)
}
