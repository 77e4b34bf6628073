package literal

import "github.com/brotligo/litcoder/cdf"

// BlockKeeper holds the state a literal coding session reads and writes
// across the whole stream (spec.md S3.3), outside the per-command
// substate: the stride/context configuration, the learned mixer
// weights, and the rolling window of recently emitted bytes.
type BlockKeeper struct {
	// Stride is the number of prior bytes, in [0,8], contributing to the
	// stride hash; treated as max(1, Stride) wherever it's used.
	Stride uint8

	// Last8Literals is a 64-bit window of the most recently emitted
	// eight output bytes, MSB-aligned: the most recent byte occupies
	// bits 56..63.
	Last8Literals uint64

	LiteralPredictionMode     PredictionMode
	LiteralContextMap         []byte // 64 * number of literal block types
	MaterializedPredictionMode bool
	CombineLiteralPredictions bool

	// DynamicContextMixing is the mixer's learning speed, in [0,14]; 0
	// disables weight updates entirely.
	DynamicContextMixing uint8
	ModelWeights         [2]int32

	LiteralAdaptation cdf.Speed
	LastLLen          uint32

	literalBlockType uint8
	commandBlockType uint8
}

// NewBlockKeeper returns a BlockKeeper sized for numLiteralBlockTypes
// literal block types, with model weights initialized equal per
// spec.md S3.3.
func NewBlockKeeper(numLiteralBlockTypes int) *BlockKeeper {
	if numLiteralBlockTypes < 1 {
		numLiteralBlockTypes = 1
	}
	return &BlockKeeper{
		LiteralContextMap: make([]byte, 64*numLiteralBlockTypes),
		ModelWeights:      [2]int32{1, 1},
		LiteralAdaptation: cdf.Mud,
	}
}

// GetLiteralBlockType and GetCommandBlockType report the current block
// type (spec.md S6.2's get_literal_block_type/get_command_block_type).
// A module with no outer command dispatcher has nothing to switch these
// on; SetLiteralBlockType/SetCommandBlockType exist so a caller building
// its own block-type schedule on top of this package still can.
func (bk *BlockKeeper) GetLiteralBlockType() uint8 { return bk.literalBlockType }
func (bk *BlockKeeper) SetLiteralBlockType(t uint8) { bk.literalBlockType = t }
func (bk *BlockKeeper) GetCommandBlockType() uint8  { return bk.commandBlockType }
func (bk *BlockKeeper) SetCommandBlockType(t uint8) { bk.commandBlockType = t }

// PushLiteralByte records b as the most recently emitted byte, called
// exactly once per completed byte (spec.md S5's ordering invariant).
func (bk *BlockKeeper) PushLiteralByte(b byte) {
	bk.Last8Literals = (bk.Last8Literals >> 8) | (uint64(b) << 56)
}

// StrideOrOne is max(1, Stride), the value every stride-hash computation
// actually uses (spec.md S4.4).
func (bk *BlockKeeper) StrideOrOne() uint8 {
	if bk.Stride < 1 {
		return 1
	}
	return bk.Stride
}
