package chain

// Height identifies the position of a block in the chain. Heights increase
// monotonically along any single fork.
type Height uint64

// HeightDelta measures the difference between two Heights.
type HeightDelta uint64

// Tip is a node's current view of the chain head. A Tip is replaced wholesale
// whenever the head changes; it is never mutated in place.
type Tip struct {
	BlockID Identifier
	Height  Height
}
