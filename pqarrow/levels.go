package pqarrow

import (
	"fmt"

	"github.com/kmjung/arrow/array"
)

// Levels is the output of the level builder: the flattened definition and
// repetition level sequences for one leaf column, plus the slice of the leaf
// values column the caller should hand to the underlying column encoder.
type Levels struct {
	NumLevels int

	// DefLevels is nil when the column is non-nullable and not nested in
	// a list (invariant 1 of spec section 8 — "absent when the whole
	// column is non-nullable and non-nested").
	DefLevels []int16

	// RepLevels is nil when the column is not nested in a list.
	RepLevels []int16

	// MaxDefLevel and MaxRepLevel bound the values that can appear in
	// DefLevels/RepLevels, for callers validating invariant 2.
	MaxDefLevel int16
	MaxRepLevel int16

	ValuesOffset int
	NumValues    int
	Values       *array.FlatColumn
}

// listLevel records one list ancestor discovered during descent: whether it
// is nullable, its validity bitmap, the absolute offset of row 0 of this
// call within that bitmap/offsets buffer, and its offsets buffer.
type listLevel struct {
	nullable    bool
	validity    array.Bitmap
	arrayOffset int
	offsets     []int32
}

// BuildLevels walks col top-down, collecting list levels until it reaches a
// leaf FlatColumn, then emits def/rep levels per the Dremel shredding
// algorithm restricted to single-child lists.
//
// fieldNullable is the schema-declared nullability spine for col (the
// Nullability collection step of spec.md §4.1: one bool per nesting depth,
// outermost list first, leaf last), as recorded on the enclosing Field. When
// non-nil, BuildLevels checks it in lock-step against the nesting depth
// actually found by descent before emitting any levels, and returns
// ErrNestedFieldMismatch if the lengths disagree — the preflight rejection
// spec.md §9's open question recommends, rather than producing levels for an
// inconsistent schema/data pairing. Pass nil to skip the check and trust the
// data shape, as before.
//
// scratch, if non-nil, supplies the definition-level buffer for the flat
// (non-nested) fast path via ScratchContext.DefLevels, so a file writer
// processing many columns reuses one buffer instead of allocating a fresh
// []int16 per call. Pass nil to always allocate, as a one-off or test call
// would.
func BuildLevels(col array.Column, fieldNullable []bool, scratch *ScratchContext) (*Levels, error) {
	levels, leaf, minIdx, maxIdx, err := descend(col)
	if err != nil {
		return nil, err
	}

	if fieldNullable != nil && len(fieldNullable) != len(levels)+1 {
		return nil, fmt.Errorf("%w: schema declares %d nesting levels, data has %d",
			ErrNestedFieldMismatch, len(fieldNullable), len(levels)+1)
	}

	if len(levels) == 0 {
		return buildFlatLevels(leaf, scratch), nil
	}

	b := &levelBuilder{levels: levels, leaf: leaf}
	b.repLevels = append(b.repLevels, 0)
	b.handleListEntries(0, 0, 0, col.Len())

	return &Levels{
		NumLevels:    len(b.defLevels),
		DefLevels:    b.defLevels,
		RepLevels:    b.repLevels,
		MaxDefLevel:  maxDefLevel(levels, leaf),
		MaxRepLevel:  int16(len(levels)),
		ValuesOffset: leaf.Offset + minIdx,
		NumValues:    maxIdx - minIdx,
		Values:       leaf,
	}, nil
}

// descend walks col top-down collecting one listLevel per list ancestor and
// projecting the original [0, col.Len()) range through successive list
// offsets, stopping at the first FlatColumn (the leaf). Any node with more
// than one child (struct, map, union, fixed-size list, extension) is
// rejected, since the core supports only single-child nesting.
func descend(col array.Column) (levels []listLevel, leaf *array.FlatColumn, minIdx, maxIdx int, err error) {
	minIdx, maxIdx = 0, col.Len()
	cur := col
	for {
		switch c := cur.(type) {
		case *array.FlatColumn:
			return levels, c, minIdx, maxIdx, nil
		case *array.ListColumn:
			levels = append(levels, listLevel{
				nullable:    c.Nullable(),
				validity:    c.Validity,
				arrayOffset: c.Offset,
				offsets:     c.Offsets,
			})
			minIdx = int(c.Offsets[c.Offset+minIdx])
			maxIdx = int(c.Offsets[c.Offset+maxIdx])
			cur = c.Child
		default:
			return nil, nil, 0, 0, fmt.Errorf("%w: column of type %T has an unsupported shape", ErrNotImplemented, cur)
		}
	}
}

// buildFlatLevels handles the no-enclosing-list case: no rep_levels; def
// levels present only if the leaf is nullable, with all-valid/all-null fast
// paths that avoid walking the bitmap. When scratch is non-nil, the def
// level buffer comes from its reusable ScratchContext.DefLevels arena
// instead of a fresh allocation.
func buildFlatLevels(leaf *array.FlatColumn, scratch *ScratchContext) *Levels {
	out := &Levels{
		NumLevels:    leaf.Length,
		ValuesOffset: leaf.Offset,
		NumValues:    leaf.Length,
		Values:       leaf,
	}

	if !leaf.Nullable() {
		return out
	}

	out.MaxDefLevel = 1
	var defLevels []int16
	if scratch != nil {
		defLevels = scratch.DefLevels(leaf.Length)
	} else {
		defLevels = make([]int16, leaf.Length)
	}
	switch nullCount := leaf.NullCount(); {
	case nullCount == 0:
		for i := range defLevels {
			defLevels[i] = 1
		}
	case nullCount == leaf.Length:
		// all zero, leave as allocated
	default:
		for i := 0; i < leaf.Length; i++ {
			if leaf.IsValid(i) {
				defLevels[i] = 1
			}
		}
	}
	out.DefLevels = defLevels
	return out
}

func maxDefLevel(levels []listLevel, leaf *array.FlatColumn) int16 {
	var max int16
	for _, l := range levels {
		if l.nullable {
			max++
		}
		max++
	}
	if leafNullable(leaf) {
		max++
	}
	return max
}

// leafNullable reports whether the leaf participates in definition-level
// accounting as nullable. A Null-kind leaf has no validity bitmap (every
// value is null by construction) but is still logically nullable.
func leafNullable(leaf *array.FlatColumn) bool {
	return leaf.Type.Kind == array.Null || leaf.Validity != nil
}

// leafWholeNull reports the "whole-leaf-null array" shortcut: a Null-kind
// leaf has no bitmap to consult per-bit, so every slot within any list is
// null.
func leafWholeNull(leaf *array.FlatColumn) bool {
	return leaf.Type.Kind == array.Null
}

type levelBuilder struct {
	levels    []listLevel
	leaf      *array.FlatColumn
	defLevels []int16
	repLevels []int16
}

// handleListEntries appends rep to repLevels for every entry after the
// first (the first entry inherits the repetition level of its caller), then
// dispatches each entry to handleList.
func (b *levelBuilder) handleListEntries(def, rep int16, offset, length int) {
	for i := 0; i < length; i++ {
		if i > 0 {
			b.repLevels = append(b.repLevels, rep)
		}
		b.handleList(def, rep, offset+i)
	}
}

// handleList consults the current level's validity bit (if nullable) before
// descending into handleNonNullList.
func (b *levelBuilder) handleList(def, rep int16, index int) {
	level := b.levels[rep]
	if level.nullable {
		if !level.validity.IsValid(level.arrayOffset + index) {
			b.defLevels = append(b.defLevels, def)
			return
		}
		b.handleNonNullList(def+1, rep, index)
		return
	}
	b.handleNonNullList(def, rep, index)
}

// handleNonNullList reads the current level's child range and either
// records an empty-list sentinel, recurses into a deeper list level, or — at
// the leaf of the list nesting — emits the per-leaf-slot definition levels.
func (b *levelBuilder) handleNonNullList(def, rep int16, index int) {
	level := b.levels[rep]
	innerOffset := int(level.offsets[level.arrayOffset+index])
	innerEnd := int(level.offsets[level.arrayOffset+index+1])
	innerLength := innerEnd - innerOffset

	if innerLength == 0 {
		b.defLevels = append(b.defLevels, def)
		return
	}

	if int(rep)+1 < len(b.levels) {
		b.handleListEntries(def+1, rep+1, innerOffset, innerLength)
		return
	}

	for i := 0; i < innerLength-1; i++ {
		b.repLevels = append(b.repLevels, rep+1)
	}

	leaf := b.leaf
	nullable := leafNullable(leaf)

	if nullable && leafWholeNull(leaf) {
		for i := 0; i < innerLength; i++ {
			b.defLevels = append(b.defLevels, def+1)
		}
		return
	}

	for i := 0; i < innerLength; i++ {
		if nullable && leaf.IsValid(innerOffset+i) {
			b.defLevels = append(b.defLevels, def+2)
		} else {
			b.defLevels = append(b.defLevels, def+1)
		}
	}
}
