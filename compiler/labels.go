package compiler

import "fmt"

// label is an opaque, monotonically-issued handle into labelRegistry.
type label uint32

// pendingFixup records one not-yet-resolved reference to a label. armIndex
// is -1 for an ordinary instruction's BranchOffset field, or the index
// into that BrTable instruction's BranchTable arms whose BranchOffset must
// be patched instead.
type pendingFixup struct {
	instrPos uint32
	armIndex int
}

// labelRegistry resolves each label exactly once (pin), matching the
// translator's one-shot "labels.pin_label" / "labels.try_pin_label"
// contract: a label is created, referenced zero or more times by branch
// instructions emitted before its target position is known (forward
// branches), and pinned exactly once when the translator reaches that
// position. Backward branches (loop headers) are pinned before they are
// referenced, so branch_offset resolves them immediately instead of
// recording a fixup.
type labelRegistry struct {
	pinned  []bool
	target  []uint32
	fixups  [][]pendingFixup
}

func newLabelRegistry() *labelRegistry { return &labelRegistry{} }

func (r *labelRegistry) newLabel() label {
	r.pinned = append(r.pinned, false)
	r.target = append(r.target, 0)
	r.fixups = append(r.fixups, nil)
	return label(len(r.pinned) - 1)
}

// pin resolves lbl to pos. It is an error to pin the same label twice.
func (r *labelRegistry) pin(lbl label, pos uint32) error {
	if r.pinned[lbl] {
		return fmt.Errorf("rwasm/compiler: label %d pinned twice", lbl)
	}
	r.pinned[lbl] = true
	r.target[lbl] = pos
	return nil
}

// tryPin pins lbl if it is not already pinned; a no-op otherwise. Grounded
// on try_pin_label, used at visit_end for an if-frame's else-label when no
// explicit else arm was present.
func (r *labelRegistry) tryPin(lbl label, pos uint32) {
	if !r.pinned[lbl] {
		r.pinned[lbl] = true
		r.target[lbl] = pos
	}
}

// branchOffsetFrom computes the relative jump distance a branch instruction
// at fromPos uses to reach lbl. If lbl is already pinned (a backward
// branch, e.g. to a loop header), the offset is computed immediately. If
// not (a forward branch), the reference is recorded as a fixup for resolve
// to patch once the label is later pinned.
func (r *labelRegistry) branchOffsetFrom(lbl label, fromPos uint32) int32 {
	return r.branchOffsetFromArm(lbl, fromPos, -1)
}

// branchOffsetFromArm is branchOffsetFrom generalized to a BrTable arm:
// when armIndex >= 0 and the label isn't pinned yet, the fixup recorded
// targets instrs[instrPos].BranchTable[armIndex] instead of the
// instruction's own BranchOffset field.
func (r *labelRegistry) branchOffsetFromArm(lbl label, fromPos uint32, armIndex int) int32 {
	if r.pinned[lbl] {
		return int32(r.target[lbl]) - int32(fromPos)
	}
	r.fixups[lbl] = append(r.fixups[lbl], pendingFixup{instrPos: fromPos, armIndex: armIndex})
	return 0 // patched later by resolve
}

// resolve patches every outstanding forward-branch fixup now that all
// labels have been pinned. patch is called once per fixup with the
// instruction position, arm index (-1 for a plain BranchOffset field), and
// the now-known relative offset.
func (r *labelRegistry) resolve(patch func(instrPos uint32, armIndex int, offset int32)) error {
	for lbl := range r.pinned {
		if !r.pinned[lbl] {
			return fmt.Errorf("rwasm/compiler: label %d left unresolved at finish", lbl)
		}
		target := r.target[lbl]
		for _, fx := range r.fixups[lbl] {
			patch(fx.instrPos, fx.armIndex, int32(target)-int32(fx.instrPos))
		}
	}
	return nil
}
