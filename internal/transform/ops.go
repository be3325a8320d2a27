package transform

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/xformsync/internal/codec"
	"github.com/Faultbox/xformsync/pkg/math"
	"github.com/Faultbox/xformsync/pkg/scene"
	"github.com/Faultbox/xformsync/pkg/xformstack"
)

// pivotEps is the tolerance under which a diverging pivot still matches the
// combined pivot.
const pivotEps = 1e-6

// InsertOp adds an op for role at its canonical stack position. Pivot roles
// add the inverse twin first and roll it back when the forward op fails.
func (t *TransformationMatrix) InsertOp(role xformstack.Role) error {
	if t.prim == nil {
		return ErrNotBound
	}
	if role == xformstack.RoleNone {
		return fmt.Errorf("%w: no role", ErrInsertFailed)
	}

	if role.HasTwin() {
		inv := xformstack.Classification{Role: role, Inverted: true}
		if err := t.insertEntry(inv); err != nil {
			t.syncOpOrder()
			return fmt.Errorf("%w: %s: %w", ErrInsertFailed, inv, err)
		}
		if err := t.insertEntry(xformstack.Classification{Role: role}); err != nil {
			if i := t.entryIndex(inv); i != xformstack.NoIndex {
				t.ops = append(t.ops[:i], t.ops[i+1:]...)
			}
			t.syncOpOrder()
			return fmt.Errorf("%w: %s: %w", ErrInsertFailed, role, err)
		}
	} else if err := t.insertEntry(xformstack.Classification{Role: role}); err != nil {
		t.syncOpOrder()
		return fmt.Errorf("%w: %s: %w", ErrInsertFailed, role, err)
	}

	t.flags.set(presenceFlag(role), true)
	t.syncOpOrder()
	t.log().Debug("inserted transform op",
		zap.Stringer("role", role),
		zap.Strings("order", t.prim.OpOrder()))
	return nil
}

// insertEntry creates the op for c on the prim and places it before the
// first entry whose canonical index is not lower. Unclassified entries never
// displace an insertion.
func (t *TransformationMatrix) insertEntry(c xformstack.Classification) error {
	typ := c.Role.OpType()
	if c.Role == xformstack.RoleRotate {
		typ = scene.RotateOpType(t.values.Rotation.Order)
	}
	op, err := t.prim.AddOp(typ, t.precision, c.Role.Suffix(), c.Inverted)
	if err != nil {
		return err
	}

	idx := xformstack.CanonicalIndex(c)
	pos := len(t.ops)
	for i, e := range t.ops {
		if ci := xformstack.CanonicalIndex(e.class); ci != xformstack.NoIndex && ci >= idx {
			pos = i
			break
		}
	}

	t.ops = append(t.ops, entry{})
	copy(t.ops[pos+1:], t.ops[pos:])
	t.ops[pos] = entry{op: op, class: c}
	return nil
}

// RemoveOp drops every op of role, including its inverse twin, from the
// stack. The attributes are kept.
func (t *TransformationMatrix) RemoveOp(role xformstack.Role) error {
	if t.prim == nil {
		return ErrNotBound
	}

	kept := t.ops[:0]
	removed := 0
	for _, e := range t.ops {
		if e.class.Role == role && role != xformstack.RoleNone {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	t.ops = kept
	if removed == 0 {
		return fmt.Errorf("%w: %s", ErrOpNotFound, role)
	}

	t.flags.set(presenceFlag(role), false)
	if role == xformstack.RoleTransform {
		t.flags.set(flagPushPrimToMatrix|flagAnimatedMatrix, false)
	}
	if f := animatedFlag(role); f != 0 {
		t.flags.set(f, false)
	}
	t.syncOpOrder()
	return nil
}

// SplitPivotIfNeeded replaces a combined pivot with separate rotate and
// scale pivot pairs when pivot c is about to diverge to v. It reports
// whether a split happened. Without a combined pivot, or when the combined
// pivot already equals v, nothing changes.
func (t *TransformationMatrix) SplitPivotIfNeeded(c Component, v math.Vec3) (bool, error) {
	if !t.PrimHasPivot() {
		return false, nil
	}
	if c != RotatePivot && c != ScalePivot {
		return false, fmt.Errorf("%w: %v is not a pivot", ErrUnsupportedEdit, c)
	}

	i := t.entryIndex(xformstack.Classification{Role: xformstack.RolePivot})
	if i == xformstack.NoIndex {
		return false, fmt.Errorf("%w: pivot", ErrOpNotFound)
	}
	shared, ok := codec.ReadPoint(t.ops[i].op, t.time)
	if !ok {
		shared = t.fromSource.RotatePivot
	}
	if shared.ApproxEqual(v, pivotEps) {
		return false, nil
	}

	if err := t.RemoveOp(xformstack.RolePivot); err != nil {
		return false, err
	}
	if err := t.InsertOp(xformstack.RoleRotatePivot); err != nil {
		return false, err
	}
	if err := t.InsertOp(xformstack.RoleScalePivot); err != nil {
		return false, err
	}
	t.log().Debug("split combined pivot",
		zap.Stringer("component", c),
		zap.Strings("order", t.prim.OpOrder()))
	return true, nil
}
