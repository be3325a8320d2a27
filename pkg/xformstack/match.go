package xformstack

import (
	"github.com/Faultbox/xformsync/pkg/math"
	"github.com/Faultbox/xformsync/pkg/scene"
)

// Result is the outcome of matching an op list.
type Result struct {
	Schema SchemaID
	// Classes has one entry per op, aligned by index.
	Classes       []Classification
	RotationOrder math.RotationOrder
}

// Matched reports whether a schema accounted for every op. An empty op list
// trivially matches.
func (r Result) Matched() bool {
	return r.Schema != SchemaUnknown
}

// Match classifies ops against the known schemas in priority order: the
// host stack, then the common stack, then the matrix stack.
func Match(ops []scene.Op) Result {
	if len(ops) == 0 {
		return Result{Schema: SchemaFromHost, RotationOrder: math.RotateXYZ}
	}
	for _, s := range matchOrder {
		if classes, ok := s.Match(ops); ok {
			return Result{
				Schema:        s.id,
				Classes:       classes,
				RotationOrder: rotationOrder(ops, classes),
			}
		}
	}
	return Result{
		Schema:        SchemaUnknown,
		Classes:       make([]Classification, len(ops)),
		RotationOrder: math.RotateXYZ,
	}
}

// Match aligns ops with the schema entries in order. Every op must fill an
// entry at or after the previous op's entry, inverse twins must follow a
// forward op of the same attribute, and no forward twin may be left unpaired.
func (s *Schema) Match(ops []scene.Op) ([]Classification, bool) {
	classes := make([]Classification, len(ops))
	filled := make([]int, len(s.ops))
	for i := range filled {
		filled[i] = NoIndex
	}

	next := 0
	for i, op := range ops {
		role := RoleOf(op)
		if role == RoleNone {
			return nil, false
		}
		inverse := op.IsInverseOp()

		idx := NoIndex
		for j := next; j < len(s.ops); j++ {
			spec := s.ops[j]
			if spec.Role == role && spec.Inverted == inverse && spec.accepts(op.OpType()) {
				idx = j
				break
			}
		}
		if idx == NoIndex {
			return nil, false
		}

		if inverse {
			fwd, ok := s.twinOf(idx)
			if !ok || filled[fwd] == NoIndex {
				return nil, false
			}
			if ops[filled[fwd]].AttrName() != op.AttrName() {
				return nil, false
			}
		}

		filled[idx] = i
		classes[i] = s.ops[idx].Classification()
		next = idx + 1
	}

	for _, p := range s.twins {
		if (filled[p.Forward] == NoIndex) != (filled[p.Inverse] == NoIndex) {
			return nil, false
		}
	}
	return classes, true
}

func rotationOrder(ops []scene.Op, classes []Classification) math.RotationOrder {
	for i, c := range classes {
		if c.Role == RoleRotate && !c.Inverted {
			return ops[i].OpType().RotationOrder()
		}
	}
	return math.RotateXYZ
}
