package binding

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/xformsync/internal/codec"
	"github.com/Faultbox/xformsync/internal/logger"
	"github.com/Faultbox/xformsync/internal/transform"
	"github.com/Faultbox/xformsync/pkg/math"
	"github.com/Faultbox/xformsync/pkg/scene"
	"github.com/Faultbox/xformsync/pkg/xformstack"
)

var (
	// ErrRotateOrder is returned for a host rotate order outside the known
	// orders.
	ErrRotateOrder = errors.New("invalid rotate order")
	// ErrExportWrite is returned when an exported op cannot store its value.
	ErrExportWrite = errors.New("could not write exported op")
)

// ExportTransform replaces the op order of prim with a host-order stack
// built from the host values at time t. Only components that differ from
// their defaults get ops. Pivots are written with their inverse twins.
// Existing op attributes keep their precision; new ones use precision.
func ExportTransform(h Host, prim *scene.Prim, t scene.TimeCode, precision scene.Precision) error {
	order := math.RotationOrder(h.Int(AttrRotateOrder))
	if !order.Valid() {
		return fmt.Errorf("%w: %d", ErrRotateOrder, int(order))
	}

	values := make(map[transform.Component]math.Vec3, len(transform.Components))
	for _, c := range transform.Components {
		values[c] = ReadComponent(h, c)
	}

	prim.ClearOpOrder()
	prim.SetResetXformStack(!h.Bool(AttrInheritsTransform))

	for _, spec := range xformstack.MayaStack().Ops() {
		class := spec.Classification()
		c, ok := componentOf(class.Role)
		if !ok || isDefault(c, values[c]) {
			continue
		}

		typ := class.Role.OpType()
		if class.Role == xformstack.RoleRotate {
			typ = scene.RotateOpType(order)
		}
		p := precision
		if a := prim.Attribute(scene.OpName(typ, class.Role.Suffix())); a != nil {
			if ap, ok := a.TypeName().Precision(); ok {
				p = ap
			}
		}
		op, err := prim.AddOp(typ, p, class.Role.Suffix(), class.Inverted)
		if err != nil {
			return fmt.Errorf("export %s: %w", prim.Path(), err)
		}
		if class.Inverted {
			continue
		}
		if !writeExported(op, c, values[c], order, t) {
			return fmt.Errorf("%w: %s on %s", ErrExportWrite, op.Name(), prim.Path())
		}
	}

	logger.Named("binding").Debug("exported transform",
		zap.String("prim", prim.Path()),
		zap.Strings("order", prim.OpOrder()))
	return nil
}

func writeExported(op scene.Op, c transform.Component, v math.Vec3, order math.RotationOrder, t scene.TimeCode) bool {
	switch c {
	case transform.Rotate:
		return codec.WriteRotation(op, math.EulerFromVec3(v, order), t)
	case transform.RotateOrientation:
		return codec.WriteRotation(op, math.EulerFromVec3(v, math.RotateXYZ), t)
	case transform.Shear:
		return codec.WriteShear(op, v, t)
	case transform.Translate, transform.Scale:
		return codec.WriteVector(op, v, t)
	default:
		return codec.WritePoint(op, v, t)
	}
}

func componentOf(r xformstack.Role) (transform.Component, bool) {
	for _, c := range transform.Components {
		if c.Role() == r {
			return c, true
		}
	}
	return transform.Translate, false
}

func isDefault(c transform.Component, v math.Vec3) bool {
	const eps = 1e-9
	if c == transform.Scale {
		return v.ApproxEqual(math.One3(), eps)
	}
	return v.ApproxEqual(math.Vec3{}, eps)
}
