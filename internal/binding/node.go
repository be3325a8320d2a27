package binding

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/xformsync/internal/logger"
	"github.com/Faultbox/xformsync/internal/transform"
	"github.com/Faultbox/xformsync/pkg/math"
	"github.com/Faultbox/xformsync/pkg/scene"
)

// TransformNode drives one engine from one host node. Host edits are
// forwarded through ComponentChanged; values read from the prim are written
// back into the host attributes.
type TransformNode struct {
	host   Host
	engine *transform.TransformationMatrix
}

// NewTransformNode returns a node for host. The host is the engine's change
// notifier; opts are applied after it.
func NewTransformNode(host Host, opts ...transform.Option) *TransformNode {
	opts = append([]transform.Option{transform.WithNotifier(host)}, opts...)
	return &TransformNode{host: host, engine: transform.New(opts...)}
}

// Engine returns the underlying engine.
func (n *TransformNode) Engine() *transform.TransformationMatrix { return n.engine }

// Host returns the bound host.
func (n *TransformNode) Host() Host { return n.host }

// Bind attaches prim, mirroring its values into the host when readFromPrim
// is set. A nil prim unbinds.
func (n *TransformNode) Bind(prim *scene.Prim, readFromPrim bool) error {
	n.syncLocks()
	if prim == nil {
		n.Unbind()
		return nil
	}
	if err := n.engine.SetPrim(prim, readFromPrim, n); err != nil {
		return err
	}
	n.host.SetBool(AttrInheritsTransform, n.engine.InheritsTransform())
	n.host.SetInt(AttrRotateOrder, int(n.engine.Values().Rotation.Order))
	n.log().Debug("bound transform node",
		zap.String("prim", prim.Path()),
		zap.Stringer("schema", n.engine.Schema()))
	return nil
}

// Unbind detaches the prim. Host attributes keep their values.
func (n *TransformNode) Unbind() {
	n.engine.Reset()
}

// SetHostValue writes a value read from the prim into the host.
func (n *TransformNode) SetHostValue(c transform.Component, v math.Vec3) {
	WriteComponent(n.host, c, v)
}

// ComponentChanged forwards a host edit of c to the engine. A failed edit is
// logged and returned; the host keeps the edited value.
func (n *TransformNode) ComponentChanged(c transform.Component) error {
	n.syncLocks()
	v := ReadComponent(n.host, c)
	if err := n.engine.SetComponent(c, v); err != nil {
		n.log().Warn("host edit not applied",
			zap.Stringer("component", c),
			zap.Error(err))
		return err
	}
	return nil
}

// RotationOrderChanged handles an edit of the host rotate order. The order
// is fixed by the prim, so the host value is restored.
func (n *TransformNode) RotationOrderChanged() error {
	want := math.RotationOrder(n.host.Int(AttrRotateOrder))
	cur := n.engine.Values().Rotation.Order
	if want == cur {
		return nil
	}
	err := n.engine.SetRotationOrder(want)
	n.host.SetInt(AttrRotateOrder, int(cur))
	if err != nil {
		n.log().Warn("rotate order not changed",
			zap.Stringer("requested", want),
			zap.Stringer("order", cur),
			zap.Error(err))
	}
	return err
}

// UpdateToTime advances the engine and refreshes the host attributes of
// animated components.
func (n *TransformNode) UpdateToTime(t scene.TimeCode) error {
	if err := n.engine.AdvanceTime(t); err != nil {
		return fmt.Errorf("update to %v: %w", t, err)
	}
	values := n.engine.Values()
	for _, c := range transform.Components {
		if n.engine.IsAnimated(c) {
			WriteComponent(n.host, c, transform.Vec3(values, c))
		}
	}
	return nil
}

// Matrix returns the composed local matrix.
func (n *TransformNode) Matrix() math.Mat4 {
	return n.engine.AsMatrix()
}

func (n *TransformNode) syncLocks() {
	for _, c := range []transform.Component{transform.Translate, transform.Rotate, transform.Scale} {
		n.engine.SetLocked(c, ComponentLocked(n.host, c))
	}
}

func (n *TransformNode) log() *zap.Logger {
	return logger.Named("binding")
}
