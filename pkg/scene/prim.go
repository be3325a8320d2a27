package scene

import (
	"fmt"

	"github.com/Faultbox/xformsync/pkg/math"
)

// Prim is a transformable scene object.
type Prim struct {
	path      string
	attrs     map[string]*Attribute
	attrOrder []string
	opOrder   []string
}

func newPrim(path string) *Prim {
	return &Prim{path: path, attrs: make(map[string]*Attribute)}
}

// Path returns the prim path.
func (p *Prim) Path() string { return p.path }

// Attribute returns the named attribute or nil.
func (p *Prim) Attribute(name string) *Attribute { return p.attrs[name] }

// Attributes returns the attributes in creation order.
func (p *Prim) Attributes() []*Attribute {
	out := make([]*Attribute, 0, len(p.attrOrder))
	for _, name := range p.attrOrder {
		out = append(out, p.attrs[name])
	}
	return out
}

// CreateAttribute returns the named attribute, creating it when missing.
func (p *Prim) CreateAttribute(name string, typ ValueType) (*Attribute, error) {
	if a, ok := p.attrs[name]; ok {
		if a.typ != typ {
			return nil, fmt.Errorf("%w: %s is %s, not %s", ErrTypeConflict, name, a.typ, typ)
		}
		return a, nil
	}
	a := NewAttribute(name, typ)
	p.attrs[name] = a
	p.attrOrder = append(p.attrOrder, name)
	return a, nil
}

// OpOrder returns the raw op-order tokens.
func (p *Prim) OpOrder() []string {
	out := make([]string, len(p.opOrder))
	copy(out, p.opOrder)
	return out
}

// SetOpOrderTokens replaces the op order with raw tokens. Tokens must name
// existing op attributes.
func (p *Prim) SetOpOrderTokens(tokens []string) error {
	for _, tok := range tokens {
		if tok == ResetXformStackToken {
			continue
		}
		name, _ := splitToken(tok)
		if _, ok := p.attrs[name]; !ok {
			return fmt.Errorf("%w: %s on %s", ErrUnknownOp, tok, p.path)
		}
		if _, _, _, err := ParseOpName(name); err != nil {
			return err
		}
	}
	p.opOrder = append([]string(nil), tokens...)
	return nil
}

// OrderedOps returns the ops in evaluation-list order and whether the prim
// resets the inherited transform stack. Ops before a reset token are dropped.
func (p *Prim) OrderedOps() ([]Op, bool) {
	var ops []Op
	resets := false
	for _, tok := range p.opOrder {
		if tok == ResetXformStackToken {
			resets = true
			ops = ops[:0]
			continue
		}
		name, inverse := splitToken(tok)
		attr, ok := p.attrs[name]
		if !ok {
			continue
		}
		op, err := newOp(attr, inverse)
		if err != nil {
			continue
		}
		ops = append(ops, op)
	}
	return ops, resets
}

// GetOp returns the op with the given attribute name, whether or not it is
// in the op order.
func (p *Prim) GetOp(name string, inverse bool) (Op, bool) {
	attr, ok := p.attrs[name]
	if !ok {
		return Op{}, false
	}
	op, err := newOp(attr, inverse)
	return op, err == nil
}

// AddOp appends a new op to the op order, creating its attribute when
// needed. An inverse op reuses the attribute of the forward op.
func (p *Prim) AddOp(t OpType, precision Precision, suffix string, inverse bool) (Op, error) {
	if t == OpTypeInvalid {
		return Op{}, fmt.Errorf("%w: invalid op type", ErrInvalidOp)
	}
	name := OpName(t, suffix)
	token := name
	if inverse {
		token = InvertPrefix + name
	}
	for _, existing := range p.opOrder {
		if existing == token {
			return Op{}, fmt.Errorf("%w: %s on %s", ErrDuplicateOp, token, p.path)
		}
	}

	attr, err := p.CreateAttribute(name, ValueTypeFor(t, precision))
	if err != nil {
		return Op{}, err
	}
	p.opOrder = append(p.opOrder, token)
	return Op{attr: attr, opType: t, suffix: suffix, inverse: inverse}, nil
}

// SetOpOrder replaces the op order with ops, keeping attributes.
func (p *Prim) SetOpOrder(ops []Op, resetsXformStack bool) {
	order := make([]string, 0, len(ops)+1)
	if resetsXformStack {
		order = append(order, ResetXformStackToken)
	}
	for _, op := range ops {
		order = append(order, op.Name())
	}
	p.opOrder = order
}

// ClearOpOrder empties the op order. Attributes are kept.
func (p *Prim) ClearOpOrder() {
	p.opOrder = nil
}

// ResetsXformStack reports whether the op order starts with the reset token.
func (p *Prim) ResetsXformStack() bool {
	_, resets := p.OrderedOps()
	return resets
}

// SetResetXformStack adds or removes the reset token.
func (p *Prim) SetResetXformStack(reset bool) {
	ops, resets := p.OrderedOps()
	if resets == reset {
		return
	}
	p.SetOpOrder(ops, reset)
}

// LocalTransformation composes the ordered ops at t. The last op in the order
// is applied first.
func (p *Prim) LocalTransformation(t TimeCode) (math.Mat4, error) {
	ops, _ := p.OrderedOps()
	result := math.Identity()
	for i := len(ops) - 1; i >= 0; i-- {
		m, ok := ops[i].Matrix(t)
		if !ok {
			return math.Identity(), fmt.Errorf("%w: cannot evaluate %s on %s", ErrInvalidValue, ops[i].Name(), p.path)
		}
		result = result.Mul(m)
	}
	return result, nil
}

// MightBeTimeVarying reports whether any ordered op has more than one sample.
func (p *Prim) MightBeTimeVarying() bool {
	ops, _ := p.OrderedOps()
	for _, op := range ops {
		if op.NumTimeSamples() > 1 {
			return true
		}
	}
	return false
}
