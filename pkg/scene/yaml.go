package scene

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/x448/float16"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/xformsync/pkg/math"
)

// stageFile is the on-disk layout of a stage.
type stageFile struct {
	StartTime float64    `yaml:"start_time,omitempty"`
	EndTime   float64    `yaml:"end_time,omitempty"`
	Prims     []primFile `yaml:"prims"`
}

type primFile struct {
	Path         string          `yaml:"path"`
	Attributes   []attributeFile `yaml:"attributes,omitempty"`
	XformOpOrder []string        `yaml:"xform_op_order,omitempty"`
}

type attributeFile struct {
	Name        string       `yaml:"name"`
	Type        string       `yaml:"type"`
	Default     yaml.Node    `yaml:"default,omitempty"`
	TimeSamples []sampleFile `yaml:"time_samples,omitempty"`
}

type sampleFile struct {
	Time  float64   `yaml:"time"`
	Value yaml.Node `yaml:"value"`
}

// LoadStage reads a stage from a YAML file.
func LoadStage(path string) (*Stage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stage %s: %w", path, err)
	}
	s, err := ParseStage(data)
	if err != nil {
		return nil, fmt.Errorf("parsing stage %s: %w", path, err)
	}
	return s, nil
}

// ParseStage decodes a stage from YAML bytes.
func ParseStage(data []byte) (*Stage, error) {
	return ReadStage(bytes.NewReader(data))
}

// ReadStage decodes a stage from r.
func ReadStage(r io.Reader) (*Stage, error) {
	var f stageFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, err
	}

	s := NewStage()
	s.StartTime = f.StartTime
	s.EndTime = f.EndTime

	for _, pf := range f.Prims {
		p := s.DefinePrim(pf.Path)
		for _, af := range pf.Attributes {
			if err := decodeAttribute(p, af); err != nil {
				return nil, fmt.Errorf("prim %s: %w", pf.Path, err)
			}
		}
		if err := p.SetOpOrderTokens(pf.XformOpOrder); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func decodeAttribute(p *Prim, af attributeFile) error {
	vt, ok := ParseValueType(af.Type)
	if !ok {
		return fmt.Errorf("%w: %q for %s", ErrUnknownValueType, af.Type, af.Name)
	}
	attr, err := p.CreateAttribute(af.Name, vt)
	if err != nil {
		return err
	}
	if !af.Default.IsZero() {
		v, err := decodeValue(&af.Default, vt)
		if err != nil {
			return fmt.Errorf("%s default: %w", af.Name, err)
		}
		if err := attr.Set(v, DefaultTime()); err != nil {
			return err
		}
	}
	for _, sf := range af.TimeSamples {
		v, err := decodeValue(&sf.Value, vt)
		if err != nil {
			return fmt.Errorf("%s at %g: %w", af.Name, sf.Time, err)
		}
		if err := attr.Set(v, At(sf.Time)); err != nil {
			return err
		}
	}
	return nil
}

func decodeValue(n *yaml.Node, vt ValueType) (any, error) {
	switch {
	case vt.IsVector():
		var xs []float64
		if err := n.Decode(&xs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		if len(xs) != 3 {
			return nil, fmt.Errorf("%w: %s needs 3 components, got %d", ErrInvalidValue, vt, len(xs))
		}
		return vectorValue(vt, math.Vec3{X: xs[0], Y: xs[1], Z: xs[2]}), nil

	case vt.IsScalar():
		var x float64
		if err := n.Decode(&x); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return scalarValue(vt, x), nil

	case vt == Matrix4d:
		var rows [][]float64
		if err := n.Decode(&rows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		if len(rows) != 4 {
			return nil, fmt.Errorf("%w: matrix4d needs 4 rows, got %d", ErrInvalidValue, len(rows))
		}
		var m math.Mat4
		for i, row := range rows {
			if len(row) != 4 {
				return nil, fmt.Errorf("%w: matrix4d row %d has %d columns", ErrInvalidValue, i, len(row))
			}
			copy(m[i][:], row)
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownValueType, vt)
}

func vectorValue(vt ValueType, v math.Vec3) any {
	switch vt {
	case Float3:
		return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
	case Half3:
		return [3]float16.Float16{
			float16.Fromfloat32(float32(v.X)),
			float16.Fromfloat32(float32(v.Y)),
			float16.Fromfloat32(float32(v.Z)),
		}
	case Int3:
		return [3]int32{int32(v.X), int32(v.Y), int32(v.Z)}
	default:
		return v.Array()
	}
}

func scalarValue(vt ValueType, x float64) any {
	switch vt {
	case Float:
		return float32(x)
	case Half:
		return float16.Fromfloat32(float32(x))
	case Int:
		return int32(x)
	default:
		return x
	}
}

// Save writes the stage to a YAML file.
func (s *Stage) Save(path string) error {
	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing stage %s: %w", path, err)
	}
	return nil
}

// Write encodes the stage as YAML to w.
func (s *Stage) Write(w io.Writer) error {
	f := stageFile{StartTime: s.StartTime, EndTime: s.EndTime}
	for _, p := range s.prims {
		pf := primFile{Path: p.path, XformOpOrder: p.OpOrder()}
		for _, a := range p.Attributes() {
			af := attributeFile{Name: a.name, Type: a.typ.String()}
			if a.def != nil {
				n, err := encodeValue(a.def)
				if err != nil {
					return fmt.Errorf("encoding %s%s: %w", p.path, a.name, err)
				}
				af.Default = *n
			}
			for _, smp := range a.samples {
				n, err := encodeValue(smp.Value)
				if err != nil {
					return fmt.Errorf("encoding %s%s: %w", p.path, a.name, err)
				}
				af.TimeSamples = append(af.TimeSamples, sampleFile{Time: smp.Time, Value: *n})
			}
			pf.Attributes = append(pf.Attributes, af)
		}
		f.Prims = append(f.Prims, pf)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return err
	}
	return enc.Close()
}

// encodeValue renders vectors and matrix rows in flow style.
func encodeValue(v any) (*yaml.Node, error) {
	var plain any
	switch x := v.(type) {
	case math.Mat4:
		rows := make([][]float64, 4)
		for i := range rows {
			rows[i] = x[i][:]
		}
		plain = rows
	default:
		if vec, ok := vec3Of(v); ok {
			if iv, isInt := v.([3]int32); isInt {
				plain = iv[:]
			} else {
				plain = []float64{vec.X, vec.Y, vec.Z}
			}
		} else if f, ok := scalarOf(v); ok {
			if iv, isInt := v.(int32); isInt {
				plain = iv
			} else {
				plain = f
			}
		} else {
			return nil, fmt.Errorf("%w: %T", ErrUnknownValueType, v)
		}
	}

	var n yaml.Node
	if err := n.Encode(plain); err != nil {
		return nil, err
	}
	n.Style = yaml.FlowStyle
	for _, c := range n.Content {
		c.Style = yaml.FlowStyle
	}
	return &n, nil
}
