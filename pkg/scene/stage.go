package scene

// Stage is an ordered collection of prims.
type Stage struct {
	StartTime float64
	EndTime   float64

	prims  []*Prim
	byPath map[string]*Prim
}

// NewStage returns an empty stage.
func NewStage() *Stage {
	return &Stage{byPath: make(map[string]*Prim)}
}

// DefinePrim returns the prim at path, creating it when missing.
func (s *Stage) DefinePrim(path string) *Prim {
	if p, ok := s.byPath[path]; ok {
		return p
	}
	p := newPrim(path)
	s.prims = append(s.prims, p)
	s.byPath[path] = p
	return p
}

// Prim returns the prim at path or nil.
func (s *Stage) Prim(path string) *Prim {
	return s.byPath[path]
}

// Prims returns the prims in definition order.
func (s *Stage) Prims() []*Prim {
	out := make([]*Prim, len(s.prims))
	copy(out, s.prims)
	return out
}
