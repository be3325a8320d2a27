// Package session handles stage loading and caching, and keeps one bound
// transform node per prim.
package session

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/xformsync/internal/binding"
	"github.com/Faultbox/xformsync/internal/logger"
	"github.com/Faultbox/xformsync/internal/transform"
	"github.com/Faultbox/xformsync/pkg/scene"
)

// Manager handles stage files and the nodes bound to their prims.
// It is safe for concurrent use; each node is serialized by its own lock.
type Manager struct {
	opts   []transform.Option
	stages map[string]*scene.Stage
	nodes  map[nodeKey]*Node
	mu     sync.RWMutex

	// Stats
	hits   int
	misses int
}

type nodeKey struct {
	stage string
	prim  string
}

// NewManager creates a manager whose nodes are built with opts.
func NewManager(opts ...transform.Option) *Manager {
	return &Manager{
		opts:   opts,
		stages: make(map[string]*scene.Stage),
		nodes:  make(map[nodeKey]*Node),
	}
}

// Stage returns the stage at path, loading it on first use.
func (m *Manager) Stage(path string) (*scene.Stage, error) {
	m.mu.RLock()
	s, ok := m.stages[path]
	m.mu.RUnlock()
	if ok {
		m.mu.Lock()
		m.hits++
		m.mu.Unlock()
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stages[path]; ok {
		m.hits++
		return s, nil
	}
	m.misses++

	s, err := scene.LoadStage(path)
	if err != nil {
		return nil, err
	}
	m.stages[path] = s
	logger.Named("session").Debug("loaded stage",
		zap.String("path", path),
		zap.Int("prims", len(s.Prims())))
	return s, nil
}

// Node returns the node bound to primPath in the stage at stagePath,
// binding it to a fresh in-memory host on first use.
func (m *Manager) Node(stagePath, primPath string) (*Node, error) {
	key := nodeKey{stage: stagePath, prim: primPath}

	m.mu.RLock()
	n, ok := m.nodes[key]
	m.mu.RUnlock()
	if ok {
		return n, nil
	}

	s, err := m.Stage(stagePath)
	if err != nil {
		return nil, err
	}
	prim := s.Prim(primPath)
	if prim == nil {
		return nil, fmt.Errorf("no prim %s in %s", primPath, stagePath)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.nodes[key]; ok {
		return n, nil
	}
	tn := binding.NewTransformNode(binding.NewMemoryHost(), m.opts...)
	if err := tn.Bind(prim, true); err != nil {
		return nil, fmt.Errorf("binding %s: %w", primPath, err)
	}
	n = &Node{prim: prim, node: tn}
	m.nodes[key] = n
	return n, nil
}

// Save writes the stage loaded from stagePath to out, or back to stagePath
// when out is empty. Every node bound to the stage is held for the duration
// of the write, so Save must not be called from inside Node.Do.
func (m *Manager) Save(stagePath, out string) error {
	m.mu.RLock()
	s, ok := m.stages[stagePath]
	nodes := m.stageNodes(stagePath)
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("stage %s not loaded", stagePath)
	}
	if out == "" {
		out = stagePath
	}

	// fixed order keeps concurrent saves of one stage from deadlocking
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].prim.Path() < nodes[j].prim.Path() })
	for _, n := range nodes {
		n.mu.Lock()
	}
	defer func() {
		for _, n := range nodes {
			n.mu.Unlock()
		}
	}()
	return s.Save(out)
}

// stageNodes returns the nodes bound to prims of stagePath. m.mu must be held.
func (m *Manager) stageNodes(stagePath string) []*Node {
	var nodes []*Node
	for key, n := range m.nodes {
		if key.stage == stagePath {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Close unbinds every node and drops all stages. Nodes are unbound after the
// manager lock is released, so callbacks running in Node.Do may still use
// the manager.
func (m *Manager) Close() {
	m.mu.Lock()
	nodes := m.nodes
	m.nodes = make(map[nodeKey]*Node)
	m.stages = make(map[string]*scene.Stage)
	m.hits = 0
	m.misses = 0
	m.mu.Unlock()

	for _, n := range nodes {
		n.Do(func(tn *binding.TransformNode) error {
			tn.Unbind()
			return nil
		})
	}
}

// Stats returns stage cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits, m.misses
}

// Node is a transform node guarded by a mutex.
type Node struct {
	prim *scene.Prim
	node *binding.TransformNode
	mu   sync.Mutex
}

// Prim returns the bound prim.
func (n *Node) Prim() *scene.Prim { return n.prim }

// Do runs fn with exclusive access to the node.
func (n *Node) Do(fn func(*binding.TransformNode) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return fn(n.node)
}
