package render

import (
	"slices"
	"sort"
)

// Priority determines pass order within a refresh. Lower values run first
type Priority int

const (
	PriorityLevels Priority = iota * 10
	PriorityGrid
	PrioritySeparator
	PriorityJunction
	PriorityDebug
)

// Pass is one stage of building a frame
type Pass interface {
	Name() string
	Run(f *Frame)
}

// Toggle is optionally implemented by passes that can be skipped for a refresh
type Toggle interface {
	Enabled() bool
}

type stage struct {
	pass     Pass
	priority Priority
	seq      int
}

// before orders stages by priority, then by registration
func (s stage) before(o stage) bool {
	if s.priority != o.priority {
		return s.priority < o.priority
	}
	return s.seq < o.seq
}

// Pipeline runs registered passes in priority order
type Pipeline struct {
	stages []stage
	next   int
}

// NewPipeline creates an empty pipeline
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Register adds a pass at priority; passes sharing a priority run in registration order
func (p *Pipeline) Register(pass Pass, priority Priority) {
	s := stage{pass: pass, priority: priority, seq: p.next}
	p.next++
	i := sort.Search(len(p.stages), func(i int) bool { return s.before(p.stages[i]) })
	p.stages = slices.Insert(p.stages, i, s)
}

// Names lists passes in execution order
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.pass.Name()
	}
	return names
}

// Execute runs every enabled pass against f
func (p *Pipeline) Execute(f *Frame) {
	for _, s := range p.stages {
		if t, ok := s.pass.(Toggle); ok && !t.Enabled() {
			continue
		}
		s.pass.Run(f)
	}
}
