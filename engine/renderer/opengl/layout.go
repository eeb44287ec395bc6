package opengl

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/renderer"
	"github.com/spaghettifunk/rx-engine/engine/renderer/metadata"
)

type DescriptorSetLayout struct {
	bindings  []metadata.DescriptorSetLayoutBinding
	byBinding map[uint32]metadata.DescriptorType
}

func newDescriptorSetLayout(bindings []metadata.DescriptorSetLayoutBinding) (*DescriptorSetLayout, error) {
	l := &DescriptorSetLayout{
		bindings:  slices.Clone(bindings),
		byBinding: make(map[uint32]metadata.DescriptorType, len(bindings)),
	}
	for _, b := range bindings {
		if _, ok := l.byBinding[b.Binding]; ok {
			return nil, fmt.Errorf("%w: binding %d declared twice in descriptor set layout", core.ErrInvalidDescriptor, b.Binding)
		}
		l.byBinding[b.Binding] = b.Type
	}
	return l, nil
}

func (l *DescriptorSetLayout) Bindings() []metadata.DescriptorSetLayoutBinding {
	return slices.Clone(l.bindings)
}

type layoutEntry struct {
	binding metadata.DescriptorSetLayoutBinding
	// name resolves the binding by uniform name; empty means the binding
	// number is used as the uniform block index.
	name string
}

// PipelineLayout maps each descriptor binding to its optional name hint.
type PipelineLayout struct {
	entries map[uint32]layoutEntry
	order   []uint32
}

func newPipelineLayout(dsl *DescriptorSetLayout, hints []metadata.PipelineLayoutHint) (*PipelineLayout, error) {
	pl := &PipelineLayout{
		entries: make(map[uint32]layoutEntry, len(dsl.bindings)),
		order:   make([]uint32, 0, len(dsl.bindings)),
	}
	for _, b := range dsl.bindings {
		pl.entries[b.Binding] = layoutEntry{binding: b}
		pl.order = append(pl.order, b.Binding)
	}
	slices.Sort(pl.order)

	for _, h := range hints {
		e, ok := pl.entries[h.Location]
		if !ok {
			return nil, fmt.Errorf("%w: location %d (%q)", core.ErrUnknownLayoutBinding, h.Location, h.Name)
		}
		e.name = h.Name
		pl.entries[h.Location] = e
	}
	return pl, nil
}

func (pl *PipelineLayout) Bindings() []uint32 {
	return slices.Clone(pl.order)
}

// DescriptorSet remembers the resources written to each of its bindings.
type DescriptorSet struct {
	layout  *DescriptorSetLayout
	buffers map[uint32]*Buffer
	images  map[uint32]*Image
}

func newDescriptorSet(layout *DescriptorSetLayout) *DescriptorSet {
	return &DescriptorSet{
		layout:  layout,
		buffers: make(map[uint32]*Buffer),
		images:  make(map[uint32]*Image),
	}
}

func (ds *DescriptorSet) Layout() renderer.DescriptorSetLayout {
	return ds.layout
}
