package opengl

import (
	"fmt"

	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/renderer"
	"github.com/spaghettifunk/rx-engine/engine/renderer/metadata"
	"github.com/spaghettifunk/rx-engine/engine/renderer/opengl/gl"
)

type CommandBufferState uint8

const (
	// No pipeline prepared yet: only clears can be recorded.
	COMMAND_BUFFER_STATE_NO_PIPELINE CommandBufferState = iota
	// A pipeline is prepared: binds and draws target it.
	COMMAND_BUFFER_STATE_PIPELINE_ACTIVE
	// Consumed by Execute.
	COMMAND_BUFFER_STATE_EXECUTED
)

// command is the closed set of operations a CommandBuffer records.
type command interface {
	isCommand()
}

type (
	preparePipelineCmd struct {
		pipeline *Pipeline
	}
	bindVertexBufferCmd struct {
		binding uint32
		buffer  *Buffer
	}
	bindIndexBufferCmd struct {
		buffer *Buffer
	}
	bindDescriptorSetCmd struct {
		bindings []uint32
	}
	drawIndexedCmd struct {
		count  uint32
		offset uint32
	}
	drawIndexedInstancedCmd struct {
		count     uint32
		offset    uint32
		instances uint32
	}
	clearScreenCmd struct {
		color metadata.Color
	}
)

func (preparePipelineCmd) isCommand()      {}
func (bindVertexBufferCmd) isCommand()     {}
func (bindIndexBufferCmd) isCommand()      {}
func (bindDescriptorSetCmd) isCommand()    {}
func (drawIndexedCmd) isCommand()          {}
func (drawIndexedInstancedCmd) isCommand() {}
func (clearScreenCmd) isCommand()          {}

/**
 * @brief Records commands without touching the context. Execute replays them
 * in order and consumes the buffer.
 */
type CommandBuffer struct {
	label    string
	state    CommandBufferState
	active   *Pipeline
	commands []command
}

func newCommandBuffer(label string) *CommandBuffer {
	return &CommandBuffer{
		label: label,
		state: COMMAND_BUFFER_STATE_NO_PIPELINE,
	}
}

func (cb *CommandBuffer) State() CommandBufferState {
	return cb.state
}

func (cb *CommandBuffer) Len() int {
	return len(cb.commands)
}

// requirePipeline guards every bind and draw.
func (cb *CommandBuffer) requirePipeline() error {
	switch cb.state {
	case COMMAND_BUFFER_STATE_EXECUTED:
		return core.ErrCommandBufferExecuted
	case COMMAND_BUFFER_STATE_NO_PIPELINE:
		return core.ErrNoPipeline
	}
	return nil
}

func (cb *CommandBuffer) PreparePipeline(pipeline renderer.Pipeline) error {
	if cb.state == COMMAND_BUFFER_STATE_EXECUTED {
		return core.ErrCommandBufferExecuted
	}
	p, ok := pipeline.(*Pipeline)
	if !ok || p == nil {
		return fmt.Errorf("prepare pipeline: %w", core.ErrWrongBackend)
	}
	if p.released {
		return fmt.Errorf("prepare pipeline: %w", core.ErrResourceReleased)
	}
	cb.commands = append(cb.commands, preparePipelineCmd{pipeline: p})
	cb.active = p
	cb.state = COMMAND_BUFFER_STATE_PIPELINE_ACTIVE
	return nil
}

func (cb *CommandBuffer) BindVertexBuffer(binding uint32, buffer renderer.Buffer) error {
	if err := cb.requirePipeline(); err != nil {
		return err
	}
	b, err := asBuffer(buffer)
	if err != nil {
		return err
	}
	if b.usage != metadata.UsageVertex {
		return fmt.Errorf("%w: %s buffer bound as vertex buffer", core.ErrInvalidDescriptor, b.usage)
	}
	if !cb.active.hasBinding(binding) {
		return fmt.Errorf("%w: vertex binding %d is not part of the prepared pipeline", core.ErrInvalidDescriptor, binding)
	}
	cb.commands = append(cb.commands, bindVertexBufferCmd{binding: binding, buffer: b})
	return nil
}

func (cb *CommandBuffer) BindIndexBuffer(buffer renderer.Buffer) error {
	if err := cb.requirePipeline(); err != nil {
		return err
	}
	b, err := asBuffer(buffer)
	if err != nil {
		return err
	}
	if b.usage != metadata.UsageIndex {
		return fmt.Errorf("%w: %s buffer bound as index buffer", core.ErrInvalidDescriptor, b.usage)
	}
	cb.commands = append(cb.commands, bindIndexBufferCmd{buffer: b})
	return nil
}

// BindDescriptorSet records the bindings declared by layout. They are
// resolved against the pipeline prepared at execution time.
func (cb *CommandBuffer) BindDescriptorSet(layout renderer.PipelineLayout, set renderer.DescriptorSet) error {
	if err := cb.requirePipeline(); err != nil {
		return err
	}
	pl, ok := layout.(*PipelineLayout)
	if !ok || pl == nil {
		return fmt.Errorf("bind descriptor set layout: %w", core.ErrWrongBackend)
	}
	if ds, ok := set.(*DescriptorSet); !ok || ds == nil {
		return fmt.Errorf("bind descriptor set: %w", core.ErrWrongBackend)
	}
	cb.commands = append(cb.commands, bindDescriptorSetCmd{bindings: pl.Bindings()})
	return nil
}

func (cb *CommandBuffer) DrawIndexed(count, offset, instances uint32) error {
	if err := cb.requirePipeline(); err != nil {
		return err
	}
	if instances > 1 {
		cb.commands = append(cb.commands, drawIndexedInstancedCmd{count: count, offset: offset, instances: instances})
	} else {
		cb.commands = append(cb.commands, drawIndexedCmd{count: count, offset: offset})
	}
	return nil
}

func (cb *CommandBuffer) ClearScreen(color metadata.Color) error {
	if cb.state == COMMAND_BUFFER_STATE_EXECUTED {
		return core.ErrCommandBufferExecuted
	}
	cb.commands = append(cb.commands, clearScreenCmd{color: color})
	return nil
}

// execute replays the recorded commands. The buffer is consumed even when a
// command fails.
func (cb *CommandBuffer) execute(f gl.Functions, state *contextState) error {
	if cb.state == COMMAND_BUFFER_STATE_EXECUTED {
		return core.ErrCommandBufferExecuted
	}
	cmds := cb.commands
	cb.commands = nil
	cb.active = nil
	cb.state = COMMAND_BUFFER_STATE_EXECUTED

	var pipeline *Pipeline
	for i, cmd := range cmds {
		switch c := cmd.(type) {
		case preparePipelineCmd:
			if c.pipeline.released {
				return fmt.Errorf("command %d: pipeline: %w", i, core.ErrResourceReleased)
			}
			pipeline = c.pipeline
			pipeline.prepare()
		case bindVertexBufferCmd:
			if c.buffer.released {
				return fmt.Errorf("command %d: vertex buffer: %w", i, core.ErrResourceReleased)
			}
			if err := pipeline.bindVertex(c.binding, c.buffer); err != nil {
				return fmt.Errorf("command %d: %w", i, err)
			}
		case bindIndexBufferCmd:
			if c.buffer.released {
				return fmt.Errorf("command %d: index buffer: %w", i, core.ErrResourceReleased)
			}
			pipeline.bindIndex(c.buffer)
		case bindDescriptorSetCmd:
			pipeline.bindDescriptors(c.bindings)
		case drawIndexedCmd:
			pipeline.drawIndexed(c.count, c.offset)
		case drawIndexedInstancedCmd:
			pipeline.drawIndexedInstanced(c.count, c.offset, c.instances)
		case clearScreenCmd:
			f.ClearColor(c.color.R, c.color.G, c.color.B, c.color.A)
			f.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
			state.clearColor = c.color
		default:
			panic(fmt.Sprintf("unknown command %T", cmd))
		}
	}
	return nil
}
