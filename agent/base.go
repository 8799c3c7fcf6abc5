package agent

import (
	"fmt"
	"sync"

	"github.com/postwright/postwright/core"
)

// BaseAgent bundles shared identity and hierarchy management. Embed it in
// concrete agent implementations and supply a Run method to satisfy the
// core.Agent interface. All exported methods are goroutine-safe.
type BaseAgent struct {
	name        string
	description string
	mu          sync.Mutex
	self        core.Agent
	parent      core.Agent
	subAgents   []core.Agent
}

// NewBaseAgent constructs a BaseAgent with a generated description
// (customizable via SetDescription).
func NewBaseAgent(name string) BaseAgent {
	return BaseAgent{
		name:        name,
		description: fmt.Sprintf("Agent %s", name),
	}
}

// BindSelf registers the concrete agent embedding this BaseAgent. Hierarchy
// methods (SetSubAgents, FindAgent, Root) hand out this reference so lookups
// resolve to the executable agent, never the embedded base. Constructors must
// call it before wiring sub-agents.
func (b *BaseAgent) BindSelf(self core.Agent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.self = self
}

// Name returns the human-readable name for this agent.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a detailed description of this agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// SetDescription updates the agent's description.
func (b *BaseAgent) SetDescription(desc string) { b.description = desc }

// owner returns the bound concrete agent.
func (b *BaseAgent) owner() core.Agent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.self
}

// SetSubAgents atomically replaces the child agent set, clearing any previous
// parent links then assigning this agent as the parent of each new child. It
// enforces a single-parent invariant for all managed children.
func (b *BaseAgent) SetSubAgents(children ...core.Agent) error {
	self := b.owner()
	if self == nil && len(children) > 0 {
		return fmt.Errorf("agent %s has no bound self; call BindSelf before SetSubAgents", b.name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, child := range b.subAgents {
		if setter, ok := child.(interface{ setParent(core.Agent) }); ok {
			setter.setParent(nil)
		}
	}
	b.subAgents = nil

	for _, child := range children {
		if setter, ok := child.(interface{ setParent(core.Agent) }); ok {
			setter.setParent(self)
		}
		b.subAgents = append(b.subAgents, child)
	}

	return nil
}

// setParent sets the internal parent reference.
func (b *BaseAgent) setParent(p core.Agent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.parent = p
}

// Parent returns the current parent agent or nil if this agent is root.
func (b *BaseAgent) Parent() core.Agent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.parent
}

// SubAgents returns a shallow copy of current child agents for safe iteration.
func (b *BaseAgent) SubAgents() []core.Agent {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make([]core.Agent, len(b.subAgents))
	copy(result, b.subAgents)
	return result
}

// FindAgent performs a depth-first search over the subtree rooted at this
// agent (including itself) returning the first agent whose Name matches.
// Returns nil if no match is found.
func (b *BaseAgent) FindAgent(name string) core.Agent {
	if b.name == name {
		return b.owner()
	}
	for _, child := range b.SubAgents() {
		if child.Name() == name {
			return child
		}
		if found := child.FindAgent(name); found != nil {
			return found
		}
	}
	return nil
}

// Root walks parent links to the top of the hierarchy. Transfer targets are
// resolved from the root so sibling branches are reachable.
func (b *BaseAgent) Root() core.Agent {
	current := b.owner()
	if current == nil {
		return nil
	}
	for {
		parented, ok := current.(interface{ Parent() core.Agent })
		if !ok {
			return current
		}
		parent := parented.Parent()
		if parent == nil {
			return current
		}
		current = parent
	}
}
