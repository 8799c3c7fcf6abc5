package agent

import (
	"fmt"

	"github.com/postwright/postwright/core"
)

// SequentialAgent coordinates the execution of multiple child agents in
// order. Each child receives the same RunContext, so session state and
// artifacts accumulate across steps and later agents can build on earlier
// outputs. Execution stops at the first error.
type SequentialAgent struct {
	BaseAgent
	children []core.Agent
}

// NewSequentialAgent creates a new sequential execution coordinator.
func NewSequentialAgent(name string, children ...core.Agent) *SequentialAgent {
	s := &SequentialAgent{
		BaseAgent: NewBaseAgent(name),
		children:  children,
	}
	s.BindSelf(s)
	_ = s.SetSubAgents(children...)
	return s
}

// Run implements core.Agent. It executes each child agent in the supplied
// order; errors stop further processing immediately.
func (s *SequentialAgent) Run(rc *core.RunContext) error {
	for _, child := range s.children {
		if err := rc.Err(); err != nil {
			return err
		}
		if err := child.Run(rc); err != nil {
			return fmt.Errorf("sequential execution failed at agent %s: %w", child.Name(), err)
		}
	}
	return nil
}
