package agent

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/postwright/postwright/core"
	"github.com/postwright/postwright/model"
	"github.com/postwright/postwright/tool"
)

func boolPtr(b bool) *bool { return &b }

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	Instruction        Instruction
	EnableStreaming    bool
	ToolTimeout        time.Duration
	OutputKey          string
	MaxHistoryMessages int
	AllowTransfer      bool
	Tools              []tool.Tool
}

// ModelAgent integrates with language models to provide conversational
// behavior with function calling and delegation to sub-agents.
//
// During Run it repeatedly builds a request from instructions plus the
// session's conversation history, streams model output as events, executes
// any requested tools in call order and feeds their responses back for the
// next model turn, until a final response is produced or control is
// transferred to another agent.
type ModelAgent struct {
	BaseAgent
	llm                model.Model
	instruction        Instruction
	tools              map[string]tool.Tool
	transferTool       tool.Tool
	enableStreaming    bool
	toolTimeout        time.Duration
	outputKey          string
	maxHistoryMessages int
	allowTransfer      bool
}

// NewModelAgent creates a new model-based agent with sensible defaults:
// streaming enabled, 15s tool timeout, 20-message history window and
// transfer to sub-agents allowed.
func NewModelAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		Instruction:        NewInstructionFromText(fmt.Sprintf("You are %s, a helpful AI assistant.", name)),
		EnableStreaming:    true,
		ToolTimeout:        15 * time.Second,
		MaxHistoryMessages: 20,
		AllowTransfer:      true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &ModelAgent{
		BaseAgent:          NewBaseAgent(name),
		llm:                llm,
		instruction:        opts.Instruction,
		tools:              map[string]tool.Tool{},
		transferTool:       tool.NewTransferToAgentTool(),
		enableStreaming:    opts.EnableStreaming,
		toolTimeout:        opts.ToolTimeout,
		outputKey:          opts.OutputKey,
		maxHistoryMessages: opts.MaxHistoryMessages,
		allowTransfer:      opts.AllowTransfer,
	}
	a.BindSelf(a)
	a.RegisterTools(opts.Tools...)
	return a
}

// RegisterTool adds a function tool to the agent's capability set.
func (a *ModelAgent) RegisterTool(t tool.Tool) { a.tools[t.Name()] = t }

// RegisterTools adds multiple tools to the agent's capability set.
func (a *ModelAgent) RegisterTools(tools ...tool.Tool) {
	for _, t := range tools {
		a.RegisterTool(t)
	}
}

// HasTool checks if a tool is registered with the agent.
func (a *ModelAgent) HasTool(name string) bool {
	_, exists := a.tools[name]
	return exists
}

// ListTools returns the names of all registered tools.
func (a *ModelAgent) ListTools() []string {
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}
	return names
}

// OutputKey returns the session state key the final response is saved under.
func (a *ModelAgent) OutputKey() string { return a.outputKey }

// Run implements core.Agent. It drives model turns until a final response is
// emitted, a transfer is requested, or an error occurs.
func (a *ModelAgent) Run(rc *core.RunContext) error {
	rc.LogDebug("agent.run.start", "agent", a.Name(), "invocation", rc.InvocationID)

	for {
		if err := rc.Err(); err != nil {
			return err
		}

		// Reload the session so this turn sees tool responses and events
		// persisted since the last one.
		if err := rc.RefreshSession(); err != nil {
			return fmt.Errorf("refresh session: %w", err)
		}

		req, err := a.buildRequest(rc)
		if err != nil {
			return err
		}

		if rc.Limiter != nil {
			if err := rc.Limiter.Increment(); err != nil {
				return fmt.Errorf("model call budget exhausted for agent %s: %w", a.Name(), err)
			}
		}

		respCh, errCh := a.llm.Generate(rc.Context, req)

		last, transferTo, err := a.consume(rc, respCh, errCh)
		if err != nil {
			return err
		}
		if transferTo != "" {
			return a.transfer(rc, transferTo)
		}
		if last == nil {
			rc.LogWarn("agent.run.empty_turn", "agent", a.Name())
			return nil
		}
		if len(last.GetFunctionResponses()) > 0 {
			// Tool output pending; give the model another turn.
			continue
		}
		rc.LogDebug("agent.run.complete", "agent", a.Name(), "invocation", rc.InvocationID)
		return nil
	}
}

// buildRequest assembles instructions, bounded conversation history and tool
// declarations for one model turn.
func (a *ModelAgent) buildRequest(rc *core.RunContext) (model.Request, error) {
	instructions, err := a.instruction.Resolve(rc)
	if err != nil {
		return model.Request{}, fmt.Errorf("resolve instruction: %w", err)
	}
	if directory := a.subAgentDirectory(); directory != "" {
		instructions = instructions + "\n\n" + directory
	}

	contents := []core.Content{{
		Role:  "system",
		Parts: []core.Part{core.TextPart{Text: instructions}},
	}}
	if rc.Session != nil {
		events := rc.Session.ConversationHistory()
		if a.maxHistoryMessages > 0 && len(events) > a.maxHistoryMessages {
			events = events[len(events)-a.maxHistoryMessages:]
		}
		for _, ev := range events {
			if ev.Content != nil && len(ev.Content.Parts) > 0 {
				contents = append(contents, *ev.Content)
			}
		}
	}

	req := model.Request{
		Instructions: instructions,
		Contents:     contents,
		Stream:       a.enableStreaming,
	}
	for _, t := range a.availableTools() {
		req.Tools = append(req.Tools, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return req, nil
}

// subAgentDirectory renders the transferable sub-agent list injected into the
// system prompt when delegation is enabled.
func (a *ModelAgent) subAgentDirectory() string {
	if !a.allowTransfer {
		return ""
	}
	subAgents := a.SubAgents()
	if len(subAgents) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("You can transfer control to the following agents using the transfer_to_agent tool:\n")
	for _, sub := range subAgents {
		fmt.Fprintf(&b, "- %s: %s\n", sub.Name(), sub.Description())
	}
	return b.String()
}

// availableTools returns registered tools plus the transfer tool when
// delegation is possible.
func (a *ModelAgent) availableTools() []tool.Tool {
	tools := make([]tool.Tool, 0, len(a.tools)+1)
	for _, t := range a.tools {
		tools = append(tools, t)
	}
	if a.allowTransfer && len(a.SubAgents()) > 0 {
		tools = append(tools, a.transferTool)
	}
	return tools
}

// consume drains one model turn: it emits assistant events, executes any
// requested functions in call order and returns the last emitted event plus
// a transfer target if one was requested.
func (a *ModelAgent) consume(
	rc *core.RunContext,
	respCh <-chan model.Response,
	errCh <-chan error,
) (*core.Event, string, error) {
	var last *core.Event
	for {
		select {
		case resp, ok := <-respCh:
			if !ok {
				// The generator may have reported a failure just before
				// closing; surface it instead of ending the turn silently.
				if errCh != nil {
					if err, ok := <-errCh; ok && err != nil {
						return nil, "", a.emitModelError(rc, err)
					}
				}
				return last, "", nil
			}

			ev := core.NewEvent(rc.InvocationID, a.Name())
			content := resp.Content
			ev.Content = &content
			ev.Partial = boolPtr(resp.Partial)
			if !resp.Partial && len(ev.GetFunctionCalls()) == 0 {
				ev.TurnComplete = boolPtr(true)
				a.stageOutput(rc, content)
			}
			if err := rc.EmitEvent(ev); err != nil {
				return nil, "", err
			}
			if !ev.IsPartial() {
				if err := rc.WaitForResume(); err != nil {
					return nil, "", err
				}
			}
			last = &ev

			if fnCalls := ev.GetFunctionCalls(); len(fnCalls) > 0 {
				lastResp, transferTo, err := a.executeFunctions(rc, fnCalls)
				if err != nil {
					return nil, "", err
				}
				if transferTo != "" {
					return lastResp, transferTo, nil
				}
				last = lastResp
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			return nil, "", a.emitModelError(rc, err)
		case <-rc.Done():
			return nil, "", rc.Err()
		}
	}
}

// emitModelError publishes an error event for observers before failing the run.
func (a *ModelAgent) emitModelError(rc *core.RunContext, err error) error {
	rc.LogError("agent.model.error", "agent", a.Name(), "error", err.Error())
	errEv := core.NewEvent(rc.InvocationID, a.Name())
	msg := err.Error()
	errEv.ErrorMessage = &msg
	if emitErr := rc.EmitEvent(errEv); emitErr != nil {
		return emitErr
	}
	return fmt.Errorf("model generation failed: %w", err)
}

// executeFunctions runs requested tools sequentially in the order the model
// asked for them, emitting exactly one function response event per call.
func (a *ModelAgent) executeFunctions(rc *core.RunContext, fnCalls []core.FunctionCall) (*core.Event, string, error) {
	var last *core.Event
	transferTo := ""
	for _, fc := range fnCalls {
		toolCtx := core.NewToolContext(rc, fc.ID)

		start := time.Now()
		result, err := a.executeTool(toolCtx, fc.Name, fc.Arguments)
		rc.LogInfo(
			"agent.function.executed",
			"agent", a.Name(),
			"function", fc.Name,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err != nil,
		)

		respEv := core.NewFunctionResponseEvent(a.Name(), fc.ID, fc.Name, result, err)
		respEv.InvocationID = rc.InvocationID
		toolCtx.ApplyActions(&respEv)

		if err := rc.EmitEvent(respEv); err != nil {
			return nil, "", err
		}
		if err := rc.WaitForResume(); err != nil {
			return nil, "", err
		}
		last = &respEv

		if target := respEv.Actions.TransferToAgent; target != nil && *target != "" {
			transferTo = *target
		}
	}
	return last, transferTo, nil
}

// executeTool decodes arguments, enforces the tool timeout and recovers from
// panics so one misbehaving tool cannot take down the run loop.
func (a *ModelAgent) executeTool(toolCtx *core.ToolContext, name, args string) (result any, err error) {
	impl, ok := a.tools[name]
	if !ok {
		if a.transferTool != nil && name == a.transferTool.Name() {
			impl = a.transferTool
		} else {
			return nil, fmt.Errorf("tool %s not found", name)
		}
	}

	argMap := map[string]any{}
	if args != "" {
		if err := json.Unmarshal([]byte(args), &argMap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal args: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				toolCtx.LogError("agent.function.panic", "function", name, "recover", r, "stack", string(debug.Stack()))
				err = fmt.Errorf("tool %s panicked: %v", name, r)
			}
		}()
		result, err = impl.Call(toolCtx, argMap)
	}()

	if a.toolTimeout <= 0 {
		<-done
		return result, err
	}
	select {
	case <-done:
		return result, err
	case <-time.After(a.toolTimeout):
		return nil, fmt.Errorf("tool %s timed out after %s", name, a.toolTimeout)
	}
}

// stageOutput saves the final response text under the configured output key.
func (a *ModelAgent) stageOutput(rc *core.RunContext, content core.Content) {
	if a.outputKey == "" {
		return
	}
	var b strings.Builder
	for _, p := range content.Parts {
		if tp, ok := p.(core.TextPart); ok {
			b.WriteString(tp.Text)
		}
	}
	if b.Len() > 0 {
		rc.SetState(a.outputKey, b.String())
	}
}

// transfer hands control to a named agent resolved from the hierarchy root,
// so siblings of this agent are valid targets.
func (a *ModelAgent) transfer(rc *core.RunContext, name string) error {
	target := a.Root().FindAgent(name)
	if target == nil {
		return fmt.Errorf("agent '%s' not found in hierarchy", name)
	}
	rc.LogInfo("agent.transfer", "from", a.Name(), "to", name)
	return target.Run(rc)
}
