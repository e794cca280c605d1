package engine

import (
	"context"
	"time"

	"github.com/jmkoo/daedap/pkg/api"
	"github.com/jmkoo/daedap/pkg/debug"
	"github.com/jmkoo/daedap/pkg/observability"
	"github.com/jmkoo/daedap/pkg/provider"
	"github.com/jmkoo/daedap/pkg/tools"
)

// fallbackAnswer is returned when the model keeps requesting tools past
// the round cap.
const fallbackAnswer = "no answer"

// turnState carries the per-request conversation state across rounds.
// The engine owns the transcript: the model backend is stateless and
// receives the full transcript on every round.
type turnState struct {
	system     string
	transcript []provider.Content
	tools      []provider.ToolDeclaration
	turn       int
	phase      turnPhase
	reply      *provider.Reply
}

func (e *Engine) newTurnState(req *api.AskRequest) *turnState {
	system := req.System
	if system == "" {
		system = e.cfg.DefaultSystem
	}

	defs := e.registry.Definitions()
	decls := make([]provider.ToolDeclaration, 0, len(defs))
	for _, d := range defs {
		decls = append(decls, provider.ToolDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}

	transcript := NormalizeHistory(req.History)
	transcript = append(transcript, provider.NewTextContent(api.RoleUser, req.Message))

	return &turnState{
		system:     system,
		transcript: transcript,
		tools:      decls,
	}
}

// request builds the backend request for the next round.
func (st *turnState) request() *provider.Request {
	return &provider.Request{
		System:   st.system,
		Contents: st.transcript,
		Tools:    st.tools,
	}
}

// absorb records a round's model reply and appends the model's own
// output to the transcript, so a later round sees its text and
// tool-call requests in order.
func (st *turnState) absorb(reply *provider.Reply) {
	st.reply = reply

	var parts []provider.Part
	if reply.Text != "" {
		parts = append(parts, provider.Part{Text: reply.Text})
	}
	for i := range reply.Calls {
		parts = append(parts, provider.Part{FunctionCall: &reply.Calls[i]})
	}
	if len(parts) == 0 {
		return
	}
	st.transcript = append(st.transcript, provider.Content{Role: api.RoleModel, Parts: parts})
}

// absorbResult feeds one wrapped tool result back into the transcript.
func (st *turnState) absorbResult(name string, response map[string]any) {
	st.transcript = append(st.transcript, provider.NewFunctionResponseContent(name, response))
}

// generateRound performs one non-streaming model round under the
// per-round timeout.
func (e *Engine) generateRound(ctx context.Context, st *turnState) (*provider.Reply, error) {
	debug.Log("engine", "model round", "turn", st.turn+1, "transcript", len(st.transcript))
	rctx, cancel := context.WithTimeout(ctx, e.cfg.turnTimeout())
	defer cancel()

	start := time.Now()
	reply, err := e.provider.Generate(rctx, st.request())
	e.recordRound(start, err)
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// streamRound performs one streaming model round, emitting each text
// fragment through emit as it arrives. The reply is only complete once
// the stream has drained; partial tool calls are never visible.
func (e *Engine) streamRound(ctx context.Context, st *turnState, emit func(text string) error) (*provider.Reply, error) {
	debug.Log("engine", "model round", "turn", st.turn+1, "transcript", len(st.transcript))
	rctx, cancel := context.WithTimeout(ctx, e.cfg.turnTimeout())
	defer cancel()

	start := time.Now()
	ch, err := e.provider.Stream(rctx, st.request())
	if err != nil {
		e.recordRound(start, err)
		return nil, err
	}

	var reply *provider.Reply
	for chunk := range ch {
		if chunk.Err != nil {
			e.recordRound(start, chunk.Err)
			return nil, chunk.Err
		}
		if chunk.Reply != nil {
			reply = chunk.Reply
			continue
		}
		if chunk.Text != "" {
			if err := emit(chunk.Text); err != nil {
				e.recordRound(start, err)
				return nil, err
			}
		}
	}
	if reply == nil {
		reply = &provider.Reply{}
	}

	e.recordRound(start, nil)
	return reply, nil
}

// executeCalls runs one round's tool calls sequentially, in request
// order, feeding each result back into the transcript. Results are
// reported through emit when it is non-nil (streaming mode). Tool
// failures never abort the round: the registry degrades them to
// error-shaped results.
func (e *Engine) executeCalls(ctx context.Context, st *turnState, calls []provider.FunctionCall, emit func(name string, response map[string]any) error) error {
	for _, call := range calls {
		cctx, cancel := context.WithTimeout(ctx, e.cfg.toolTimeout())
		response := e.registry.Execute(cctx, tools.Call{Name: call.Name, Args: call.Args})
		cancel()

		if emit != nil {
			if err := emit(call.Name, response); err != nil {
				return err
			}
		}
		st.absorbResult(call.Name, response)
	}
	return nil
}

// callRefs converts a round's tool calls to their event representation.
func callRefs(calls []provider.FunctionCall) []api.ToolCallRef {
	refs := make([]api.ToolCallRef, 0, len(calls))
	for _, c := range calls {
		refs = append(refs, api.ToolCallRef{Name: c.Name, Args: c.Args})
	}
	return refs
}

func (e *Engine) recordRound(start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	observability.ModelRequestsTotal.WithLabelValues(e.provider.Name(), e.provider.Model(), status).Inc()
	observability.ModelLatency.WithLabelValues(e.provider.Name(), e.provider.Model()).Observe(time.Since(start).Seconds())
}
