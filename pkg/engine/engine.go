package engine

import (
	"context"
	"fmt"

	"github.com/jmkoo/daedap/pkg/api"
	"github.com/jmkoo/daedap/pkg/observability"
	"github.com/jmkoo/daedap/pkg/provider"
	"github.com/jmkoo/daedap/pkg/tools"
	"github.com/jmkoo/daedap/pkg/transport"
)

// Engine runs the multi-round tool-use protocol between the transport
// layer and the model backend. It implements transport.Asker.
type Engine struct {
	provider provider.Provider
	registry *tools.Registry
	cfg      Config
}

var _ transport.Asker = (*Engine)(nil)

// New creates an Engine. The provider and registry must not be nil.
func New(p provider.Provider, reg *tools.Registry, cfg Config) (*Engine, error) {
	if p == nil {
		return nil, fmt.Errorf("engine: provider must not be nil")
	}
	if reg == nil {
		return nil, fmt.Errorf("engine: registry must not be nil")
	}
	return &Engine{provider: p, registry: reg, cfg: cfg}, nil
}

// turnPhase is the stage a request is in. A round moves phaseSending to
// phaseInspecting, and from there either to phaseDone (final answer or
// round cap) or through phaseExecuting back to phaseSending.
type turnPhase int

const (
	phaseSending turnPhase = iota
	phaseInspecting
	phaseExecuting
	phaseDone
)

func (p turnPhase) String() string {
	switch p {
	case phaseSending:
		return "sending"
	case phaseInspecting:
		return "inspecting"
	case phaseExecuting:
		return "executing"
	default:
		return "done"
	}
}

// Ask answers one user message, stepping the turn machine until the
// model produces a final answer or the round cap is reached. In
// streaming mode progress is written as events; otherwise a single
// Answer is written at the end.
//
// Errors obtaining a model response are fatal to the whole request and
// are returned to the caller, which renders them as a terminal error
// event or a JSON error body. Tool failures are local: they become
// error-shaped results and the conversation continues.
func (e *Engine) Ask(ctx context.Context, req *api.AskRequest, w transport.EventWriter) error {
	st := e.newTurnState(req)
	step := e.stepSync
	if req.Stream {
		step = e.stepStream
	}

	for st.phase != phaseDone {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, err := step(ctx, st, w)
		if err != nil {
			return err
		}
		st.phase = next
	}
	return nil
}

// stepSync advances the non-streaming turn machine by one transition.
func (e *Engine) stepSync(ctx context.Context, st *turnState, w transport.EventWriter) (turnPhase, error) {
	switch st.phase {
	case phaseSending:
		if st.turn >= e.cfg.maxTurns() {
			observability.TurnsPerRequest.Observe(float64(st.turn))
			return phaseDone, w.WriteAnswer(ctx, &api.Answer{Answer: fallbackAnswer})
		}
		reply, err := e.generateRound(ctx, st)
		if err != nil {
			return phaseDone, err
		}
		st.absorb(reply)
		return phaseInspecting, nil

	case phaseInspecting:
		if len(st.reply.Calls) == 0 {
			observability.TurnsPerRequest.Observe(float64(st.turn + 1))
			return phaseDone, w.WriteAnswer(ctx, &api.Answer{Answer: st.reply.Text})
		}
		return phaseExecuting, nil

	default:
		if err := e.executeCalls(ctx, st, st.reply.Calls, nil); err != nil {
			return phaseDone, err
		}
		st.turn++
		return phaseSending, nil
	}
}

// stepStream advances the streaming turn machine by one transition,
// mirroring stepSync with events for each stage.
func (e *Engine) stepStream(ctx context.Context, st *turnState, w transport.EventWriter) (turnPhase, error) {
	switch st.phase {
	case phaseSending:
		if st.turn >= e.cfg.maxTurns() {
			observability.TurnsPerRequest.Observe(float64(st.turn))
			return phaseDone, w.WriteEvent(ctx, api.Event{
				Type: api.EventDone,
				Data: api.DoneData{Text: fallbackAnswer},
			})
		}
		if err := w.WriteEvent(ctx, api.Event{
			Type: api.EventPhase,
			Data: api.PhaseData{Type: "stream", Turn: st.turn + 1},
		}); err != nil {
			return phaseDone, err
		}
		reply, err := e.streamRound(ctx, st, func(text string) error {
			return w.WriteEvent(ctx, api.Event{
				Type: api.EventToken,
				Data: api.TokenData{Text: text},
			})
		})
		if err != nil {
			return phaseDone, err
		}
		st.absorb(reply)
		return phaseInspecting, nil

	case phaseInspecting:
		if len(st.reply.Calls) == 0 {
			observability.TurnsPerRequest.Observe(float64(st.turn + 1))
			return phaseDone, w.WriteEvent(ctx, api.Event{
				Type: api.EventDone,
				Data: api.DoneData{Text: st.reply.Text},
			})
		}
		return phaseExecuting, w.WriteEvent(ctx, api.Event{
			Type: api.EventToolCall,
			Data: api.ToolCallData{Calls: callRefs(st.reply.Calls)},
		})

	default:
		err := e.executeCalls(ctx, st, st.reply.Calls, func(name string, response map[string]any) error {
			return w.WriteEvent(ctx, api.Event{
				Type: api.EventToolResult,
				Data: api.ToolResultData{Name: name, Response: response},
			})
		})
		if err != nil {
			return phaseDone, err
		}
		st.turn++
		return phaseSending, nil
	}
}
