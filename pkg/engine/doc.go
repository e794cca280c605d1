// Package engine implements the multi-round conversation loop.
//
// One request runs as a sequence of model rounds. Each round sends the
// full transcript to the model backend; the response either carries a
// final text answer, which terminates the request, or one or more tool
// call requests. Tool calls are executed sequentially in request order,
// each result is fed back into the transcript as a function response,
// and the next round continues from context with no new user input. A
// hard round cap bounds the loop; exhausting it yields a fallback
// answer rather than an error.
//
// The engine owns all conversation state. The model backend is treated
// as stateless and the tool registry as read-only, so a single Engine
// is safe for concurrent use across requests.
package engine
