// Package llm drafts schema-constrained JSON documents with a hosted model.
//
// A Client sends one prompt per call, routes it to a model chosen by the
// request's purpose, retries transient vendor failures, validates the reply
// against the request schema and records every vendor round trip, tagged with
// the caller's generation attempt, in the event store.
package llm

import (
	"context"
	"encoding/json"
)

// Purposes used by level generation. Config routes map them to models.
const (
	// PurposeLevelDraft is the first draft of a new level.
	PurposeLevelDraft = "level-gen"

	// PurposeLevelRepair redrafts a level after the previous draft was
	// rejected, with the rejection reason appended to the prompt.
	PurposeLevelRepair = "level-repair"
)

// Schema is the JSON Schema a reply must satisfy. Name identifies it to
// vendors that want a label and keys the compiled-schema cache.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Request is one structured-output call.
type Request struct {
	// Purpose selects the model through Config routes and labels the
	// recorded event.
	Purpose string

	// Attempt is the caller's generation attempt, starting at 1. Vendor
	// retries inside one attempt share it.
	Attempt int

	System      string
	Prompt      string
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Response is a schema-valid reply.
type Response struct {
	Content json.RawMessage
	Model   string

	// Usage sums every vendor round trip made for the request, including
	// failed ones that reported tokens.
	Usage Usage

	// Tries counts vendor round trips.
	Tries int
}

// Usage is token accounting for one or more calls.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Add returns the sum of u and o.
func (u Usage) Add(o Usage) Usage {
	return Usage{InputTokens: u.InputTokens + o.InputTokens, OutputTokens: u.OutputTokens + o.OutputTokens}
}

// Total is input plus output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// Call is what a Backend sends: a Request with its model resolved.
type Call struct {
	Model       string
	System      string
	Prompt      string
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Reply is a backend's raw answer before validation.
type Reply struct {
	Text      string
	Model     string
	Usage     Usage
	Truncated bool // the model stopped at MaxTokens
}

// Backend is one vendor's completion endpoint. Errors should be *Error so
// the Client can tell transient failures from permanent ones.
type Backend interface {
	Complete(ctx context.Context, call Call) (*Reply, error)
}
