package ai

import "context"

// Client describes a model gateway that answers a single prompt with a single
// piece of text. Failures are folded into the returned string so that an
// unreachable model still produces a row the user can rate; Query never
// returns an error.
type Client interface {
	Query(ctx context.Context, prompt, model string) string
}
