// Package logging builds the zerolog loggers used by cellscope and carries
// them, together with a per-invocation trace ID, through context.Context.
//
// Every component logs through FromContext(ctx) so that the trace ID attached
// at command start appears on each line written during a computation.
package logging
