// Package pipeline runs the generation stages: plots, characters and
// character details.
//
// Each stage renders a prompt, calls the configured generator with retries,
// decodes the raw output with a [parse.Decoder] and converts it into a typed
// payload from [scenario]. When the output holds no usable JSON, or the JSON
// does not match the payload shape, the stage returns clearly labelled
// placeholder content and reports it through [Outcome].
//
// Only generator failures are returned as errors. A stage never fails because
// the model wrote malformed text.
package pipeline
