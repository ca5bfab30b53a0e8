package scenario

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/leofalp/scenario/internal/jsonschema"
)

// ErrInvalidPayload marks a decoded value that does not have the shape of the
// requested payload.
var ErrInvalidPayload = errors.New("invalid payload")

// convert validates doc against v and decodes it into T.
func convert[T any](v *jsonschema.Validator, doc any) (T, error) {
	var out T
	if err := v.Validate(doc); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return out, nil
}
