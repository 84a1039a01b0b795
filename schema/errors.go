package schema

import "fmt"

// SchemaError reports a registration problem or a resolve on a type with
// no registration chain.
type SchemaError struct {
	Type    TypeID
	Message string
	Err     error
}

func (e *SchemaError) Error() string {
	if !e.Type.IsZero() {
		return fmt.Sprintf("schema error for %s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("schema error: %s", e.Message)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
