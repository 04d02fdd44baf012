package llm

import "fmt"

// InvokeError wraps the error a provider SDK returned for a generation call.
type InvokeError struct {
	Provider string
	Err      error
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("unable to invoke %s model. Error: %v", e.Provider, e.Err)
}

func (e *InvokeError) Unwrap() error {
	return e.Err
}
