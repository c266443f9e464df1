package types

import "fmt"

// SymbolNotFoundError reports a reference to an undeclared type
// constructor or type variable, e.g. during alias expansion.
type SymbolNotFoundError struct {
	Name string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("type symbol not found: %s", e.Name)
}

// NewSymbolNotFoundError constructs a SymbolNotFoundError for name.
func NewSymbolNotFoundError(name string) *SymbolNotFoundError {
	return &SymbolNotFoundError{Name: name}
}
