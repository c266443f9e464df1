package dispatch

import "github.com/multimethod/genfunc/internal/types"

// Inferer is an external type-inference collaborator: given a call's
// static argument expressions (represented here simply as their declared
// types, since this package has no AST of its own), it resolves any type
// variable the dispatcher couldn't bind from runtime values alone. A nil
// Inferer means the engine never attempts inference and simply fails
// dispatch for under-determined calls.
type Inferer interface {
	Infer(sig types.TTuple, partial types.Subst) (types.Subst, error)
}
