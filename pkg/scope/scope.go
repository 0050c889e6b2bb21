package scope

import (
	"armory/pkg/roles"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// Actor is the identity trio extracted from the JWT. The core trusts it
// verbatim; issuing and verifying the token happens in pkg/security.
type Actor struct {
	UserID int
	Role   roles.Role
	BaseID *int
}

func (a Actor) IsAdmin() bool {
	return a.Role == roles.Admin
}

// BaseFilter returns a predicate constraining the given column to the
// actor's base. Admins are unconstrained (nil). An actor with no base
// assignment and a non-admin role matches nothing.
func BaseFilter(actor Actor, column string) exp.Expression {
	if actor.IsAdmin() {
		return nil
	}
	if actor.BaseID == nil {
		return goqu.L("FALSE")
	}
	return goqu.I(column).Eq(*actor.BaseID)
}

// EitherBaseFilter scopes records that involve the actor's base through
// either of two columns, e.g. a transfer's source or destination.
func EitherBaseFilter(actor Actor, colA, colB string) exp.Expression {
	if actor.IsAdmin() {
		return nil
	}
	if actor.BaseID == nil {
		return goqu.L("FALSE")
	}
	return goqu.Or(
		goqu.I(colA).Eq(*actor.BaseID),
		goqu.I(colB).Eq(*actor.BaseID),
	)
}

// CanAccessBase reports whether the actor may observe or affect records
// belonging to baseID.
func CanAccessBase(actor Actor, baseID int) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.BaseID != nil && *actor.BaseID == baseID
}

// CanAccessEitherBase is CanAccessBase over two candidate bases.
func CanAccessEitherBase(actor Actor, baseA, baseB int) bool {
	return CanAccessBase(actor, baseA) || CanAccessBase(actor, baseB)
}
