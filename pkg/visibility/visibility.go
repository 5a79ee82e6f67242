package visibility

import (
	"github.com/google/uuid"

	"github.com/artorders/artorders-backend/pkg/enums"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
)

// Viewer captures who is asking. It is built once at the request boundary and
// handed to services so role branching happens in a single place.
type Viewer struct {
	UserID uuid.UUID
	Role   enums.Role
}

// IsArtist reports whether the viewer holds the artist role.
func (v Viewer) IsArtist() bool {
	return v.Role == enums.RoleArtist
}

// IsCustomer reports whether the viewer holds the customer role.
func (v Viewer) IsCustomer() bool {
	return v.Role == enums.RoleCustomer
}

// EnsureRole rejects viewers that do not hold the required role.
func EnsureRole(v Viewer, role enums.Role) error {
	if v.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if v.Role != role {
		return pkgerrors.New(pkgerrors.CodeForbidden, "operation requires "+string(role)+" role")
	}
	return nil
}

// EnsureOwner rejects viewers acting on a resource they do not own.
func EnsureOwner(v Viewer, ownerID uuid.UUID) error {
	if v.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if v.UserID != ownerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "resource belongs to another user")
	}
	return nil
}
