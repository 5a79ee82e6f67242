package visibility

import (
	"testing"

	"github.com/google/uuid"

	"github.com/artorders/artorders-backend/pkg/enums"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
)

func TestEnsureRoleRequiresAuthentication(t *testing.T) {
	err := EnsureRole(Viewer{}, enums.RoleArtist)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestEnsureRoleRejectsMismatch(t *testing.T) {
	viewer := Viewer{UserID: uuid.New(), Role: enums.RoleCustomer}
	err := EnsureRole(viewer, enums.RoleArtist)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestEnsureRoleAccepts(t *testing.T) {
	viewer := Viewer{UserID: uuid.New(), Role: enums.RoleArtist}
	if err := EnsureRole(viewer, enums.RoleArtist); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureOwner(t *testing.T) {
	owner := uuid.New()
	if err := EnsureOwner(Viewer{UserID: owner, Role: enums.RoleCustomer}, owner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := EnsureOwner(Viewer{UserID: uuid.New(), Role: enums.RoleCustomer}, owner)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
