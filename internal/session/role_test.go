package session

import (
	"testing"

	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/api"
)

func TestResolveRoleKnown(t *testing.T) {
	tests := []struct {
		id   int
		want Role
	}{
		{4, RoleStudent},
		{3, RoleTeacher},
		{1, RoleAdmin},
	}

	for _, tt := range tests {
		role, err := ResolveRole(tt.id)
		if err != nil {
			t.Errorf("ResolveRole(%d) failed: %v", tt.id, err)
			continue
		}
		if role != tt.want {
			t.Errorf("ResolveRole(%d) = %q, want %q", tt.id, role, tt.want)
		}
	}
}

func TestResolveRoleUnknown(t *testing.T) {
	// The mapping is closed: no identifier outside it resolves to anything.
	for _, id := range []int{0, 2, 5, 7, 99, -1} {
		role, err := ResolveRole(id)
		if err == nil {
			t.Errorf("ResolveRole(%d) = %q, want error", id, role)
			continue
		}
		if role != "" {
			t.Errorf("ResolveRole(%d) returned role %q alongside error", id, role)
		}
		if !api.IsKind(err, api.KindUnauthorizedRole) {
			t.Errorf("ResolveRole(%d) error kind = %v, want unauthorized_role", id, api.ErrKind(err))
		}
	}
}
