// Package session derives an authenticated session from a stored credential
// and keeps the role mapping fail-closed.
package session

import (
	"fmt"

	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/api"
)

// Role is one of the fixed set of application roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ResolveRole maps the backend's numeric role identifier onto a Role. The
// mapping is closed: any identifier outside it fails with
// KindUnauthorizedRole. There is deliberately no default role: an unmapped
// identifier must never silently become a teacher or anything else.
func ResolveRole(id int) (Role, error) {
	switch id {
	case 4:
		return RoleStudent, nil
	case 3:
		return RoleTeacher, nil
	case 1:
		return RoleAdmin, nil
	}
	return "", &api.Error{
		Kind:    api.KindUnauthorizedRole,
		Message: fmt.Sprintf("unrecognized role identifier %d", id),
	}
}
