package model

import "github.com/google/uuid"

// Built-in identities behind the reserved demo and admin credentials. Admin
// comments are always authored as AdminUserID regardless of which admin wrote them.
var (
	DemoUserID  = uuid.MustParse("00000000-0000-4000-8000-000000000001")
	AdminUserID = uuid.MustParse("00000000-0000-4000-8000-000000000002")
)

const (
	DemoUserName  = "Demo User"
	AdminUserName = "Admin"
)

// BuiltinName returns the display name of a built-in identity.
func BuiltinName(id uuid.UUID) (string, bool) {
	switch id {
	case DemoUserID:
		return DemoUserName, true
	case AdminUserID:
		return AdminUserName, true
	default:
		return "", false
	}
}
