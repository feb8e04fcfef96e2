package domain

import "time"

// MemberRole enumerates authorization levels inside a workspace.
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "ADMIN"
	MemberRoleMember MemberRole = "MEMBER"
)

// Member links a user to a workspace. Membership records are the sole
// authorization source: every task/department operation resolves one before
// touching data.
type Member struct {
	ID          string
	WorkspaceID string
	UserID      string
	Role        MemberRole
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAdmin reports whether the member may perform admin-only operations.
func (m *Member) IsAdmin() bool {
	return m != nil && m.Role == MemberRoleAdmin
}
