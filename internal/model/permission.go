package model

// Capability names an action a role may perform.
type Capability string

const (
	// CapStudentsRead allows viewing students, their balances and history.
	CapStudentsRead Capability = "students:read"
	// CapStudentsWrite allows creating, updating and deactivating students.
	CapStudentsWrite Capability = "students:write"
	// CapEnrollmentWrite allows managing grades and classes.
	CapEnrollmentWrite Capability = "enrollment:write"

	// CapAttendanceMark allows checking in students of assigned classes.
	CapAttendanceMark Capability = "attendance:mark"
	// CapAttendanceMarkAny allows checking in any active student.
	CapAttendanceMarkAny Capability = "attendance:mark_any"
	// CapSessionsManage allows closing, cancelling or reopening today's session.
	CapSessionsManage Capability = "sessions:manage"

	// CapPointsGrant allows granting points by catalog reason.
	CapPointsGrant Capability = "points:grant"
	// CapPointsManual allows granting ad-hoc points with a note.
	CapPointsManual Capability = "points:manual"

	// CapReasonsRead allows listing point reasons.
	CapReasonsRead Capability = "reasons:read"
	// CapReasonsManage allows editing the reason catalog.
	CapReasonsManage Capability = "reasons:manage"

	// CapRewardsRead allows listing reward items.
	CapRewardsRead Capability = "rewards:read"
	// CapRewardsManage allows editing the reward catalog.
	CapRewardsManage Capability = "rewards:manage"
	// CapPurchasesCreate allows spending a student's points on a reward.
	CapPurchasesCreate Capability = "purchases:create"

	// CapUsersManage allows managing staff accounts.
	CapUsersManage Capability = "users:manage"
	// CapAssignmentsManage allows assigning servants to classes.
	CapAssignmentsManage Capability = "assignments:manage"
	// CapAuditRead allows reading the audit trail.
	CapAuditRead Capability = "audit:read"
	// CapReportsExport allows downloading reports.
	CapReportsExport Capability = "reports:export"
)

var staffCapabilities = []Capability{
	CapStudentsRead,
	CapStudentsWrite,
	CapEnrollmentWrite,
	CapAttendanceMark,
	CapPointsGrant,
	CapReasonsRead,
	CapRewardsRead,
	CapPurchasesCreate,
}

var roleCapabilities = map[Role][]Capability{
	RoleSuperAdmin: append([]Capability{
		CapAttendanceMarkAny,
		CapSessionsManage,
		CapPointsManual,
		CapReasonsManage,
		CapRewardsManage,
		CapUsersManage,
		CapAssignmentsManage,
		CapAuditRead,
		CapReportsExport,
	}, staffCapabilities...),
	RoleAdmin: append([]Capability{
		CapAttendanceMarkAny,
		CapSessionsManage,
		CapPointsManual,
		CapRewardsManage,
		CapReportsExport,
	}, staffCapabilities...),
	RoleGateAdmin: append([]Capability{
		CapAttendanceMarkAny,
	}, staffCapabilities...),
	RoleServant: staffCapabilities,
}

// Can reports whether role holds capability. Unknown roles hold nothing.
func Can(role Role, capability Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == capability {
			return true
		}
	}
	return false
}

// Capabilities returns the capabilities of role as strings, for clients
// that hide actions the user cannot take.
func Capabilities(role Role) []string {
	caps := roleCapabilities[role]
	out := make([]string, 0, len(caps))
	for _, c := range caps {
		out = append(out, string(c))
	}
	return out
}
