package entity

// Role is an account's access level on the dashboard.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// DefaultRole is provisioned for accounts with no stored role.
const DefaultRole = RoleOperator

// CapabilitySet is the fixed permission grant of a role.
type CapabilitySet struct {
	CanCreate             bool `json:"can_create"`
	CanUpdate             bool `json:"can_update"`
	CanDelete             bool `json:"can_delete"`
	CanBulkDelete         bool `json:"can_bulk_delete"`
	CanExport             bool `json:"can_export"`
	CanSendMessage        bool `json:"can_send_message"`
	CanManageRoles        bool `json:"can_manage_roles"`
	CanViewAuditLogs      bool `json:"can_view_audit_logs"`
	CanManageIntegrations bool `json:"can_manage_integrations"`
}

var roleCapabilities = map[Role]CapabilitySet{
	RoleAdmin: {
		CanCreate:             true,
		CanUpdate:             true,
		CanDelete:             true,
		CanBulkDelete:         true,
		CanExport:             true,
		CanSendMessage:        true,
		CanManageRoles:        true,
		CanViewAuditLogs:      true,
		CanManageIntegrations: true,
	},
	RoleOperator: {
		CanCreate:      true,
		CanUpdate:      true,
		CanExport:      true,
		CanSendMessage: true,
	},
	RoleViewer: {},
}

// Capabilities returns the permission set for a role. Unknown roles get
// the viewer (all false) set, never an elevated one.
func Capabilities(r Role) CapabilitySet {
	caps, ok := roleCapabilities[r]
	if !ok {
		return CapabilitySet{}
	}
	return caps
}

// ParseRole maps a stored string to a Role, falling back to the default
// for anything unrecognized.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleOperator, RoleViewer:
		return Role(s)
	default:
		return DefaultRole
	}
}
