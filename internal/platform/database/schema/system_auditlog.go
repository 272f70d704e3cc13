package schema

// SystemAuditLogTable represents the 'system.auditlog' table
type SystemAuditLogTable struct {
	Table        string
	ID           string
	AdminID      string
	Action       string
	ResourceType string
	ResourceID   string
	OldValue     string
	NewValue     string
	CreatedAt    string
}

var SystemAuditLog = SystemAuditLogTable{
	Table:        "system.auditlog",
	ID:           "id",
	AdminID:      "adminid",
	Action:       "action",
	ResourceType: "resourcetype",
	ResourceID:   "resourceid",
	OldValue:     "oldvalue",
	NewValue:     "newvalue",
	CreatedAt:    "createdat",
}
