package schema

// AccessCodeTable represents the 'admin.accesscode' table
type AccessCodeTable struct {
	Table       string
	ID          string
	Code        string
	Role        string
	ValidFrom   string
	ValidUntil  string
	UsesAllowed string
	UsesCount   string
	IsUsed      string
	IssuedBy    string
	Note        string
	CreatedAt   string
	UpdatedAt   string
}

// AccessCode is the schema definition for admin.accesscode
var AccessCode = AccessCodeTable{
	Table:       "admin.accesscode",
	ID:          "id",
	Code:        "code",
	Role:        "role",
	ValidFrom:   "validfrom",
	ValidUntil:  "validuntil",
	UsesAllowed: "usesallowed",
	UsesCount:   "usescount",
	IsUsed:      "isused",
	IssuedBy:    "issuedby",
	Note:        "note",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t AccessCodeTable) Columns() []string {
	return []string{
		t.ID, t.Code, t.Role, t.ValidFrom, t.ValidUntil, t.UsesAllowed,
		t.UsesCount, t.IsUsed, t.IssuedBy, t.Note, t.CreatedAt, t.UpdatedAt,
	}
}
