package schema

// UserSessionTable represents the 'users.session' table
type UserSessionTable struct {
	Table     string
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt string
	CreatedAt string
}

// UserSession is the schema definition for users.session
var UserSession = UserSessionTable{
	Table:     "users.session",
	ID:        "id",
	UserID:    "userid",
	TokenHash: "tokenhash",
	ExpiresAt: "expiresat",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserSessionTable) Columns() []string {
	return []string{t.ID, t.UserID, t.TokenHash, t.ExpiresAt, t.CreatedAt}
}
