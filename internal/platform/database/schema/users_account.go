package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table                string
	ID                   string
	Name                 string
	Phone                string
	Password             string
	Role                 string
	Active               string
	SalaryRange          string
	InterestedCategories string
	CreatedAt            string
	UpdatedAt            string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:                "users.account",
	ID:                   "id",
	Name:                 "name",
	Phone:                "phone",
	Password:             "passwordhash",
	Role:                 "role",
	Active:               "active",
	SalaryRange:          "salaryrange",
	InterestedCategories: "interestedcategories",
	CreatedAt:            "createdat",
	UpdatedAt:            "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Phone, t.Password, t.Role, t.Active,
		t.SalaryRange, t.InterestedCategories, t.CreatedAt, t.UpdatedAt,
	}
}
