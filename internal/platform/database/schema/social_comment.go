package schema

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table     string
	ID        string
	ProductID string
	UserID    string
	Text      string
	Rating    string
	Flagged   string
	CreatedAt string
	UpdatedAt string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:     "social.comment",
	ID:        "id",
	ProductID: "productid",
	UserID:    "userid",
	Text:      "text",
	Rating:    "rating",
	Flagged:   "flagged",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
