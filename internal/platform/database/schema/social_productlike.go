package schema

// SocialProductLikeTable represents the 'social.productlike' table
type SocialProductLikeTable struct {
	Table     string
	UserID    string
	ProductID string
	CreatedAt string
}

// SocialProductLike is the schema definition for social.productlike
var SocialProductLike = SocialProductLikeTable{
	Table:     "social.productlike",
	UserID:    "userid",
	ProductID: "productid",
	CreatedAt: "createdat",
}
