package schema

// CatalogProductTable represents the 'catalog.product' table
type CatalogProductTable struct {
	Table            string
	ID               string
	Title            string
	ShortDescription string
	FullDescription  string
	Price            string
	Cost             string
	Currency         string
	CategoryID       string
	Tags             string
	Images           string
	StockCount       string
	Available        string
	ExpiryTimer      string
	ViewsCount       string
	Likes            string
	Dislikes         string
	CreatedAt        string
	UpdatedAt        string
	DeletedAt        string
}

// CatalogProduct is the schema definition for catalog.product
var CatalogProduct = CatalogProductTable{
	Table:            "catalog.product",
	ID:               "id",
	Title:            "title",
	ShortDescription: "shortdescription",
	FullDescription:  "fulldescription",
	Price:            "price",
	Cost:             "cost",
	Currency:         "currency",
	CategoryID:       "categoryid",
	Tags:             "tags",
	Images:           "images",
	StockCount:       "stockcount",
	Available:        "available",
	ExpiryTimer:      "expirytimer",
	ViewsCount:       "viewscount",
	Likes:            "likes",
	Dislikes:         "dislikes",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
	DeletedAt:        "deletedat",
}

// Columns returns all standard column names
func (t CatalogProductTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.ShortDescription, t.FullDescription, t.Price, t.Cost,
		t.Currency, t.CategoryID, t.Tags, t.Images, t.StockCount, t.Available,
		t.ExpiryTimer, t.ViewsCount, t.Likes, t.Dislikes,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
