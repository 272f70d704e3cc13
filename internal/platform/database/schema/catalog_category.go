package schema

// CatalogCategoryTable represents the 'catalog.category' table
type CatalogCategoryTable struct {
	Table     string
	ID        string
	NameEn    string
	NameAr    string
	ParentID  string
	CreatedAt string
}

// CatalogCategory is the schema definition for catalog.category
var CatalogCategory = CatalogCategoryTable{
	Table:     "catalog.category",
	ID:        "id",
	NameEn:    "nameen",
	NameAr:    "namear",
	ParentID:  "parentid",
	CreatedAt: "createdat",
}
