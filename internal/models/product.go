package models

// Category groups catalog products under a tab key such as "Vegetables".
type Category struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	ImageRef string `json:"image_ref,omitempty"`
}

type CatalogSection struct {
	Title      string     `json:"title"`
	Categories []Category `json:"categories"`
}

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	CategoryKey string  `json:"category_key"`
	Weight      string  `json:"weight,omitempty"`
	ImageRef    string  `json:"image_ref,omitempty"`
}

// ProductListResponse separates "no search active" from "search matched nothing".
type ProductListResponse struct {
	Products     []Product `json:"products"`
	Query        string    `json:"query,omitempty"`
	Category     string    `json:"category,omitempty"`
	SearchActive bool      `json:"search_active"`
}

type CategoryListResponse struct {
	Sections     []CatalogSection `json:"sections"`
	Query        string           `json:"query,omitempty"`
	SearchActive bool             `json:"search_active"`
	NoResults    bool             `json:"no_results"`
}
