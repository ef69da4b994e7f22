package service

import (
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

const FastMovingCategory = "FastMoving"

type CatalogService interface {
	Sections() []models.CatalogSection
	SearchCategories(query string) *models.CategoryListResponse
	FilterByText(query string) *models.ProductListResponse
	FilterByCategory(key string) *models.ProductListResponse
	ListProducts(query, category string) *models.ProductListResponse
	GetProduct(id string) (*models.Product, error)
}

type catalogService struct {
	sections []models.CatalogSection
	products []models.Product
	byID     map[string]int
}

// NewCatalogService builds the read-only catalog. Both slices are copied.
func NewCatalogService(sections []models.CatalogSection, products []models.Product) CatalogService {

	s := &catalogService{
		sections: make([]models.CatalogSection, len(sections)),
		products: append([]models.Product(nil), products...),
		byID:     make(map[string]int, len(products)),
	}

	for i, sec := range sections {
		s.sections[i] = models.CatalogSection{
			Title:      sec.Title,
			Categories: append([]models.Category(nil), sec.Categories...),
		}
	}

	for i, p := range s.products {
		s.byID[p.ID] = i
	}

	return s
}

func NewDefaultCatalogService() CatalogService {
	return NewCatalogService(defaultSections, defaultProducts)
}

func (s *catalogService) Sections() []models.CatalogSection {
	return s.SearchCategories("").Sections
}

// SearchCategories filters category names; sections left without categories are dropped.
func (s *catalogService) SearchCategories(query string) *models.CategoryListResponse {

	q := strings.ToLower(strings.TrimSpace(query))

	resp := &models.CategoryListResponse{
		Sections:     []models.CatalogSection{},
		Query:        query,
		SearchActive: q != "",
	}

	for _, sec := range s.sections {

		matched := []models.Category{}
		for _, c := range sec.Categories {
			if q == "" || strings.Contains(strings.ToLower(c.Name), q) {
				matched = append(matched, c)
			}
		}

		if len(matched) > 0 {
			resp.Sections = append(resp.Sections, models.CatalogSection{Title: sec.Title, Categories: matched})
		}
	}

	resp.NoResults = resp.SearchActive && len(resp.Sections) == 0

	return resp
}

// FilterByText matches product names case-insensitively. An empty query is not a search.
func (s *catalogService) FilterByText(query string) *models.ProductListResponse {
	return s.filter(query, "")
}

// FilterByCategory returns the products of a category; unknown keys yield an empty list.
func (s *catalogService) FilterByCategory(key string) *models.ProductListResponse {
	return s.filter("", key)
}

func (s *catalogService) ListProducts(query, category string) *models.ProductListResponse {
	return s.filter(query, category)
}

func (s *catalogService) filter(query, category string) *models.ProductListResponse {

	q := strings.ToLower(strings.TrimSpace(query))
	category = strings.TrimSpace(category)

	resp := &models.ProductListResponse{
		Products:     []models.Product{},
		Query:        query,
		Category:     category,
		SearchActive: q != "",
	}

	for _, p := range s.products {

		if category != "" && !strings.EqualFold(p.CategoryKey, category) {
			continue
		}

		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}

		resp.Products = append(resp.Products, p)
	}

	return resp
}

func (s *catalogService) GetProduct(id string) (*models.Product, error) {

	i, ok := s.byID[id]
	if !ok {
		return nil, errors.NotFoundError("Product not found").WithDetail("no product with id '" + id + "'")
	}

	p := s.products[i]

	return &p, nil
}

var defaultSections = []models.CatalogSection{
	{
		Title: "Fresh. Fast. Delivered 24/7",
		Categories: []models.Category{
			{Key: "Vegetables", Name: "Vegetables", ImageRef: "images/vegetables.png"},
			{Key: "Fruits", Name: "Fruits", ImageRef: "images/fruits.png"},
		},
	},
	{
		Title: "Grocery Staples",
		Categories: []models.Category{
			{Key: "Rice", Name: "Rice", ImageRef: "images/rice.png"},
			{Key: "Flours", Name: "Flours", ImageRef: "images/flour.png"},
			{Key: "Nuts", Name: "Nuts", ImageRef: "images/nuts.png"},
			{Key: "Spices", Name: "Spices", ImageRef: "images/spices.png"},
			{Key: "Millets", Name: "Millets", ImageRef: "images/millets.png"},
			{Key: "Sugar", Name: "Sugar", ImageRef: "images/sugar.png"},
		},
	},
}

var defaultProducts = []models.Product{
	{ID: "20", Name: "Carrot", Price: 40, CategoryKey: "Vegetables"},
	{ID: "21", Name: "Beans", Price: 80, CategoryKey: "Vegetables"},
	{ID: "22", Name: "Beetroot", Price: 45, CategoryKey: "Vegetables"},
	{ID: "23", Name: "Brinjal", Price: 50, CategoryKey: "Vegetables"},

	{ID: "16", Name: "Apple", Price: 150, CategoryKey: "Fruits"},
	{ID: "17", Name: "Mango", Price: 30, CategoryKey: "Fruits"},
	{ID: "18", Name: "Orange", Price: 45, CategoryKey: "Fruits"},
	{ID: "19", Name: "Grapes", Price: 45, CategoryKey: "Fruits"},

	{ID: "1", Name: "White Rice", Price: 60, CategoryKey: "Rice", ImageRef: "images/rice.png"},
	{ID: "2", Name: "Basmati Rice", Price: 60, CategoryKey: "Rice", ImageRef: "images/rice.png"},
	{ID: "3", Name: "Brown Rice", Price: 60, CategoryKey: "Rice", ImageRef: "images/rice.png"},
	{ID: "4", Name: "Matta Rice", Price: 60, CategoryKey: "Rice", ImageRef: "images/rice.png"},

	{ID: "5", Name: "Wheat Flour", Price: 55, CategoryKey: "Flours", ImageRef: "images/flour.png"},
	{ID: "6", Name: "Maida", Price: 50, CategoryKey: "Flours", ImageRef: "images/flour.png"},

	{ID: "7", Name: "Almonds", Price: 120, CategoryKey: "Nuts", ImageRef: "images/nuts.png"},
	{ID: "8", Name: "Cashews", Price: 150, CategoryKey: "Nuts", ImageRef: "images/nuts.png"},

	{ID: "12", Name: "Karuppukavini Rice", Price: 50, CategoryKey: "Millets", ImageRef: "images/karupukavuni.png"},
	{ID: "13", Name: "Kuthiraivali Rice", Price: 30, CategoryKey: "Millets"},
	{ID: "14", Name: "Samai Rice", Price: 45, CategoryKey: "Millets"},
	{ID: "15", Name: "Ragi Rice", Price: 45, CategoryKey: "Millets"},

	{ID: "9", Name: "Cardomom", Price: 50, CategoryKey: "Spices"},
	{ID: "10", Name: "Elachi", Price: 30, CategoryKey: "Spices"},
	{ID: "11", Name: "Clove", Price: 45, CategoryKey: "Spices"},

	// home screen row
	{ID: "home-1", Name: "Ginger", Price: 25, CategoryKey: FastMovingCategory, Weight: "250gm", ImageRef: "images/ginger.png"},
	{ID: "home-2", Name: "Apple", Price: 180, CategoryKey: FastMovingCategory, Weight: "1kg", ImageRef: "images/apple.png"},
	{ID: "home-3", Name: "Ladies Finger", Price: 35, CategoryKey: FastMovingCategory, Weight: "500gm", ImageRef: "images/ladiesfinger.png"},
	{ID: "home-4", Name: "Cauliflower", Price: 35, CategoryKey: FastMovingCategory, Weight: "750gm", ImageRef: "images/cauliflower.png"},
}
