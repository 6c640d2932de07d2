package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/example/samsa/internal/models"
)

// posFetcher is what the catalog needs from the POS client.
type posFetcher interface {
	get(path string) ([]byte, error)
}

// CatalogService serves the storefront menu from the POS inventory,
// degrading to the last good fetch and finally to the bundled static menu.
// The store must never come up empty.
type CatalogService struct {
	pos posFetcher

	mu       sync.RWMutex
	lastGood []models.MenuItem
}

// NewCatalogService builds a catalog over the given POS client.
func NewCatalogService(pos *PosClient) *CatalogService {
	return &CatalogService{pos: pos}
}

type billzProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Categories  []struct {
		Name string `json:"name"`
	} `json:"categories"`
	ShopPrices []struct {
		RetailPrice float64 `json:"retail_price"`
	} `json:"shop_prices"`
}

type billzProductsResponse struct {
	Products []billzProduct `json:"products"`
}

// Menu returns the current menu. POS failures fall back rather than
// propagate.
func (s *CatalogService) Menu() []models.MenuItem {
	items, err := s.fetch()
	if err != nil {
		log.Printf("[Catalog] POS fetch failed, serving fallback: %v", err)

		s.mu.RLock()
		cached := s.lastGood
		s.mu.RUnlock()

		if len(cached) > 0 {
			return cached
		}
		return FallbackMenu()
	}

	s.mu.Lock()
	s.lastGood = items
	s.mu.Unlock()

	return items
}

// Find looks an item up by id in the current menu.
func (s *CatalogService) Find(itemID string) (models.MenuItem, bool) {
	for _, item := range s.Menu() {
		if item.ID == itemID {
			return item, true
		}
	}
	return models.MenuItem{}, false
}

func (s *CatalogService) fetch() ([]models.MenuItem, error) {
	body, err := s.pos.get("products")
	if err != nil {
		return nil, err
	}

	var resp billzProductsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal products: %w", err)
	}

	if len(resp.Products) == 0 {
		return nil, fmt.Errorf("POS returned no products")
	}

	items := make([]models.MenuItem, 0, len(resp.Products))
	for _, p := range resp.Products {
		if p.ID == "" || p.Name == "" {
			continue
		}

		item := models.MenuItem{
			ID:          p.ID,
			Title:       p.Name,
			Description: p.Description,
		}
		if len(p.Categories) > 0 {
			item.Category = p.Categories[0].Name
		}
		if len(p.ShopPrices) > 0 {
			item.Price = int(p.ShopPrices[0].RetailPrice)
		}

		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("POS products had no usable entries")
	}

	return items, nil
}

// FallbackMenu is the bundled static catalog used when the POS is down at
// first fetch.
func FallbackMenu() []models.MenuItem {
	return []models.MenuItem{
		{ID: "samsa-beef", Title: "Beef Samsa", Price: 18000, Description: "Tandoor-baked pastry with minced beef and onion", Category: "samsa"},
		{ID: "samsa-lamb", Title: "Lamb Samsa", Price: 22000, Description: "Flaky pastry with lamb, tail fat and cumin", Category: "samsa"},
		{ID: "samsa-pumpkin", Title: "Pumpkin Samsa", Price: 15000, Description: "Seasonal pumpkin filling with black pepper", Category: "samsa"},
		{ID: "plov-wedding", Title: "Wedding Plov", Price: 35000, Description: "Rice with lamb, yellow carrot and chickpeas", Category: "mains"},
		{ID: "lagman-fried", Title: "Fried Lagman", Price: 32000, Description: "Hand-pulled noodles with beef and vegetables", Category: "mains"},
		{ID: "shurpa", Title: "Shurpa", Price: 28000, Description: "Lamb soup with potatoes and fresh herbs", Category: "soups"},
		{ID: "achichuk", Title: "Achichuk Salad", Price: 12000, Description: "Tomato, onion and basil salad", Category: "salads"},
		{ID: "tea-green", Title: "Green Tea", Price: 5000, Description: "Pot of kok-choy", Category: "drinks"},
		{ID: "ayran", Title: "Ayran", Price: 8000, Description: "Chilled salted yogurt drink", Category: "drinks"},
	}
}
