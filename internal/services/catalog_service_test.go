package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePos swaps the POS client out from under the catalog.
type fakePos struct {
	body []byte
	err  error
}

func (f fakePos) get(string) ([]byte, error) { return f.body, f.err }

func TestMenuMapsPosProducts(t *testing.T) {
	body := []byte(`{"products":[
		{"id":"p1","name":"Lamb Samsa","description":"flaky","categories":[{"name":"samsa"}],"shop_prices":[{"retail_price":22000}]},
		{"id":"","name":"broken"},
		{"id":"p2","name":"Green Tea"}
	]}`)

	s := &CatalogService{pos: fakePos{body: body}}

	items := s.Menu()
	require.Len(t, items, 2)

	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, "Lamb Samsa", items[0].Title)
	assert.Equal(t, 22000, items[0].Price)
	assert.Equal(t, "samsa", items[0].Category)

	// Missing price and category stay zero-valued, the item still lists.
	assert.Equal(t, "p2", items[1].ID)
	assert.Zero(t, items[1].Price)
}

func TestMenuFallsBackToStaticCatalog(t *testing.T) {
	s := &CatalogService{pos: fakePos{err: errors.New("POS down")}}

	items := s.Menu()
	require.NotEmpty(t, items, "the store must never come up empty")
	assert.Equal(t, FallbackMenu(), items)
}

func TestMenuServesLastGoodFetchBeforeFallback(t *testing.T) {
	body := []byte(`{"products":[{"id":"p1","name":"Plov","shop_prices":[{"retail_price":35000}]}]}`)

	s := &CatalogService{pos: fakePos{body: body}}
	first := s.Menu()
	require.Len(t, first, 1)

	// POS goes down; the cached fetch keeps serving.
	s.pos = fakePos{err: errors.New("POS down")}
	assert.Equal(t, first, s.Menu())
}

func TestFindLooksUpById(t *testing.T) {
	s := &CatalogService{pos: fakePos{err: errors.New("POS down")}}

	item, found := s.Find("samsa-beef")
	require.True(t, found)
	assert.Equal(t, "Beef Samsa", item.Title)

	_, found = s.Find("no-such-item")
	assert.False(t, found)
}
