package cart

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(name string, price int64) Line {
	return Line{
		ProductID: uuid.New(),
		Name:      name,
		Price:     decimal.NewFromInt(price),
	}
}

func TestAddMergesQuantities(t *testing.T) {
	state := NewState()
	kit := line("Oyster Kit", 100)

	state.Add(kit, 2)
	state.Add(kit, 3)

	assert.Len(t, state.Cart, 1)
	assert.Equal(t, 5, state.Cart[kit.ProductID].Quantity)
}

func TestAddIgnoresNonPositiveQuantity(t *testing.T) {
	state := NewState()
	state.Add(line("Oyster Kit", 100), 0)
	assert.Empty(t, state.Cart)
}

func TestSetQuantity(t *testing.T) {
	state := NewState()
	kit := line("Oyster Kit", 100)
	state.Add(kit, 2)

	state.SetQuantity(kit.ProductID, 7)
	assert.Equal(t, 7, state.Cart[kit.ProductID].Quantity)

	state.SetQuantity(kit.ProductID, 0)
	assert.Empty(t, state.Cart)
}

func TestSubtotal(t *testing.T) {
	state := NewState()
	state.Add(line("Oyster Kit", 100), 2)
	state.Add(line("Lion's Mane", 250), 1)

	assert.True(t, state.Subtotal().Equal(decimal.NewFromInt(450)),
		"expected 450, got %s", state.Subtotal())
}

func TestLinesKeepInsertionOrder(t *testing.T) {
	state := NewState()
	tick := int64(0)
	state.clock = func() int64 { tick++; return tick }

	first := line("First", 10)
	second := line("Second", 20)
	third := line("Third", 30)
	state.Add(second, 1)
	state.Add(third, 1)
	state.Add(first, 1)

	lines := state.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "Second", lines[0].Name)
	assert.Equal(t, "Third", lines[1].Name)
	assert.Equal(t, "First", lines[2].Name)
}

func TestWishlist(t *testing.T) {
	state := NewState()
	kit := line("Reishi", 500)

	state.WishlistAdd(kit)
	assert.True(t, state.WishlistHas(kit.ProductID))

	assert.True(t, state.MoveToCart(kit.ProductID))
	assert.False(t, state.WishlistHas(kit.ProductID))
	assert.Equal(t, 1, state.Cart[kit.ProductID].Quantity)

	assert.False(t, state.MoveToCart(kit.ProductID), "moving twice should fail")
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewStore(path)

	state := NewState()
	kit := line("Oyster Kit", 100)
	state.Add(kit, 2)
	state.WishlistAdd(line("Reishi", 500))
	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Cart[kit.ProductID].Quantity)
	assert.True(t, loaded.Cart[kit.ProductID].Price.Equal(decimal.NewFromInt(100)))
	assert.Len(t, loaded.Wishlist, 1)
}

func TestLoadMissingFileYieldsEmptyState(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope", "state.json"))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, state.Cart)
	assert.Empty(t, state.Wishlist)
}
