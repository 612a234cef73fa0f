package cart

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is a cart entry. Name and Price are display snapshots for the client;
// checkout submits only product ids and quantities, and the server reprices
// every line from the catalog.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	PreOrder  bool            `json:"pre_order,omitempty"`
	AddedAt   int64           `json:"added_at"`
}

// State holds the client-side cart and wishlist, keyed by product id. It is
// plain mutable state passed by reference to whatever view needs it; callers
// persist it explicitly (see Store) after mutating.
type State struct {
	Cart     map[uuid.UUID]*Line `json:"cart"`
	Wishlist map[uuid.UUID]Line  `json:"wishlist"`

	clock func() int64
}

func NewState() *State {
	return &State{
		Cart:     make(map[uuid.UUID]*Line),
		Wishlist: make(map[uuid.UUID]Line),
	}
}

func (s *State) now() int64 {
	if s.clock != nil {
		return s.clock()
	}
	return timeNow()
}

// Add puts quantity units of a product in the cart, merging with an existing
// line for the same product.
func (s *State) Add(line Line, quantity int) {
	if quantity <= 0 {
		return
	}
	if existing, ok := s.Cart[line.ProductID]; ok {
		existing.Quantity += quantity
		return
	}
	line.Quantity = quantity
	line.AddedAt = s.now()
	s.Cart[line.ProductID] = &line
}

// SetQuantity updates a line in place; zero or negative removes it.
func (s *State) SetQuantity(productID uuid.UUID, quantity int) {
	if quantity <= 0 {
		delete(s.Cart, productID)
		return
	}
	if line, ok := s.Cart[productID]; ok {
		line.Quantity = quantity
	}
}

func (s *State) Remove(productID uuid.UUID) {
	delete(s.Cart, productID)
}

func (s *State) Clear() {
	s.Cart = make(map[uuid.UUID]*Line)
}

// Lines returns cart entries in the order they were added.
func (s *State) Lines() []Line {
	lines := make([]Line, 0, len(s.Cart))
	for _, line := range s.Cart {
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].AddedAt != lines[j].AddedAt {
			return lines[i].AddedAt < lines[j].AddedAt
		}
		return lines[i].ProductID.String() < lines[j].ProductID.String()
	})
	return lines
}

// Subtotal is the client-side display total. The authoritative total is
// recomputed server-side at checkout.
func (s *State) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Cart {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

func (s *State) WishlistAdd(line Line) {
	line.Quantity = 0
	s.Wishlist[line.ProductID] = line
}

func (s *State) WishlistRemove(productID uuid.UUID) {
	delete(s.Wishlist, productID)
}

func (s *State) WishlistHas(productID uuid.UUID) bool {
	_, ok := s.Wishlist[productID]
	return ok
}

// MoveToCart promotes a wishlist entry to a single-quantity cart line.
func (s *State) MoveToCart(productID uuid.UUID) bool {
	line, ok := s.Wishlist[productID]
	if !ok {
		return false
	}
	delete(s.Wishlist, productID)
	s.Add(line, 1)
	return true
}
