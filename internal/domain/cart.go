package domain

import "github.com/shopspring/decimal"

// CartItem is a single purchasable line in the cart. Identity is the
// fulfillment variant, not the base product: two sizes of the same shirt
// are distinct items.
type CartItem struct {
	ProductID string          `json:"product_id"`
	VariantID int64           `json:"variant_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int64           `json:"quantity"`
}

// Subtotal is quantity times unit price.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Cart holds the items a visitor selected, in insertion order. It lives
// only for the browsing session that owns it and is never shared between
// sessions, so it carries no lock.
type Cart struct {
	items    []CartItem
	onChange func(*Cart)
}

func NewCart() *Cart {
	return &Cart{}
}

// CartFromItems builds a cart from an already-assembled item list, merging
// duplicate variants into a single line. Quantities are summed directly, so
// construction cost depends on the number of lines, not their quantities.
func CartFromItems(items []CartItem) *Cart {
	c := NewCart()
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		merged := false
		for i := range c.items {
			if c.items[i].VariantID == item.VariantID {
				c.items[i].Quantity += qty
				merged = true
				break
			}
		}
		if !merged {
			line := item
			line.Quantity = qty
			c.items = append(c.items, line)
		}
	}
	return c
}

// Observe registers a callback invoked after every mutation. The display
// layer (item count badge, itemized list, total) hangs off this.
func (c *Cart) Observe(fn func(*Cart)) {
	c.onChange = fn
}

// Add puts one unit of the given variant into the cart. A variant already
// present has its quantity incremented instead of gaining a second line.
func (c *Cart) Add(productID string, variantID int64, name string, unitPrice decimal.Decimal, imageURL string) {
	for i := range c.items {
		if c.items[i].VariantID == variantID {
			c.items[i].Quantity++
			c.notify()
			return
		}
	}
	c.items = append(c.items, CartItem{
		ProductID: productID,
		VariantID: variantID,
		Name:      name,
		UnitPrice: unitPrice,
		ImageURL:  imageURL,
		Quantity:  1,
	})
	c.notify()
}

// Remove deletes the line for the given variant. Removing a variant that
// is not in the cart is a no-op, not an error.
func (c *Cart) Remove(variantID int64) {
	for i := range c.items {
		if c.items[i].VariantID == variantID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.notify()
			return
		}
	}
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []CartItem {
	items := make([]CartItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Cart) TotalItemCount() int64 {
	var total int64
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (c *Cart) notify() {
	if c.onChange != nil {
		c.onChange(c)
	}
}
