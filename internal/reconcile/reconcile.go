// Package reconcile joins cart entries against a separately fetched product
// catalog. The two sources disagree on id types (numbers vs numeric strings),
// so matching happens under loose numeric coercion.
package reconcile

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/veloara/go-storefront-api/internal/model"
)

// Entry is a cart line as received from a cart source. ProductID may be an
// integer, a float, a numeric string, or a json.Number.
type Entry struct {
	ProductID any
	Quantity  int
}

type Row struct {
	Product  model.Product
	Quantity int
}

// Result carries the merged rows plus the product ids of entries that parsed
// but matched nothing in the catalog. Callers decide what to do with orphans.
// Entries whose id fails coercion entirely are skipped; there is no numeric id
// to report for them.
type Result struct {
	Rows     []Row
	Total    decimal.Decimal
	Orphaned []int64
}

// CoerceID parses a product id under loose numeric rules. Floats must be
// whole numbers.
func CoerceID(v any) (int64, bool) {
	switch id := v.(type) {
	case int64:
		return id, true
	case int:
		return int64(id), true
	case json.Number:
		n, err := id.Int64()
		return n, err == nil
	case float64:
		n := int64(id)
		return n, float64(n) == id
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// MergeCart joins entries with the catalog by coerced product id, attaching
// quantities and the discounted line total. Entry order is preserved.
// Uncoercible ids are dropped, coercible ids without a catalog match land in
// Orphaned.
func MergeCart(entries []Entry, catalog []model.Product) Result {
	byID := make(map[int64]model.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	res := Result{Total: decimal.Zero}
	for _, e := range entries {
		id, ok := CoerceID(e.ProductID)
		if !ok {
			continue
		}
		product, found := byID[id]
		if !found {
			res.Orphaned = append(res.Orphaned, id)
			continue
		}
		res.Rows = append(res.Rows, Row{Product: product, Quantity: e.Quantity})
		line := product.FinalPrice().Mul(decimal.NewFromInt(int64(e.Quantity)))
		res.Total = res.Total.Add(line)
	}
	return res
}

// FromCartItems adapts typed cart items into entries.
func FromCartItems(items []model.CartItem) []Entry {
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, Entry{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return entries
}
