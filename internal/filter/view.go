package filter

import "teakspice-catalog/internal/models"

// DefaultPageSize is used when a View is created with a non-positive size.
const DefaultPageSize = 12

// View is a paginated, filtered window over a catalog. Changing the catalog
// or the selection recomputes the filtered set from the full collection, and
// the current page goes back to 1 whenever that set changes.
type View struct {
	pageSize int
	all      []models.Product
	sel      Selection
	filtered []models.Product
	page     int
}

func NewView(pageSize int) *View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{pageSize: pageSize, page: 1}
}

// SetProducts replaces the catalog, e.g. after a reload.
func (v *View) SetProducts(products []models.Product) {
	v.all = products
	v.recompute()
}

func (v *View) SetSelection(sel Selection) {
	v.sel = sel
	v.recompute()
}

func (v *View) Selection() Selection {
	return v.sel
}

func (v *View) recompute() {
	next := Apply(v.all, v.sel)
	if !sameProducts(v.filtered, next) {
		v.page = 1
	}
	v.filtered = next
}

func sameProducts(a, b []models.Product) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// Count is the number of products after filtering.
func (v *View) Count() int {
	return len(v.filtered)
}

func (v *View) PageSize() int {
	return v.pageSize
}

// PageCount is ceil(Count / PageSize).
func (v *View) PageCount() int {
	return (len(v.filtered) + v.pageSize - 1) / v.pageSize
}

func (v *View) CurrentPage() int {
	return v.page
}

// Page moves to page n, clamped to [1, max(1, PageCount)], and returns it.
func (v *View) Page(n int) []models.Product {
	v.page = max(1, min(n, v.PageCount()))
	return v.Items()
}

// Items returns the current page.
func (v *View) Items() []models.Product {
	start := (v.page - 1) * v.pageSize
	if start >= len(v.filtered) {
		return []models.Product{}
	}
	end := min(start+v.pageSize, len(v.filtered))
	return v.filtered[start:end]
}
