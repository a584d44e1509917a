package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/filter"
	"teakspice-catalog/internal/models"
	"teakspice-catalog/internal/search"
)

const maxPageSize = 100

// queryList collects a repeated query parameter, also splitting commas, so
// ?occasion=a&occasion=b and ?occasion=a,b mean the same.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func parseSelection(c *gin.Context) (filter.Selection, error) {
	sel := filter.Selection{
		Categories: queryList(c, "category"),
		Occasions:  queryList(c, "occasion"),
	}
	for _, raw := range queryList(c, "band") {
		b, err := filter.ParseBand(raw)
		if err != nil {
			return filter.Selection{}, err
		}
		sel.PriceBands = append(sel.PriceBands, b)
	}
	if v := c.Query("offers"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return filter.Selection{}, apperr.Validation("offers must be true or false")
		}
		sel.PromotionalOnly = on
	}
	return sel, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, apperr.Validationf("%s must be a number", key)
	}
	return n, nil
}

// loadCatalog fetches products and categories concurrently.
func (s *Server) loadCatalog(ctx context.Context) ([]models.Product, []models.Category, error) {
	var products []models.Product
	var categories []models.Category
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.remote.Do(ctx, "list products", func(ctx context.Context) error {
			var err error
			products, err = s.catalog.Products(ctx)
			return err
		})
	})
	g.Go(func() error {
		return s.remote.Do(ctx, "list categories", func(ctx context.Context) error {
			var err error
			categories, err = s.catalog.Categories(ctx)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return products, categories, nil
}

func (s *Server) listProducts(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	page, err := queryInt(c, "page", 1)
	if err != nil {
		s.writeError(c, err)
		return
	}
	pageSize, err := queryInt(c, "pageSize", s.pageSize)
	if err != nil {
		s.writeError(c, err)
		return
	}
	pageSize = min(pageSize, maxPageSize)

	products, categories, err := s.loadCatalog(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	view := filter.NewView(pageSize)
	view.SetProducts(products)
	view.SetSelection(sel)
	items := view.Page(page)

	c.JSON(http.StatusOK, gin.H{
		"items":     viewProducts(items),
		"count":     view.Count(),
		"page":      view.CurrentPage(),
		"pageCount": view.PageCount(),
		"pageSize":  view.PageSize(),
		"selection": view.Selection(),
		"facets":    filter.Facets(products, categories),
	})
}

func (s *Server) getProduct(c *gin.Context) {
	var p *models.Product
	err := s.remote.Do(c.Request.Context(), "load product", func(ctx context.Context) error {
		var err error
		p, err = s.catalog.Product(ctx, c.Param("id"))
		return err
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewProduct(*p))
}

func (s *Server) facets(c *gin.Context) {
	products, categories, err := s.loadCatalog(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, filter.Facets(products, categories))
}

func (s *Server) listCategories(c *gin.Context) {
	var categories []models.Category
	err := s.remote.Do(c.Request.Context(), "list categories", func(ctx context.Context) error {
		var err error
		categories, err = s.catalog.Categories(ctx)
		return err
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	active := make([]models.Category, 0, len(categories))
	for _, cat := range categories {
		if cat.IsActive {
			active = append(active, cat)
		}
	}
	c.JSON(http.StatusOK, active)
}

func (s *Server) lookup(ctx context.Context, query string) ([]models.Product, error) {
	if query == "" {
		return []models.Product{}, nil
	}
	var products []models.Product
	err := s.remote.Do(ctx, "search products", func(ctx context.Context) error {
		var err error
		products, err = s.catalog.SearchProducts(ctx, query)
		return err
	})
	return products, err
}

// search answers 204 when a newer query from the same caller overtook this one.
func (s *Server) search(c *gin.Context) {
	key := c.ClientIP()
	if sess := s.optionalSession(c); sess.Authenticated() {
		key = "user:" + sess.UserID
	}
	results, err := s.searchers.get(key).Search(c.Request.Context(), c.Query("q"))
	if errors.Is(err, search.ErrStale) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": c.Query("q"), "items": viewProducts(results)})
}

// searchers keeps one Searcher per caller so that only a caller's own newer
// query supersedes theirs.
type searchers struct {
	debounce time.Duration
	lookup   search.Lookup

	mu   sync.Mutex
	byID map[string]*searcherEntry
}

type searcherEntry struct {
	searcher *search.Searcher
	lastUsed time.Time
}

const searcherIdle = 10 * time.Minute

func newSearchers(debounce time.Duration, lookup search.Lookup) *searchers {
	return &searchers{debounce: debounce, lookup: lookup, byID: make(map[string]*searcherEntry)}
}

func (s *searchers) get(key string) *search.Searcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	e, ok := s.byID[key]
	if !ok {
		for k, old := range s.byID {
			if now.Sub(old.lastUsed) > searcherIdle {
				delete(s.byID, k)
			}
		}
		e = &searcherEntry{searcher: search.NewSearcher(s.debounce, s.lookup)}
		s.byID[key] = e
	}
	e.lastUsed = now
	return e.searcher
}
