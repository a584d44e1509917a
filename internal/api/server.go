// Package api is the JSON HTTP surface of the catalog.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teakspice-catalog/internal/admin"
	"teakspice-catalog/internal/cart"
	"teakspice-catalog/internal/filter"
	"teakspice-catalog/internal/models"
	"teakspice-catalog/internal/order"
	"teakspice-catalog/internal/remote"
	"teakspice-catalog/internal/session"
)

// Catalog is the read side of the product store.
type Catalog interface {
	Products(ctx context.Context) ([]models.Product, error)
	Product(ctx context.Context, id string) (*models.Product, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
}

type Users interface {
	CreateUser(ctx context.Context, u *models.User) error
	User(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, name, email, phone string) error
}

type Deps struct {
	Catalog        Catalog
	Users          Users
	Ledger         *cart.Ledger
	Orders         *order.Service
	Admin          *admin.Service
	Issuer         *session.Issuer
	Remote         remote.Policy
	Logger         *zap.Logger
	PageSize       int
	SearchDebounce time.Duration
}

type Server struct {
	catalog   Catalog
	users     Users
	ledger    *cart.Ledger
	orders    *order.Service
	admin     *admin.Service
	issuer    *session.Issuer
	remote    remote.Policy
	logger    *zap.Logger
	pageSize  int
	searchers *searchers
}

func New(d Deps) *Server {
	pageSize := d.PageSize
	if pageSize <= 0 {
		pageSize = filter.DefaultPageSize
	}
	s := &Server{
		catalog:  d.Catalog,
		users:    d.Users,
		ledger:   d.Ledger,
		orders:   d.Orders,
		admin:    d.Admin,
		issuer:   d.Issuer,
		remote:   d.Remote,
		logger:   d.Logger,
		pageSize: pageSize,
	}
	s.searchers = newSearchers(d.SearchDebounce, s.lookup)
	return s
}

// Router builds the gin engine. Extra middleware, such as CORS, runs before
// any route.
func (s *Server) Router(middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	r.Use(middleware...)

	api := r.Group("/api")
	{
		api.POST("/register", s.register)
		api.POST("/login", s.login)

		api.GET("/products", s.listProducts)
		api.GET("/products/:id", s.getProduct)
		api.GET("/facets", s.facets)
		api.GET("/search", s.search)
		api.GET("/categories", s.listCategories)
	}

	auth := r.Group("/api", s.authenticate)
	{
		auth.GET("/user/profile", s.getProfile)
		auth.PUT("/user/profile", s.updateProfile)

		auth.GET("/cart", s.getCart)
		auth.POST("/cart", s.addToCart)
		auth.PUT("/cart/:productId", s.updateCart)
		auth.DELETE("/cart/:productId", s.removeCartItem)
		auth.POST("/cart/clear", s.clearCart)

		auth.GET("/wishlist", s.getWishlist)
		auth.POST("/wishlist", s.addToWishlist)
		auth.DELETE("/wishlist/:productId", s.removeFromWishlist)
		auth.POST("/wishlist/:productId/move", s.moveToCart)

		auth.GET("/orders", s.getOrders)
		auth.POST("/orders", s.placeOrder)
		auth.GET("/orders/:orderId", s.getOrder)
	}

	adm := r.Group("/api/admin", s.authenticate, s.requireAdmin)
	{
		adm.POST("/products", s.adminCreateProduct)
		adm.PUT("/products/:id", s.adminUpdateProduct)
		adm.DELETE("/products/:id", s.adminDeleteProduct)
		adm.PUT("/products/:id/offer", s.adminSetOffer)
		adm.DELETE("/products/:id/offer", s.adminClearOffer)
		adm.PUT("/products/:id/stock", s.adminSetStock)
		adm.POST("/categories", s.adminCreateCategory)
		adm.PUT("/categories/:id/active", s.adminSetCategoryActive)
		adm.GET("/orders", s.adminListOrders)
		adm.PUT("/orders/:orderId/status", s.adminUpdateOrderStatus)
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	return r
}
