package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teakspice-catalog/internal/admin"
	"teakspice-catalog/internal/models"
	"teakspice-catalog/internal/pricing"
)

func (s *Server) adminCreateProduct(c *gin.Context) {
	var in admin.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid input")
		return
	}
	p, err := s.admin.CreateProduct(c.Request.Context(), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewProduct(*p))
}

func (s *Server) adminUpdateProduct(c *gin.Context) {
	var in admin.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid input")
		return
	}
	p, err := s.admin.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewProduct(*p))
}

func (s *Server) adminDeleteProduct(c *gin.Context) {
	if err := s.admin.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) adminSetOffer(c *gin.Context) {
	var req struct {
		Name  string            `json:"offerName"`
		Price pricing.PriceText `json:"offerPrice"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}
	p, err := s.admin.SetOffer(c.Request.Context(), c.Param("id"), pricing.OfferInput{Name: req.Name, Price: string(req.Price)})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewProduct(*p))
}

func (s *Server) adminClearOffer(c *gin.Context) {
	p, err := s.admin.ClearOffer(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewProduct(*p))
}

func (s *Server) adminSetStock(c *gin.Context) {
	var req struct {
		Stock *int `json:"stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Stock == nil {
		badRequest(c, "stock is required")
		return
	}
	if err := s.admin.SetStock(c.Request.Context(), c.Param("id"), *req.Stock); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "stock": *req.Stock})
}

func (s *Server) adminCreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}
	cat, err := s.admin.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) adminSetCategoryActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		badRequest(c, "active is required")
		return
	}
	if err := s.admin.SetCategoryActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "isActive": *req.Active})
}

func (s *Server) adminListOrders(c *gin.Context) {
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		s.writeError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		s.writeError(c, err)
		return
	}
	orders, err := s.orders.AllOrders(c.Request.Context(), limit, offset)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOrders(orders))
}

func (s *Server) adminUpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status        models.OrderStatus   `json:"status"`
		PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}
	o, err := s.orders.UpdateStatus(c.Request.Context(), c.Param("orderId"), req.Status, req.PaymentStatus)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOrder(*o))
}
