package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teakspice-catalog/internal/order"
)

func (s *Server) getOrders(c *gin.Context) {
	orders, err := s.orders.Orders(c.Request.Context(), sessionFrom(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOrders(orders))
}

func (s *Server) getOrder(c *gin.Context) {
	o, err := s.orders.Order(c.Request.Context(), sessionFrom(c), c.Param("orderId"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOrder(*o))
}

func (s *Server) placeOrder(c *gin.Context) {
	var req order.Checkout
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}
	o, err := s.orders.PlaceOrder(c.Request.Context(), sessionFrom(c), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"order":   viewOrder(*o),
	})
}
