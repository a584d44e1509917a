package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/cart"
)

func (s *Server) getCart(c *gin.Context) {
	sum, err := s.ledger.Summary(c.Request.Context(), sessionFrom(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewCart(sum))
}

// respondResult sends the changed entry with any stock notice and the
// repriced cart.
func (s *Server) respondResult(c *gin.Context, res cart.Result) {
	v := viewResult(res)
	if sum, err := s.ledger.Summary(c.Request.Context(), sessionFrom(c)); err == nil {
		cv := viewCart(sum)
		v.Cart = &cv
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) addToCart(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  *int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		badRequest(c, "invalid input")
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	res, err := s.ledger.AddItem(c.Request.Context(), sessionFrom(c), req.ProductID, qty)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondResult(c, res)
}

func (s *Server) updateCart(c *gin.Context) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}
	if req.Delta == 0 {
		s.writeError(c, apperr.Validation("delta must not be zero"))
		return
	}
	res, err := s.ledger.UpdateQuantity(c.Request.Context(), sessionFrom(c), c.Param("productId"), req.Delta)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondResult(c, res)
}

func (s *Server) removeCartItem(c *gin.Context) {
	if err := s.ledger.RemoveItem(c.Request.Context(), sessionFrom(c), c.Param("productId")); err != nil {
		s.writeError(c, err)
		return
	}
	s.getCart(c)
}

func (s *Server) clearCart(c *gin.Context) {
	if err := s.ledger.Clear(c.Request.Context(), sessionFrom(c)); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (s *Server) getWishlist(c *gin.Context) {
	entries, err := s.ledger.Wishlist(c.Request.Context(), sessionFrom(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) addToWishlist(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		badRequest(c, "invalid input")
		return
	}
	entry, err := s.ledger.AddToWishlist(c.Request.Context(), sessionFrom(c), req.ProductID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) removeFromWishlist(c *gin.Context) {
	if err := s.ledger.RemoveFromWishlist(c.Request.Context(), sessionFrom(c), c.Param("productId")); err != nil {
		s.writeError(c, err)
		return
	}
	s.getWishlist(c)
}

func (s *Server) moveToCart(c *gin.Context) {
	ctx := c.Request.Context()
	sess := sessionFrom(c)
	entries, err := s.ledger.Wishlist(ctx, sess)
	if err != nil {
		s.writeError(c, err)
		return
	}
	productID := c.Param("productId")
	for _, e := range entries {
		if e.ProductID != productID {
			continue
		}
		res, err := s.ledger.MoveToCart(ctx, sess, e)
		if err != nil && res.Entry.ProductID == "" {
			s.writeError(c, err)
			return
		}
		v := viewResult(res)
		if err != nil {
			// Added to the cart but still on the wishlist.
			c.JSON(http.StatusOK, gin.H{"entry": v.Entry, "notice": v.Notice, "warning": err.Error()})
			return
		}
		s.respondResult(c, res)
		return
	}
	s.writeError(c, apperr.NotFoundf("product %s is not in your wishlist", productID))
}
