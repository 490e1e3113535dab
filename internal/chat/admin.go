package chat

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zornetta/Chatbot-Barista/internal/receipts"
)

// OrderLister reads archived receipts. Satisfied by receipts.Service.
type OrderLister interface {
	List(ctx context.Context, limit int) ([]receipts.Receipt, error)
}

// MenuReloader re-reads the catalog source. Satisfied by
// menu.JSONRepository.
type MenuReloader interface {
	Reload() error
}

// AdminHandler serves the staff endpoints behind authentication.
type AdminHandler struct {
	orders OrderLister
	menu   MenuReloader
}

func NewAdminHandler(orders OrderLister, menu MenuReloader) *AdminHandler {
	return &AdminHandler{orders: orders, menu: menu}
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	orders, err := h.orders.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "could not list orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

func (h *AdminHandler) ReloadMenu(c *gin.Context) {
	if h.menu == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"message": "menu source does not support reloading",
		})
		return
	}

	if err := h.menu.Reload(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "could not reload menu: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "menu reloaded",
	})
}
