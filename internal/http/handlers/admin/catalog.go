package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/dto"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/middleware"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/catalog"
)

type CatalogHandler struct {
	Svc *catalog.Service
}

// GET /api/admin/products/:id/packs
func (h *CatalogHandler) Packs(c *gin.Context) {
	packs, err := h.Svc.Packs(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": dto.NewPacks(packs)})
}

// POST /api/admin/products/:id/sync-prices
// Re-derives every pack price from the product's base price.
func (h *CatalogHandler) SyncPrices(c *gin.Context) {
	packs, err := h.Svc.SyncPackPrices(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": dto.NewPacks(packs)})
}
