// internal/handlers/price.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pricebyte/catalog-backend/internal/services"
	"github.com/pricebyte/catalog-backend/internal/utils"
)

type PriceHandler struct {
	priceService *services.PriceService
}

func NewPriceHandler(priceService *services.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
	}
}

type priceUpdateRequest struct {
	NewPrice float64 `json:"new_price" validate:"gte=0"`
}

// PUT /listings/:id/price
func (h *PriceHandler) UpdatePrice(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	var req priceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	update, err := h.priceService.RecordPrice(listingID, req.NewPrice)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, update)
}

// GET /listings/:id/history
func (h *PriceHandler) GetPriceHistory(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	records, err := h.priceService.History(listingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"price_history": records,
	})
}
