package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finsight/models"
	"finsight/services/alerts"
	"finsight/services/marketdata"
)

// AlertController handles price alert management.
type AlertController struct {
	store *alerts.Store
}

// NewAlertController creates a new alert controller.
func NewAlertController(store *alerts.Store) *AlertController {
	return &AlertController{store: store}
}

// CreateAlertRequest is the POST /alerts payload.
type CreateAlertRequest struct {
	Symbol      string  `json:"symbol" binding:"required"`
	Condition   string  `json:"condition" binding:"required,oneof=above below"`
	TargetPrice float64 `json:"target_price" binding:"required,gt=0"`
}

// CreateAlert registers a new price alert.
// POST /api/v1/alerts
func (ac *AlertController) CreateAlert(c *gin.Context) {
	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: symbol, condition (above|below) and a positive target_price are required"})
		return
	}

	symbol := normalizeSymbol(req.Symbol)
	if err := marketdata.ValidateSymbol(symbol); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid symbol"})
		return
	}

	alert := ac.store.Append(models.Alert{
		Symbol:      symbol,
		Condition:   models.AlertCondition(req.Condition),
		TargetPrice: decimal.NewFromFloat(req.TargetPrice),
	})

	c.JSON(http.StatusCreated, gin.H{"data": alert})
}

// ListAlerts returns all alerts in creation order.
// GET /api/v1/alerts
func (ac *AlertController) ListAlerts(c *gin.Context) {
	list := ac.store.List()
	c.JSON(http.StatusOK, gin.H{
		"data":  list,
		"count": len(list),
	})
}
