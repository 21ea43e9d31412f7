package controllers

import (
	"net/http"
	"time"

	"annotation-review-api/config"
	"annotation-review-api/models"
	"annotation-review-api/utils"

	"github.com/gin-gonic/gin"
)

type paymentRequest struct {
	ProjectCode  string  `json:"project_code" binding:"required"`
	AudioMinutes float64 `json:"audio_minutes"`
	Segments     int     `json:"segments"`
	Syllables    int     `json:"syllables"`
	Text         string  `json:"text"`
}

// CalculatePayment computes the payable amount for a project's work
// metrics. When a text body is supplied instead of an explicit syllable
// count, syllables are derived with the Tibetan tokenizer. An unconfigured
// project code returns amount 0 with configured=false, not an error.
func CalculatePayment(c *gin.Context) {
	initServices()

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	syllables := req.Syllables
	if syllables == 0 && req.Text != "" {
		syllables = utils.CountSyllables(req.Text)
	}

	result, err := paymentSvc.Calculate(req.ProjectCode, req.AudioMinutes, req.Segments, syllables)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": result})
}

// CountSyllables exposes the tokenizer for previewing payroll counts.
func CountSyllables(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"syllables": utils.CountSyllables(req.Text),
		"words":     utils.CountWords(req.Text),
	})
}

// GetPaymentRates lists the active rate table.
func GetPaymentRates(c *gin.Context) {
	var rates []models.PaymentRate
	if err := config.DB.Where("is_active = ?", true).
		Order("project_code ASC").
		Find(&rates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment rates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rates": rates, "total": len(rates)})
}

// UpsertPaymentRate creates or replaces the rate row for a project code.
func UpsertPaymentRate(c *gin.Context) {
	initServices()

	var req struct {
		ProjectCode     string  `json:"project_code" binding:"required"`
		AudioMinuteRate float64 `json:"audio_minute_rate"`
		SegmentRate     float64 `json:"segment_rate"`
		SyllableRate    float64 `json:"syllable_rate"`
		Currency        string  `json:"currency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.SegmentRate > 0 && req.SyllableRate > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A project pays segments or syllables, not both"})
		return
	}

	now := time.Now()
	var rate models.PaymentRate
	err := config.DB.Where("project_code = ?", req.ProjectCode).First(&rate).Error
	if err != nil {
		rate = models.PaymentRate{
			ProjectCode: req.ProjectCode,
			CreatedAt:   now,
		}
	}

	rate.AudioMinuteRate = req.AudioMinuteRate
	rate.SegmentRate = req.SegmentRate
	rate.SyllableRate = req.SyllableRate
	rate.Currency = req.Currency
	rate.IsActive = true
	rate.UpdatedAt = &now

	if err := config.DB.Save(&rate).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save payment rate"})
		return
	}

	paymentSvc.ClearCache()
	c.JSON(http.StatusOK, gin.H{"rate": rate})
}
