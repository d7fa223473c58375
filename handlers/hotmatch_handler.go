package handlers

import (
	"net/http"
	"strconv"

	"lexiq-backend/models"
	"lexiq-backend/service"

	"github.com/gin-gonic/gin"
)

// HotMatchHandler handles HTTP requests for interchangeable-term detection
// and crowd consensus tracking
type HotMatchHandler struct {
	detectorService  *service.DetectorService
	consensusService *service.ConsensusService
}

// NewHotMatchHandler creates a new hot match handler
func NewHotMatchHandler(detectorService *service.DetectorService, consensusService *service.ConsensusService) *HotMatchHandler {
	return &HotMatchHandler{
		detectorService:  detectorService,
		consensusService: consensusService,
	}
}

// requestUserID resolves the acting reviewer from the X-User-ID header
func requestUserID(c *gin.Context) string {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		return "anonymous"
	}
	return userID
}

// DetectTermRequest represents a single candidate term in a detect request
type DetectTermRequest struct {
	Text    string `json:"text" binding:"required"`
	Context string `json:"context"`
}

// DetectRequest represents the request body for hot match detection
type DetectRequest struct {
	Terms    []DetectTermRequest `json:"terms" binding:"required"`
	Domain   string              `json:"domain" binding:"required"`
	Language string              `json:"language" binding:"required"`
	Content  string              `json:"content"`
}

// Detect handles POST /api/v2/hot-matches/detect
func (h *HotMatchHandler) Detect(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	terms := make([]string, 0, len(req.Terms))
	for _, t := range req.Terms {
		terms = append(terms, t.Text)
	}

	matches := h.detectorService.DetectInterchangeableTerms(terms, req.Domain, req.Content)

	hotMatches := make([]gin.H, 0, len(matches))
	for _, m := range matches {
		hash := service.GroupHash(m.BaseTerm, req.Domain)
		allTerms := append([]string{m.DetectedTerm}, m.Alternatives...)
		percentages := h.consensusService.GetAllPercentages(c.Request.Context(), hash, allTerms)

		hotMatches = append(hotMatches, gin.H{
			"baseTerm":             m.BaseTerm,
			"baseTermHash":         hash,
			"detectedTerm":         m.DetectedTerm,
			"interchangeableTerms": allTerms,
			"percentages":          percentages,
			"domain":               m.Domain,
			"language":             req.Language,
			"confidence":           m.Confidence,
			"context":              m.Context,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"hotMatches":    hotMatches,
			"totalDetected": len(hotMatches),
		},
	})
}

// RecordSelectionRequest represents the request body for recording a choice
type RecordSelectionRequest struct {
	BaseTerm      string   `json:"baseTerm" binding:"required"`
	SelectedTerm  string   `json:"selectedTerm" binding:"required"`
	RejectedTerms []string `json:"rejectedTerms"`
	Domain        string   `json:"domain" binding:"required"`
	Language      string   `json:"language" binding:"required"`
	ProjectID     *string  `json:"projectId"`
	SessionID     *string  `json:"sessionId"`
}

// RecordSelection handles POST /api/v2/hot-matches/record-selection
func (h *HotMatchHandler) RecordSelection(c *gin.Context) {
	var req RecordSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	userID := requestUserID(c)

	err := h.consensusService.RecordSelection(c.Request.Context(), userID, service.RecordSelectionRequest{
		BaseTerm:      req.BaseTerm,
		SelectedTerm:  req.SelectedTerm,
		RejectedTerms: req.RejectedTerms,
		Domain:        req.Domain,
		Language:      req.Language,
		ProjectID:     req.ProjectID,
		SessionID:     req.SessionID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RECORD_FAILED",
				"message": "Failed to record selection",
			},
		})
		return
	}

	hash := service.GroupHash(req.BaseTerm, req.Domain)
	percentage := h.consensusService.GetPercentage(c.Request.Context(), hash, req.SelectedTerm)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"baseTermHash": hash,
			"selectedTerm": req.SelectedTerm,
			"percentage":   percentage,
		},
	})
}

// GetPercentage handles GET /api/v2/hot-matches/percentage
func (h *HotMatchHandler) GetPercentage(c *gin.Context) {
	hash := c.Query("hash")
	term := c.Query("term")
	if hash == "" || term == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "hash and term query parameters are required",
			},
		})
		return
	}

	percentage := h.consensusService.GetPercentage(c.Request.Context(), hash, term)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"baseTermHash": hash,
			"term":         term,
			"percentage":   percentage,
		},
	})
}

// UserHistory handles GET /api/v2/hot-matches/user-history
func (h *HotMatchHandler) UserHistory(c *gin.Context) {
	userID := requestUserID(c)
	limit := parseLimit(c.Query("limit"), 50)

	history := h.consensusService.UserHistory(c.Request.Context(), userID, limit)
	if history == nil {
		history = []models.SelectionRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"userId":     userID,
			"selections": history,
			"total":      len(history),
		},
	})
}

// Trending handles GET /api/v2/hot-matches/trending/:domain
func (h *HotMatchHandler) Trending(c *gin.Context) {
	domain := c.Param("domain")
	limit := parseLimit(c.Query("limit"), 10)

	trending := h.consensusService.TrendingTerms(c.Request.Context(), domain, limit)
	if trending == nil {
		trending = []models.TermUsage{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"domain": domain,
			"terms":  trending,
			"total":  len(trending),
		},
	})
}

func parseLimit(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
