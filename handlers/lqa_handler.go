package handlers

import (
	"net/http"

	"lexiq-backend/models"
	"lexiq-backend/service"

	"github.com/gin-gonic/gin"
)

// LQAHandler handles HTTP requests for term validation and consistency checks
type LQAHandler struct {
	validatorService   *service.ValidatorService
	consistencyService *service.ConsistencyService
}

// NewLQAHandler creates a new LQA handler
func NewLQAHandler(validatorService *service.ValidatorService, consistencyService *service.ConsistencyService) *LQAHandler {
	return &LQAHandler{
		validatorService:   validatorService,
		consistencyService: consistencyService,
	}
}

// ValidateTermRequest represents the request body for validating a term
type ValidateTermRequest struct {
	Term     string `json:"term" binding:"required"`
	Domain   string `json:"domain" binding:"required"`
	Language string `json:"language" binding:"required"`
	Context  string `json:"context"`
}

// ValidateTerm handles POST /api/v2/lexiq/validate
func (h *LQAHandler) ValidateTerm(c *gin.Context) {
	var req ValidateTermRequest
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

	result := h.validatorService.ValidateTerm(c.Request.Context(), service.ValidateTermRequest{
		Term:     req.Term,
		Domain:   req.Domain,
		Language: req.Language,
		Context:  req.Context,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// TermInputRequest represents a single term in a batch validation request
type TermInputRequest struct {
	Text    string `json:"text" binding:"required"`
	Context string `json:"context"`
}

// BatchValidateRequest represents the request body for batch validation
type BatchValidateRequest struct {
	Terms    []TermInputRequest `json:"terms" binding:"required"`
	Domain   string             `json:"domain" binding:"required"`
	Language string             `json:"language" binding:"required"`
}

// BatchValidateTerms handles POST /api/v2/lexiq/validate-batch
func (h *LQAHandler) BatchValidateTerms(c *gin.Context) {
	var req BatchValidateRequest
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

	terms := make([]service.TermInput, 0, len(req.Terms))
	for _, t := range req.Terms {
		terms = append(terms, service.TermInput{Text: t.Text, Context: t.Context})
	}

	results := h.validatorService.BatchValidateTerms(c.Request.Context(), terms, req.Domain, req.Language)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"results": results,
			"total":   len(results),
		},
	})
}

// GlossaryTermRequest represents a glossary term in a consistency request
type GlossaryTermRequest struct {
	ID            string  `json:"id"`
	Source        string  `json:"source" binding:"required"`
	Target        string  `json:"target" binding:"required"`
	Domain        *string `json:"domain"`
	CaseSensitive bool    `json:"caseSensitive"`
	Forbidden     bool    `json:"forbidden"`
}

// CustomRuleRequest represents a custom rule in a consistency request
type CustomRuleRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Pattern     string  `json:"pattern" binding:"required"`
	Replacement *string `json:"replacement"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	Enabled     *bool   `json:"enabled"`
}

// CheckConsistencyRequest represents the request body for a consistency check
type CheckConsistencyRequest struct {
	SourceText      string                `json:"sourceText" binding:"required"`
	TranslationText string                `json:"translationText" binding:"required"`
	SourceLanguage  string                `json:"sourceLanguage" binding:"required"`
	TargetLanguage  string                `json:"targetLanguage" binding:"required"`
	GlossaryTerms   []GlossaryTermRequest `json:"glossaryTerms"`
	CustomRules     []CustomRuleRequest   `json:"customRules"`
	CheckTypes      []string              `json:"checkTypes"`
	EnableCache     *bool                 `json:"enableCache"`
}

// CheckConsistency handles POST /api/v2/lqa/consistency-check
func (h *LQAHandler) CheckConsistency(c *gin.Context) {
	var req CheckConsistencyRequest
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

	glossary := make([]models.GlossaryTerm, 0, len(req.GlossaryTerms))
	for _, t := range req.GlossaryTerms {
		glossary = append(glossary, models.GlossaryTerm{
			ID:            t.ID,
			Source:        t.Source,
			Target:        t.Target,
			Domain:        t.Domain,
			CaseSensitive: t.CaseSensitive,
			Forbidden:     t.Forbidden,
		})
	}

	rules := make([]models.CustomRule, 0, len(req.CustomRules))
	for _, r := range req.CustomRules {
		severity := models.SeverityMinor
		if r.Severity != "" {
			severity = models.IssueSeverity(r.Severity)
		}
		enabled := true
		if r.Enabled != nil {
			enabled = *r.Enabled
		}
		rules = append(rules, models.CustomRule{
			ID:          r.ID,
			Name:        r.Name,
			Type:        models.RuleType(r.Type),
			Pattern:     r.Pattern,
			Replacement: r.Replacement,
			Description: r.Description,
			Severity:    severity,
			Enabled:     enabled,
		})
	}

	checkTypes := make([]models.CheckType, 0, len(req.CheckTypes))
	for _, ct := range req.CheckTypes {
		checkTypes = append(checkTypes, models.CheckType(ct))
	}

	skipCache := false
	if req.EnableCache != nil && !*req.EnableCache {
		skipCache = true
	}

	result := h.consistencyService.CheckConsistency(c.Request.Context(), service.CheckConsistencyRequest{
		Source:         req.SourceText,
		Target:         req.TranslationText,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		Glossary:       glossary,
		CustomRules:    rules,
		CheckTypes:     checkTypes,
		SkipCache:      skipCache,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
