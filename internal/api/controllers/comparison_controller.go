package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"net/http"
	"tripforge/internal/models/request_models"
	"tripforge/internal/services"
	"tripforge/pkg/utils"
)

type ComparisonController struct {
	comparisonService services.ComparisonServiceInterface
}

func NewComparisonController(comparisonService services.ComparisonServiceInterface) *ComparisonController {
	return &ComparisonController{
		comparisonService: comparisonService,
	}
}

// CreateComparison godoc
// @Summary Create a trip optimization session
// @Description Create a comparison for the traveler's trip intent; baseline items may be sent now or at generation time
// @Tags Comparison
// @Accept json
// @Produce json
// @Param request body request_models.CreateComparisonRequest true "Trip intent"
// @Success 200 {object} response_models.ComparisonResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /comparisons [post]
func (ct *ComparisonController) CreateComparison(c *gin.Context) {
	var req request_models.CreateComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	userId, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	comparison, err := ct.comparisonService.CreateComparison(c.Request.Context(), userId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, comparison, "Comparison created successfully")
}

// StartGeneration godoc
// @Summary Start a generation round
// @Description Kick off asynchronous variant generation; poll the status endpoint until ready or failed
// @Tags Comparison
// @Accept json
// @Produce json
// @Param comparisonId path string true "Comparison ID"
// @Param request body request_models.StartGenerationRequest false "Baseline items (optional on retry)"
// @Success 202 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /comparisons/{comparisonId}/generate [post]
func (ct *ComparisonController) StartGeneration(c *gin.Context) {
	comparisonId := c.Param("comparisonId")
	if comparisonId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Comparison ID is required")
		return
	}

	var req request_models.StartGenerationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	if err := ct.comparisonService.StartGeneration(c.Request.Context(), comparisonId, req.BaselineItems); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondAccepted(c, gin.H{"comparison_id": comparisonId}, "Generation started")
}

// GetStatus godoc
// @Summary Get comparison status and variants
// @Description Fetch the comparison with its variants, items and metrics; side-effect free, intended for polling
// @Tags Comparison
// @Produce json
// @Param comparisonId path string true "Comparison ID"
// @Success 200 {object} response_models.ComparisonResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /comparisons/{comparisonId} [get]
func (ct *ComparisonController) GetStatus(c *gin.Context) {
	comparisonId := c.Param("comparisonId")
	if comparisonId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Comparison ID is required")
		return
	}

	comparison, err := ct.comparisonService.GetStatus(c.Request.Context(), comparisonId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, comparison, "Comparison fetched successfully")
}

// SelectVariant godoc
// @Summary Select a variant
// @Description Record the traveler's chosen variant; idempotent for the same variant id
// @Tags Comparison
// @Accept json
// @Produce json
// @Param comparisonId path string true "Comparison ID"
// @Param request body request_models.SelectVariantRequest true "Variant selection"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /comparisons/{comparisonId}/select [post]
func (ct *ComparisonController) SelectVariant(c *gin.Context) {
	comparisonId := c.Param("comparisonId")

	var req request_models.SelectVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "variant_id is required")
		return
	}

	if err := ct.comparisonService.SelectVariant(c.Request.Context(), comparisonId, req.VariantID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"comparison_id": comparisonId, "variant_id": req.VariantID}, "Variant selected")
}

// ApplySelection godoc
// @Summary Apply the selected variant to the cart
// @Description Reconcile the selected variant's items into the traveler's cart and report the executed operations
// @Tags Comparison
// @Produce json
// @Param comparisonId path string true "Comparison ID"
// @Success 200 {object} response_models.ApplySelectionResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /comparisons/{comparisonId}/apply [post]
func (ct *ComparisonController) ApplySelection(c *gin.Context) {
	comparisonId := c.Param("comparisonId")

	result, err := ct.comparisonService.ApplySelection(c.Request.Context(), comparisonId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Selection applied to cart")
}
