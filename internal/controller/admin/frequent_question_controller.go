package admin

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/knakai/examprep/internal/auth"
	"github.com/knakai/examprep/internal/dto"
	"github.com/knakai/examprep/internal/service"
	"github.com/rs/zerolog/log"
)

type FrequentQuestionController struct {
	frequentService service.FrequentQuestionService
}

func NewFrequentQuestionController(frequentService service.FrequentQuestionService) *FrequentQuestionController {
	return &FrequentQuestionController{frequentService: frequentService}
}

// ReplaceFrequentQuestions godoc
// @Summary (Admin) Replace frequent-question scores
// @Description Upsert the weekly batch of frequency scores. Requires admin group membership. Items referencing unknown questions are skipped and not counted.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param batch body dto.FrequentQuestionBatchDTO true "Score batch"
// @Success 200 {object} dto.FrequentQuestionBatchResultDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Admin membership required"
// @Failure 422 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /frequent-questions [post]
func (ctrl *FrequentQuestionController) ReplaceFrequentQuestions(ctx *gin.Context) {
	if err := auth.RequireAdmin(auth.IdentityFrom(ctx)); err != nil {
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Admin membership required"})
		return
	}

	var req dto.FrequentQuestionBatchDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("ReplaceFrequentQuestions: Failed to bind request body")
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	updated, err := ctrl.frequentService.ReplaceFrequentQuestions(req.Questions)
	if err != nil {
		log.Error().Err(err).Msg("ReplaceFrequentQuestions: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update frequent questions"})
		return
	}
	ctx.JSON(http.StatusOK, dto.FrequentQuestionBatchResultDTO{
		UpdatedCount: updated,
		Message:      fmt.Sprintf("Updated %d frequent questions", updated),
	})
}
