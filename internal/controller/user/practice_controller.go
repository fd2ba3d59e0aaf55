package user

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/knakai/examprep/internal/auth"
	"github.com/knakai/examprep/internal/dto"
	"github.com/knakai/examprep/internal/service"
	"github.com/rs/zerolog/log"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// PracticeController serves the recommendation and answer-submission
// endpoints. All of them are user-scoped; the user_id in the request must
// match the token subject.
type PracticeController struct {
	frequentService service.FrequentQuestionService
	weakService     service.WeakQuestionService
	answerService   service.UserAnswerService
}

func NewPracticeController(
	frequentService service.FrequentQuestionService,
	weakService service.WeakQuestionService,
	answerService service.UserAnswerService,
) *PracticeController {
	return &PracticeController{
		frequentService: frequentService,
		weakService:     weakService,
		answerService:   answerService,
	}
}

// parseLimit reads the limit query param, defaulting to 10 and rejecting
// values outside [1,50].
func parseLimit(ctx *gin.Context) (int, bool) {
	raw := ctx.DefaultQuery("limit", strconv.Itoa(defaultLimit))
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxLimit {
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: "limit must be an integer between 1 and 50"})
		return 0, false
	}
	return limit, true
}

func requireUserScope(ctx *gin.Context) (userID, examType string, ok bool) {
	userID = strings.TrimSpace(ctx.Query("user_id"))
	examType = strings.TrimSpace(ctx.Query("exam_type"))
	if userID == "" || examType == "" {
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: "user_id and exam_type query parameters are required"})
		return "", "", false
	}
	if err := auth.VerifyCallerMatches(userID, auth.IdentityFrom(ctx)); err != nil {
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "user_id does not match the authenticated user"})
		return "", "", false
	}
	return userID, examType, true
}

// GetFrequentQuestions godoc
// @Summary List frequently asked questions
// @Description Get question IDs ordered by frequency score, skipping the caller's 20 most recently answered questions
// @Tags practice
// @Produce json
// @Security BearerAuth
// @Param user_id query string true "User ID (must match the token subject)"
// @Param exam_type query string true "Exam type"
// @Param limit query int false "Max results (1-50)" default(10)
// @Success 200 {object} dto.QuestionIDListDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "User ID mismatch"
// @Failure 422 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /frequent-questions [get]
func (ctrl *PracticeController) GetFrequentQuestions(ctx *gin.Context) {
	userID, examType, ok := requireUserScope(ctx)
	if !ok {
		return
	}
	limit, ok := parseLimit(ctx)
	if !ok {
		return
	}

	ids, err := ctrl.frequentService.GetFrequentQuestions(userID, examType, limit)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("GetFrequentQuestions: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve frequent questions"})
		return
	}
	ctx.JSON(http.StatusOK, dto.QuestionIDListDTO{QuestionIDs: ids})
}

// GetWeakQuestions godoc
// @Summary List the caller's weak questions
// @Description Get question IDs the user answers incorrectly most often, reranked by difficulty and mandatory status. Falls back to HIGH-difficulty questions for users with no wrong answers yet.
// @Tags practice
// @Produce json
// @Security BearerAuth
// @Param user_id query string true "User ID (must match the token subject)"
// @Param exam_type query string true "Exam type"
// @Param limit query int false "Max results (1-50)" default(10)
// @Success 200 {object} dto.QuestionIDListDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "User ID mismatch"
// @Failure 422 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /weak-questions [get]
func (ctrl *PracticeController) GetWeakQuestions(ctx *gin.Context) {
	userID, examType, ok := requireUserScope(ctx)
	if !ok {
		return
	}
	limit, ok := parseLimit(ctx)
	if !ok {
		return
	}

	ids, err := ctrl.weakService.GetWeakQuestions(userID, examType, limit)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("GetWeakQuestions: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve weak questions"})
		return
	}
	ctx.JSON(http.StatusOK, dto.QuestionIDListDTO{QuestionIDs: ids})
}

// SubmitAnswers godoc
// @Summary Submit an answer batch
// @Description Persist a batch of answers, compute the difficulty-weighted session score and store a stat snapshot. Answers referencing unknown questions are dropped.
// @Tags practice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param answers body dto.SubmitUserAnswersDTO true "Answer batch"
// @Success 201 {object} dto.SubmitUserAnswersResponseDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "User ID mismatch"
// @Failure 422 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /user-answers [post]
func (ctrl *PracticeController) SubmitAnswers(ctx *gin.Context) {
	var req dto.SubmitUserAnswersDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAnswers: Failed to bind request body")
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := auth.VerifyCallerMatches(req.UserID, auth.IdentityFrom(ctx)); err != nil {
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "user_id does not match the authenticated user"})
		return
	}

	resp, err := ctrl.answerService.SubmitAnswers(req)
	if err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("SubmitAnswers: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to submit answers"})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetUserStats godoc
// @Summary Get the caller's score history
// @Description Retrieve all performance snapshots for the user and exam type, newest first
// @Tags practice
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User ID (must match the token subject)"
// @Param exam_type query string true "Exam type"
// @Success 200 {object} dto.UserStatHistoryDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "User ID mismatch"
// @Failure 422 {object} dto.ErrorResponse "Missing exam_type"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /user-stats/{user_id} [get]
func (ctrl *PracticeController) GetUserStats(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	examType := strings.TrimSpace(ctx.Query("exam_type"))
	if examType == "" {
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: "exam_type query parameter is required"})
		return
	}
	if err := auth.VerifyCallerMatches(userID, auth.IdentityFrom(ctx)); err != nil {
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "user_id does not match the authenticated user"})
		return
	}

	resp, err := ctrl.answerService.GetUserStats(userID, examType)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("GetUserStats: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve user stats"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
