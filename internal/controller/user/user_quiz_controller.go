package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Sifaka/internal/dto"
	"github.com/lshigami/Sifaka/internal/scoring"
	"github.com/lshigami/Sifaka/internal/service"
	"github.com/rs/zerolog/log"
)

type UserQuizController struct {
	catalog    service.CatalogService
	submission service.SubmissionService
	ownership  service.OwnershipService
	merge      service.MergeService
}

func NewUserQuizController(
	catalog service.CatalogService,
	submission service.SubmissionService,
	ownership service.OwnershipService,
	merge service.MergeService,
) *UserQuizController {
	return &UserQuizController{
		catalog:    catalog,
		submission: submission,
		ownership:  ownership,
		merge:      merge,
	}
}

// ListQuizzes godoc
// @Summary List published quizzes
// @Tags Quizzes
// @Produce json
// @Success 200 {array} dto.QuizSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /quizzes [get]
func (c *UserQuizController) ListQuizzes(ctx *gin.Context) {
	quizzes, err := c.catalog.ListPublished()
	if err != nil {
		log.Error().Err(err).Msg("ListQuizzes: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve quizzes"})
		return
	}
	ctx.JSON(http.StatusOK, quizzes)
}

// GetQuiz godoc
// @Summary Get a quiz by slug
// @Tags Quizzes
// @Produce json
// @Param slug path string true "Quiz slug"
// @Success 200 {object} dto.QuizDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{slug} [get]
func (c *UserQuizController) GetQuiz(ctx *gin.Context) {
	slug := ctx.Param("slug")
	def, err := c.catalog.GetBySlug(slug)
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("GetQuiz: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve quiz"})
		return
	}
	if def == nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Quiz not found"})
		return
	}

	var detail dto.QuizDetailDTO
	if err := copier.Copy(&detail, def); err != nil {
		log.Error().Err(err).Msg("GetQuiz: Error copying definition to DTO")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Error preparing quiz details"})
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// SubmitQuiz godoc
// @Summary Submit a complete answer set for a quiz
// @Description Scores the answers, dispatches any subtests whose threshold is met, synthesizes the AI report, and either persists the result (signed-in) or holds it for the session (anonymous).
// @Tags Quizzes
// @Accept json
// @Produce json
// @Param slug path string true "Quiz slug"
// @Param submission body dto.QuizSubmitDTO true "Answer set"
// @Success 201 {object} dto.SubmissionOutcomeDTO
// @Failure 400 {object} dto.ErrorResponse "Incomplete answers or malformed request"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 409 {object} dto.ErrorResponse "Subtest dispatch cycle"
// @Failure 502 {object} dto.ErrorResponse "Analysis boundary failure"
// @Failure 504 {object} dto.ErrorResponse "Analysis boundary timeout"
// @Router /quizzes/{slug}/submissions [post]
func (c *UserQuizController) SubmitQuiz(ctx *gin.Context) {
	slug := ctx.Param("slug")
	var req dto.QuizSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid submission payload", Details: []string{err.Error()}})
		return
	}

	outcome, err := c.submission.Submit(ctx.Request.Context(), slug, req)
	if err != nil {
		c.renderSubmitError(ctx, slug, err)
		return
	}
	ctx.JSON(http.StatusCreated, outcome)
}

func (c *UserQuizController) renderSubmitError(ctx *gin.Context, slug string, err error) {
	var analysisErr *service.AnalysisError
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Quiz not found"})
	case errors.Is(err, scoring.ErrIncompleteAnswers):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Every question must be answered before scoring"})
	case errors.Is(err, scoring.ErrSubtestCycle):
		// Malformed definition graph. Fatal for this session, and worth a
		// loud log line for the content author.
		log.Error().Err(err).Str("slug", slug).Msg("SubmitQuiz: Subtest cycle in definition graph")
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Quiz flow configuration error", Details: []string{err.Error()}})
	case errors.As(err, &analysisErr):
		status := http.StatusBadGateway
		if analysisErr.Cause == service.CauseTimeout {
			status = http.StatusGatewayTimeout
		}
		ctx.JSON(status, dto.ErrorResponse{
			Message: "Report generation failed",
			Details: []string{string(analysisErr.Cause)},
		})
	default:
		log.Error().Err(err).Str("slug", slug).Msg("SubmitQuiz: Unexpected service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to process submission"})
	}
}

// ClaimSession godoc
// @Summary Claim the session's held result for an account
// @Tags Claims
// @Accept json
// @Produce json
// @Param claim body dto.SessionClaimDTO true "Session claim"
// @Success 200 {object} dto.QuizResultDTO
// @Failure 404 {object} dto.ErrorResponse "Nothing to claim"
// @Router /claims/session [post]
func (c *UserQuizController) ClaimSession(ctx *gin.Context) {
	var req dto.SessionClaimDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid claim payload", Details: []string{err.Error()}})
		return
	}

	result, err := c.ownership.ClaimSession(req.SessionID, service.Identity{UserID: req.UserID, Email: req.Email})
	if err != nil {
		if errors.Is(err, service.ErrNothingToClaim) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Nothing to claim for this session"})
			return
		}
		log.Error().Err(err).Str("sessionID", req.SessionID).Msg("ClaimSession: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to claim result"})
		return
	}

	var resp dto.QuizResultDTO
	copier.Copy(&resp, result)
	ctx.JSON(http.StatusOK, resp)
}

// ClaimToken godoc
// @Summary Resolve an emailed pending claim
// @Tags Claims
// @Accept json
// @Produce json
// @Param claim body dto.TokenClaimDTO true "Token claim"
// @Success 200 {object} dto.QuizResultDTO
// @Failure 404 {object} dto.ErrorResponse "Claim not found"
// @Failure 409 {object} dto.ErrorResponse "Claim already used"
// @Failure 410 {object} dto.ErrorResponse "Claim expired"
// @Router /claims/token [post]
func (c *UserQuizController) ClaimToken(ctx *gin.Context) {
	var req dto.TokenClaimDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid claim payload", Details: []string{err.Error()}})
		return
	}

	result, err := c.ownership.ClaimByToken(req.Token, service.Identity{UserID: req.UserID, Email: req.Email})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClaimNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Claim not found"})
		case errors.Is(err, service.ErrClaimAlreadyUsed):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Claim was already used"})
		case errors.Is(err, service.ErrClaimExpired):
			ctx.JSON(http.StatusGone, dto.ErrorResponse{Message: "Claim has expired"})
		default:
			log.Error().Err(err).Msg("ClaimToken: Service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to claim result"})
		}
		return
	}

	var resp dto.QuizResultDTO
	copier.Copy(&resp, result)
	ctx.JSON(http.StatusOK, resp)
}

// GetResult godoc
// @Summary Get a persisted quiz result
// @Tags Results
// @Produce json
// @Param result_id path int true "Result ID"
// @Success 200 {object} dto.QuizResultDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /results/{result_id} [get]
func (c *UserQuizController) GetResult(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("result_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid result ID format"})
		return
	}

	result, err := c.ownership.GetResult(uint(id))
	if err != nil {
		log.Error().Err(err).Uint64("resultID", id).Msg("GetResult: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve result"})
		return
	}
	if result == nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Result not found"})
		return
	}

	var resp dto.QuizResultDTO
	copier.Copy(&resp, result)
	ctx.JSON(http.StatusOK, resp)
}

// MergeResults godoc
// @Summary Merge a parent and a child result into a comparative analysis
// @Tags Comparative
// @Accept json
// @Produce json
// @Param merge body dto.MergeRequestDTO true "Result pair"
// @Success 201 {object} model.ComparativeAnalysis
// @Failure 400 {object} dto.ErrorResponse "Subject mismatch"
// @Failure 404 {object} dto.ErrorResponse "Source result not found"
// @Failure 502 {object} dto.ErrorResponse "Analysis boundary failure"
// @Router /comparative-analyses [post]
func (c *UserQuizController) MergeResults(ctx *gin.Context) {
	var req dto.MergeRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid merge payload", Details: []string{err.Error()}})
		return
	}

	parentResult, err := c.ownership.GetResult(req.ParentResultID)
	if err == nil && parentResult == nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Parent result not found"})
		return
	}
	childResult, err2 := c.ownership.GetResult(req.ChildResultID)
	if err2 == nil && childResult == nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Child result not found"})
		return
	}
	if err != nil || err2 != nil {
		log.Error().AnErr("parentErr", err).AnErr("childErr", err2).Msg("MergeResults: Failed to load source results")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load source results"})
		return
	}

	analysis, err := c.merge.Merge(ctx.Request.Context(), parentResult, childResult)
	if err != nil {
		var analysisErr *service.AnalysisError
		switch {
		case errors.Is(err, service.ErrSubjectMismatch):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Results reference different subjects"})
		case errors.As(err, &analysisErr):
			status := http.StatusBadGateway
			if analysisErr.Cause == service.CauseTimeout {
				status = http.StatusGatewayTimeout
			}
			ctx.JSON(status, dto.ErrorResponse{Message: "Comparative analysis failed", Details: []string{string(analysisErr.Cause)}})
		default:
			log.Error().Err(err).Msg("MergeResults: Service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to merge results"})
		}
		return
	}
	ctx.JSON(http.StatusCreated, analysis)
}

// GetComparativeAnalysis godoc
// @Summary Get a persisted comparative analysis
// @Tags Comparative
// @Produce json
// @Param analysis_id path int true "Analysis ID"
// @Success 200 {object} model.ComparativeAnalysis
// @Failure 404 {object} dto.ErrorResponse
// @Router /comparative-analyses/{analysis_id} [get]
func (c *UserQuizController) GetComparativeAnalysis(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("analysis_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid analysis ID format"})
		return
	}

	analysis, err := c.merge.GetAnalysis(uint(id))
	if err != nil {
		log.Error().Err(err).Uint64("analysisID", id).Msg("GetComparativeAnalysis: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve analysis"})
		return
	}
	if analysis == nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Analysis not found"})
		return
	}
	ctx.JSON(http.StatusOK, analysis)
}
