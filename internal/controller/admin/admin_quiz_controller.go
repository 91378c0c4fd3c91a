package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Sifaka/internal/dto"
	"github.com/lshigami/Sifaka/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminQuizController struct {
	adminService service.AdminQuizService
}

func NewAdminQuizController(adminService service.AdminQuizService) *AdminQuizController {
	return &AdminQuizController{adminService: adminService}
}

// CreateQuizDefinition godoc
// @Summary (Admin) Create a new quiz definition
// @Description Creates a draft definition with its questions, focus tags, presentation settings, and subtest dispatch rules.
// @Tags Admin - Quiz Definitions
// @Accept json
// @Produce json
// @Param definition body dto.QuizDefinitionCreateDTO true "Quiz definition"
// @Success 201 {object} model.QuizDefinition
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/quizzes [post]
func (c *AdminQuizController) CreateQuizDefinition(ctx *gin.Context) {
	var req dto.QuizDefinitionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid definition payload", Details: []string{err.Error()}})
		return
	}

	def, err := c.adminService.CreateDefinition(req)
	if err != nil {
		log.Warn().Err(err).Str("slug", req.Slug).Msg("CreateQuizDefinition: Rejected")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, def)
}

// PublishQuizDefinition godoc
// @Summary (Admin) Publish a draft quiz definition
// @Tags Admin - Quiz Definitions
// @Produce json
// @Param quiz_id path int true "Quiz definition ID"
// @Success 200 {object} model.QuizDefinition
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/quizzes/{quiz_id}/publish [post]
func (c *AdminQuizController) PublishQuizDefinition(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("quiz_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid quiz ID format"})
		return
	}

	def, err := c.adminService.PublishDefinition(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Quiz definition not found"})
			return
		}
		log.Error().Err(err).Uint64("quizID", id).Msg("PublishQuizDefinition: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to publish quiz definition"})
		return
	}
	ctx.JSON(http.StatusOK, def)
}
