package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Sifaka/internal/dto"
	"github.com/lshigami/Sifaka/internal/model"
	"github.com/lshigami/Sifaka/internal/repository"
	"github.com/rs/zerolog/log"
)

// AdminQuizService handles authoring of quiz definitions. Published
// definitions are immutable per version as far as issued reports are
// concerned: results carry their own settings snapshot.
type AdminQuizService interface {
	CreateDefinition(req dto.QuizDefinitionCreateDTO) (*model.QuizDefinition, error)
	PublishDefinition(id uint) (*model.QuizDefinition, error)
}

type adminQuizService struct {
	definitionRepo repository.QuizDefinitionRepository
}

func NewAdminQuizService(definitionRepo repository.QuizDefinitionRepository) AdminQuizService {
	return &adminQuizService{definitionRepo: definitionRepo}
}

func (s *adminQuizService) CreateDefinition(req dto.QuizDefinitionCreateDTO) (*model.QuizDefinition, error) {
	orderSeen := make(map[int]bool)
	questions := make([]model.Question, 0, len(req.Questions))
	for _, qDto := range req.Questions {
		if orderSeen[qDto.OrderInQuiz] {
			return nil, fmt.Errorf("duplicate order_in_quiz %d found in questions", qDto.OrderInQuiz)
		}
		orderSeen[qDto.OrderInQuiz] = true

		weight := 1.0
		if qDto.Weight != nil {
			if *qDto.Weight < 0 || *qDto.Weight > 5 {
				return nil, fmt.Errorf("weight for question %q must be within [0,5], got %.1f", qDto.Text, *qDto.Weight)
			}
			weight = *qDto.Weight
		}

		questions = append(questions, model.Question{
			Text:        qDto.Text,
			Weight:      weight,
			Example:     qDto.Example,
			ThemeKey:    qDto.ThemeKey,
			OrderInQuiz: qDto.OrderInQuiz,
		})
	}

	configs := make([]model.SubtestConfig, 0, len(req.SubtestConfigs))
	for _, cDto := range req.SubtestConfigs {
		if cDto.Threshold < 0 || cDto.Threshold > 4 {
			return nil, fmt.Errorf("threshold for subtest %q must be within the 4-point answer scale, got %.1f", cDto.SubtestSlug, cDto.Threshold)
		}
		if cDto.SubtestSlug == req.Slug {
			return nil, fmt.Errorf("subtest %q cannot point back at its own quiz", cDto.SubtestSlug)
		}
		configs = append(configs, model.SubtestConfig{
			SubtestSlug: cDto.SubtestSlug,
			CategoryKey: cDto.CategoryKey,
			Threshold:   cDto.Threshold,
		})
	}

	detailLevel := req.Settings.DetailLevel
	if detailLevel == "" {
		detailLevel = "full"
	}

	def := &model.QuizDefinition{
		Slug:      req.Slug,
		Title:     req.Title,
		Audience:  req.Audience,
		Category:  req.Category,
		Status:    model.StatusDraft,
		FocusTags: req.FocusTags,
		Settings: model.PresentationSettings{
			DetailLevel:     detailLevel,
			ShowChart:       req.Settings.ShowChart,
			ShowParentalCTA: req.Settings.ShowParentalCTA,
		},
		Questions:      questions,
		SubtestConfigs: configs,
	}

	if err := s.definitionRepo.Create(def); err != nil {
		log.Error().Err(err).Str("slug", req.Slug).Msg("Failed to create quiz definition")
		return nil, fmt.Errorf("database error creating quiz definition: %w", err)
	}

	created, err := s.definitionRepo.FindByID(def.ID)
	if err != nil || created == nil {
		log.Error().Err(err).Uint("definitionID", def.ID).Msg("Failed to reload created quiz definition")
		// Fall back to the in-memory model; the create itself succeeded.
		var fallback model.QuizDefinition
		if copyErr := copier.Copy(&fallback, def); copyErr != nil {
			log.Error().Err(copyErr).Uint("definitionID", def.ID).Msg("Failed to copy created quiz definition")
			return def, nil
		}
		return &fallback, nil
	}
	return created, nil
}

func (s *adminQuizService) PublishDefinition(id uint) (*model.QuizDefinition, error) {
	def, err := s.definitionRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("error fetching quiz definition %d: %w", id, err)
	}
	if def == nil {
		return nil, ErrQuizNotFound
	}
	def.Status = model.StatusPublished
	if err := s.definitionRepo.Update(def); err != nil {
		log.Error().Err(err).Uint("definitionID", id).Msg("Failed to publish quiz definition")
		return nil, fmt.Errorf("database error publishing quiz definition: %w", err)
	}
	return def, nil
}
