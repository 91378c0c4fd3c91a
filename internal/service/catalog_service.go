package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Sifaka/internal/dto"
	"github.com/lshigami/Sifaka/internal/model"
	"github.com/lshigami/Sifaka/internal/repository"
	"github.com/rs/zerolog/log"
)

// CatalogService is the read side of the quiz definition store for
// user-facing paths: only published definitions are visible. Unknown
// ids, unknown slugs, and drafts come back as (nil, nil), not errors.
type CatalogService interface {
	GetByID(id uint) (*model.QuizDefinition, error)
	GetBySlug(slug string) (*model.QuizDefinition, error)
	ListPublished() ([]dto.QuizSummaryDTO, error)
}

type catalogService struct {
	definitionRepo repository.QuizDefinitionRepository
}

func NewCatalogService(definitionRepo repository.QuizDefinitionRepository) CatalogService {
	return &catalogService{definitionRepo: definitionRepo}
}

func (s *catalogService) GetByID(id uint) (*model.QuizDefinition, error) {
	def, err := s.definitionRepo.FindByID(id)
	return publishedOnly(def), err
}

func (s *catalogService) GetBySlug(slug string) (*model.QuizDefinition, error) {
	def, err := s.definitionRepo.FindBySlug(slug)
	return publishedOnly(def), err
}

// publishedOnly hides drafts from user-facing lookups.
func publishedOnly(def *model.QuizDefinition) *model.QuizDefinition {
	if def == nil || def.Status != model.StatusPublished {
		return nil
	}
	return def
}

func (s *catalogService) ListPublished() ([]dto.QuizSummaryDTO, error) {
	defs, err := s.definitionRepo.FindAllPublished()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list published quiz definitions")
		return nil, fmt.Errorf("error fetching quiz definitions: %w", err)
	}

	dtos := make([]dto.QuizSummaryDTO, 0, len(defs))
	for _, def := range defs {
		var summary dto.QuizSummaryDTO
		if err := copier.Copy(&summary, &def); err != nil {
			log.Error().Err(err).Uint("definitionID", def.ID).Msg("Error copying definition to summary DTO")
			continue
		}
		dtos = append(dtos, summary)
	}
	return dtos, nil
}
