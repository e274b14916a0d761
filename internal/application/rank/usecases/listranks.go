package usecases

import (
	"context"
	"fmt"

	"vonix/internal/application/rank/dto"
	"vonix/internal/domain/rank"
	"vonix/internal/shared/logger"
	"vonix/internal/shared/services/markdown"
)

// ListRanksUseCase serves the public rank catalog, ordered by ascending
// price threshold, with descriptions rendered to sanitized HTML.
type ListRanksUseCase struct {
	rankRepo        rank.RankRepository
	markdownService markdown.MarkdownService
	logger          logger.Interface
}

func NewListRanksUseCase(
	rankRepo rank.RankRepository,
	markdownService markdown.MarkdownService,
	logger logger.Interface,
) *ListRanksUseCase {
	return &ListRanksUseCase{
		rankRepo:        rankRepo,
		markdownService: markdownService,
		logger:          logger,
	}
}

func (uc *ListRanksUseCase) Execute(ctx context.Context) ([]*dto.RankDTO, error) {
	ranks, err := uc.rankRepo.ListAll(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list ranks", "error", err)
		return nil, fmt.Errorf("failed to list ranks: %w", err)
	}

	catalog := rank.NewCatalog(ranks)

	rankDTOs := make([]*dto.RankDTO, 0, len(ranks))
	for _, r := range catalog.Ranks() {
		descriptionHTML := ""
		if r.Description() != "" {
			rendered, err := uc.markdownService.ToHTMLSanitized(r.Description())
			if err != nil {
				// Graceful degradation: serve the raw text field only.
				uc.logger.Warnw("failed to render rank description", "rank", r.Slug(), "error", err)
			} else {
				descriptionHTML = rendered
			}
		}
		rankDTOs = append(rankDTOs, dto.ToRankDTO(r, descriptionHTML))
	}

	return rankDTOs, nil
}
