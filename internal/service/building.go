package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/neighborly-app/backend/internal/apperr"
	"github.com/neighborly-app/backend/internal/cache"
	"github.com/neighborly-app/backend/internal/models"
	"github.com/neighborly-app/backend/internal/repository"
)

type BuildingService struct {
	buildings repository.BuildingRepository
	channels  repository.ChannelRepository
	cache     *cache.BuildingCache
	logger    *zap.Logger
}

func NewBuildingService(
	buildings repository.BuildingRepository,
	channels repository.ChannelRepository,
	buildingCache *cache.BuildingCache,
	logger *zap.Logger,
) *BuildingService {
	return &BuildingService{
		buildings: buildings,
		channels:  channels,
		cache:     buildingCache,
		logger:    logger,
	}
}

func (s *BuildingService) Get(ctx context.Context, buildingID string) (*models.Building, error) {
	building, err := s.buildings.GetByID(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("get building: %w", err)
	}
	if building == nil {
		return nil, apperr.ErrBuildingNotFound
	}
	return building, nil
}

// Search requires a city and state; the address filter narrows within them.
// Results are served from cache when warm; search is the hottest read on
// the signup path and tolerates slightly stale member counts.
func (s *BuildingService) Search(ctx context.Context, city, state, addressFilter string) ([]models.Building, error) {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	addressFilter = strings.TrimSpace(addressFilter)
	if city == "" || state == "" {
		return nil, fmt.Errorf("%w: city and state are required", apperr.ErrValidation)
	}

	if cached, ok := s.cache.GetSearch(ctx, city, state, addressFilter); ok {
		return cached, nil
	}

	buildings, err := s.buildings.Search(ctx, city, state, addressFilter)
	if err != nil {
		return nil, fmt.Errorf("search buildings: %w", err)
	}

	if err := s.cache.SetSearch(ctx, city, state, addressFilter, buildings); err != nil {
		s.logger.Warn("failed to cache building search", zap.Error(err))
	}
	return buildings, nil
}

func (s *BuildingService) ListChannels(ctx context.Context, buildingID string) ([]models.Channel, error) {
	building, err := s.buildings.GetByID(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	if building == nil {
		return nil, apperr.ErrBuildingNotFound
	}

	channels, err := s.channels.ListByBuilding(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return channels, nil
}
