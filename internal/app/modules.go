package app

import (
	"context"

	"github.com/davidhoeppner/LernApp2-sub000/internal/content"
	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
	"github.com/davidhoeppner/LernApp2-sub000/internal/state"
)

// ModuleService carries the module completion operations, the only
// progress mutations besides attempt recording.
type ModuleService struct {
	registry *content.Registry
	tracker  *state.Tracker
}

func NewModuleService(registry *content.Registry, tracker *state.Tracker) *ModuleService {
	return &ModuleService{registry: registry, tracker: tracker}
}

// MarkComplete marks the module completed. Idempotent; unknown ids fail
// with ErrModuleNotFound.
func (s *ModuleService) MarkComplete(ctx context.Context, moduleID string) error {
	if s.registry.GetModule(moduleID) == nil {
		return domain.ErrModuleNotFound
	}
	return s.tracker.MarkModuleComplete(ctx, moduleID)
}

// MarkInProgress marks the module in progress unless already completed.
func (s *ModuleService) MarkInProgress(ctx context.Context, moduleID string) error {
	if s.registry.GetModule(moduleID) == nil {
		return domain.ErrModuleNotFound
	}
	return s.tracker.MarkModuleInProgress(ctx, moduleID)
}

// Module returns the enriched module, or nil when the id is unknown.
func (s *ModuleService) Module(moduleID string) *content.EnrichedModule {
	m := s.registry.GetModule(moduleID)
	if m == nil {
		return nil
	}
	enriched := s.registry.Enrich(*m)
	return &enriched
}
