package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	apperrors "diarium/internal/errors"
	"diarium/internal/model"
	"diarium/internal/repository"
)

// Moderation form actions.
const (
	ModerationApprove = "approve"
	ModerationReject  = "reject"
)

// ModerationService handles the moderator side of the workflow. The
// moderation capability itself is enforced by the route guard; the service
// assumes the caller holds it.
type ModerationService interface {
	Queue(ctx context.Context) ([]model.Entry, error)
	Act(ctx context.Context, slug, action string) (*model.Entry, error)
}

type moderationService struct {
	entryRepo repository.EntryRepository
	logger    *slog.Logger
}

// NewModerationService creates a new moderation service.
func NewModerationService(entryRepo repository.EntryRepository, logger *slog.Logger) ModerationService {
	return &moderationService{entryRepo: entryRepo, logger: logger}
}

// Queue lists entries awaiting a decision.
func (s *moderationService) Queue(ctx context.Context) ([]model.Entry, error) {
	return s.entryRepo.ListByStatus(ctx, model.StatusPendingModeration)
}

// Act applies an approve or reject decision to the entry with the given slug.
// The entry's current status is not checked: moderators may act on any entry.
// Approve publishes the entry; reject only flips the status and leaves the
// published flag alone. Both behaviors are deliberate, see DESIGN.md.
func (s *moderationService) Act(ctx context.Context, slug, action string) (*model.Entry, error) {
	entry, err := s.entryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, fmt.Errorf("find entry: %w", err)
	}

	switch action {
	case ModerationApprove:
		if err := s.entryRepo.Publish(ctx, entry.ID); err != nil {
			return nil, fmt.Errorf("approve entry: %w", err)
		}
		entry.Status = model.StatusPublished
		entry.Published = true
	case ModerationReject:
		if err := s.entryRepo.UpdateStatus(ctx, entry.ID, model.StatusRejected); err != nil {
			return nil, fmt.Errorf("reject entry: %w", err)
		}
		entry.Status = model.StatusRejected
	default:
		return nil, apperrors.ErrUnknownModerationAction
	}

	s.logger.Info("moderation decision", "slug", entry.Slug, "action", action)
	return entry, nil
}
