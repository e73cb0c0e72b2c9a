package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	apperrors "diarium/internal/errors"
	"diarium/internal/mail"
	"diarium/internal/model"
	"diarium/internal/repository"
)

// viewNotifyThreshold is the view count at which the author is notified.
// The notification is sent on every qualifying read, not once per crossing.
// That matches the behavior this service replaces; see DESIGN.md before
// changing it.
const viewNotifyThreshold = 100

const notifySubject = "Уведомление"

// EntryService handles diary entry operations: creation, visibility-scoped
// reads, ownership-scoped mutation and the moderation submit.
type EntryService interface {
	Create(ctx context.Context, authorID uint, title, body, preview string) (*model.Entry, error)
	Home(ctx context.Context) ([]model.Entry, error)
	ListMine(ctx context.Context, userID uint, titleFilter string) ([]model.Entry, error)
	GetBySlug(ctx context.Context, slugStr string, requesterID *uint) (*model.Entry, error)
	GetOwned(ctx context.Context, slugStr string, requesterID uint) (*model.Entry, error)
	Update(ctx context.Context, slugStr string, requesterID uint, title, body, preview string) (*model.Entry, error)
	Delete(ctx context.Context, slugStr string, requesterID uint) error
	SubmitForModeration(ctx context.Context, slugStr string, requesterID uint) (*model.Entry, error)
}

type entryService struct {
	entryRepo repository.EntryRepository
	mailer    mail.Mailer
	logger    *slog.Logger
}

// NewEntryService creates a new entry service.
func NewEntryService(entryRepo repository.EntryRepository, mailer mail.Mailer, logger *slog.Logger) EntryService {
	return &entryService{
		entryRepo: entryRepo,
		mailer:    mailer,
		logger:    logger,
	}
}

// Create stores a new entry owned by authorID. New entries start unpublished
// and get a unique slug derived from the title.
func (s *entryService) Create(ctx context.Context, authorID uint, title, body, preview string) (*model.Entry, error) {
	entrySlug, err := s.uniqueSlug(ctx, title)
	if err != nil {
		return nil, err
	}

	entry := &model.Entry{
		Title:     title,
		Body:      body,
		Slug:      entrySlug,
		AuthorID:  &authorID,
		Preview:   preview,
		Published: false,
		Status:    model.StatusUnpublished,
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	return entry, nil
}

// Home returns the public listing: published entries only.
func (s *entryService) Home(ctx context.Context) ([]model.Entry, error) {
	return s.entryRepo.ListPublished(ctx)
}

// ListMine returns the requester's own entries regardless of status, with an
// optional case-insensitive substring filter on the title.
func (s *entryService) ListMine(ctx context.Context, userID uint, titleFilter string) ([]model.Entry, error) {
	return s.entryRepo.ListByAuthor(ctx, userID, titleFilter)
}

// GetBySlug reads a single entry. Published entries are visible to anyone and
// each read bumps the view counter; unpublished entries are visible to the
// author only and never count views. When the post-increment count reaches
// the threshold the author is mailed a notification for that read.
func (s *entryService) GetBySlug(ctx context.Context, slugStr string, requesterID *uint) (*model.Entry, error) {
	entry, err := s.findBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}

	if !entry.Published {
		if requesterID == nil || !entry.IsOwnedBy(*requesterID) {
			return nil, apperrors.ErrAccessDenied
		}
		return entry, nil
	}

	if err := s.entryRepo.IncrementViews(ctx, entry.ID); err != nil {
		return nil, fmt.Errorf("increment views: %w", err)
	}
	// Reload to observe the incremented counter, including increments from
	// concurrent readers.
	entry, err = s.findBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}

	if entry.Views >= viewNotifyThreshold && entry.Author != nil {
		notifyBody := fmt.Sprintf("Ваша запись «%s» набрала %d просмотров.", entry.Title, entry.Views)
		if err := s.mailer.Send(ctx, entry.Author.Email, notifySubject, notifyBody); err != nil {
			// No compensation: the view was counted even if the mail failed.
			return nil, fmt.Errorf("send view notification: %w", err)
		}
		s.logger.Info("view notification sent", "slug", entry.Slug, "views", entry.Views)
	}

	return entry, nil
}

// GetOwned reads the requester's own entry without the side effects of a
// detail read: no view is counted and no notification can go out. Serves the
// edit-form prefill.
func (s *entryService) GetOwned(ctx context.Context, slugStr string, requesterID uint) (*model.Entry, error) {
	entry, err := s.findBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	if !entry.IsOwnedBy(requesterID) {
		return nil, apperrors.ErrAccessDenied
	}
	return entry, nil
}

// Update mutates title, body and preview of the requester's own entry. The
// slug is write-once and left untouched.
func (s *entryService) Update(ctx context.Context, slugStr string, requesterID uint, title, body, preview string) (*model.Entry, error) {
	entry, err := s.findBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	if !entry.IsOwnedBy(requesterID) {
		return nil, apperrors.ErrAccessDenied
	}

	entry.Title = title
	entry.Body = body
	entry.Preview = preview
	if entry.Slug == "" {
		if entry.Slug, err = s.uniqueSlug(ctx, title); err != nil {
			return nil, err
		}
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return entry, nil
}

// Delete removes the requester's own entry. Hard delete, no tombstone.
func (s *entryService) Delete(ctx context.Context, slugStr string, requesterID uint) error {
	entry, err := s.findBySlug(ctx, slugStr)
	if err != nil {
		return err
	}
	if !entry.IsOwnedBy(requesterID) {
		return apperrors.ErrAccessDenied
	}
	return s.entryRepo.Delete(ctx, entry.ID)
}

// SubmitForModeration moves the requester's own entry to pending_moderation.
// The current status does not matter; ownership is the only prerequisite.
func (s *entryService) SubmitForModeration(ctx context.Context, slugStr string, requesterID uint) (*model.Entry, error) {
	entry, err := s.findBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	if !entry.IsOwnedBy(requesterID) {
		return nil, apperrors.ErrAccessDenied
	}

	if err := s.entryRepo.UpdateStatus(ctx, entry.ID, model.StatusPendingModeration); err != nil {
		return nil, fmt.Errorf("submit for moderation: %w", err)
	}
	entry.Status = model.StatusPendingModeration
	return entry, nil
}

func (s *entryService) findBySlug(ctx context.Context, slugStr string) (*model.Entry, error) {
	entry, err := s.entryRepo.FindBySlug(ctx, slugStr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, fmt.Errorf("find entry: %w", err)
	}
	return entry, nil
}

// uniqueSlug transliterates the title and appends -1, -2, ... until the
// candidate is free.
func (s *entryService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "entry"
	}

	candidate := base
	for n := 1; ; n++ {
		exists, err := s.entryRepo.ExistsBySlug(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
