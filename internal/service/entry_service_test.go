package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "diarium/internal/errors"
	"diarium/internal/model"
)

func uintPtr(v uint) *uint {
	return &v
}

func TestEntryService_Create_SlugAssignment(t *testing.T) {
	tests := []struct {
		name         string
		title        string
		setupMock    func(*MockEntryRepository)
		expectedSlug string
	}{
		{
			name:  "free slug used as is",
			title: "Test Published Diary",
			setupMock: func(m *MockEntryRepository) {
				m.On("ExistsBySlug", mock.Anything, "test-published-diary").Return(false, nil)
			},
			expectedSlug: "test-published-diary",
		},
		{
			name:  "numeric suffix appended until unique",
			title: "Test Published Diary",
			setupMock: func(m *MockEntryRepository) {
				m.On("ExistsBySlug", mock.Anything, "test-published-diary").Return(true, nil)
				m.On("ExistsBySlug", mock.Anything, "test-published-diary-1").Return(true, nil)
				m.On("ExistsBySlug", mock.Anything, "test-published-diary-2").Return(false, nil)
			},
			expectedSlug: "test-published-diary-2",
		},
		{
			name:  "cyrillic title transliterated",
			title: "Моя заметка",
			setupMock: func(m *MockEntryRepository) {
				m.On("ExistsBySlug", mock.Anything, "moya-zametka").Return(false, nil)
			},
			expectedSlug: "moya-zametka",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockEntryRepository)
			tt.setupMock(mockRepo)
			mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Entry")).Return(nil)

			svc := NewEntryService(mockRepo, new(MockMailer), testLogger())
			entry, err := svc.Create(context.Background(), 1, tt.title, "body", "")

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedSlug, entry.Slug)
			assert.Equal(t, model.StatusUnpublished, entry.Status)
			assert.False(t, entry.Published)
			assert.Equal(t, uint(1), *entry.AuthorID)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestEntryService_GetBySlug_Visibility(t *testing.T) {
	author := &model.User{ID: 1, Email: "author@localhost"}
	unpublished := &model.Entry{
		ID:       7,
		Title:    "Test Unpublished Diary",
		Slug:     "test-unpublished-diary",
		AuthorID: uintPtr(1),
		Author:   author,
	}

	tests := []struct {
		name          string
		requesterID   *uint
		setupMock     func(*MockEntryRepository)
		expectedError error
	}{
		{
			name:        "owner can read own unpublished entry",
			requesterID: uintPtr(1),
			setupMock: func(m *MockEntryRepository) {
				m.On("FindBySlug", mock.Anything, "test-unpublished-diary").Return(unpublished, nil)
			},
		},
		{
			name:        "other user gets access denied, not not-found",
			requesterID: uintPtr(2),
			setupMock: func(m *MockEntryRepository) {
				m.On("FindBySlug", mock.Anything, "test-unpublished-diary").Return(unpublished, nil)
			},
			expectedError: apperrors.ErrAccessDenied,
		},
		{
			name:        "anonymous gets access denied",
			requesterID: nil,
			setupMock: func(m *MockEntryRepository) {
				m.On("FindBySlug", mock.Anything, "test-unpublished-diary").Return(unpublished, nil)
			},
			expectedError: apperrors.ErrAccessDenied,
		},
		{
			name:        "unknown slug is not found",
			requesterID: uintPtr(1),
			setupMock: func(m *MockEntryRepository) {
				m.On("FindBySlug", mock.Anything, "test-unpublished-diary").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrEntryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockEntryRepository)
			tt.setupMock(mockRepo)
			mockMailer := new(MockMailer)

			svc := NewEntryService(mockRepo, mockMailer, testLogger())
			entry, err := svc.GetBySlug(context.Background(), "test-unpublished-diary", tt.requesterID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, entry)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, entry)
			}

			// Unpublished reads never touch the counter and never notify.
			mockRepo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
			mockMailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestEntryService_GetBySlug_ViewCounter(t *testing.T) {
	author := &model.User{ID: 1, Email: "author@localhost"}

	t.Run("published read increments views", func(t *testing.T) {
		before := &model.Entry{ID: 3, Slug: "test", Published: true, Views: 5, AuthorID: uintPtr(1), Author: author}
		after := &model.Entry{ID: 3, Slug: "test", Published: true, Views: 6, AuthorID: uintPtr(1), Author: author}

		mockRepo := new(MockEntryRepository)
		mockRepo.On("FindBySlug", mock.Anything, "test").Return(before, nil).Once()
		mockRepo.On("IncrementViews", mock.Anything, uint(3)).Return(nil).Once()
		mockRepo.On("FindBySlug", mock.Anything, "test").Return(after, nil).Once()
		mockMailer := new(MockMailer)

		svc := NewEntryService(mockRepo, mockMailer, testLogger())
		entry, err := svc.GetBySlug(context.Background(), "test", nil)

		assert.NoError(t, err)
		assert.Equal(t, uint(6), entry.Views)
		mockRepo.AssertExpectations(t)
		mockMailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("hundredth view notifies the author once for that read", func(t *testing.T) {
		before := &model.Entry{ID: 3, Title: "Test Published Diary", Slug: "test-published-diary", Published: true, Views: 99, AuthorID: uintPtr(1), Author: author}
		after := &model.Entry{ID: 3, Title: "Test Published Diary", Slug: "test-published-diary", Published: true, Views: 100, AuthorID: uintPtr(1), Author: author}

		mockRepo := new(MockEntryRepository)
		mockRepo.On("FindBySlug", mock.Anything, "test-published-diary").Return(before, nil).Once()
		mockRepo.On("IncrementViews", mock.Anything, uint(3)).Return(nil).Once()
		mockRepo.On("FindBySlug", mock.Anything, "test-published-diary").Return(after, nil).Once()
		mockMailer := new(MockMailer)
		mockMailer.On("Send", mock.Anything, "author@localhost", "Уведомление", mock.Anything).Return(nil)

		svc := NewEntryService(mockRepo, mockMailer, testLogger())
		entry, err := svc.GetBySlug(context.Background(), "test-published-diary", nil)

		assert.NoError(t, err)
		assert.Equal(t, uint(100), entry.Views)
		mockMailer.AssertNumberOfCalls(t, "Send", 1)
		mockMailer.AssertExpectations(t)
	})

	t.Run("every read above the threshold notifies again", func(t *testing.T) {
		// 101st and 102nd reads both mail; the side effect is not deduplicated.
		mockRepo := new(MockEntryRepository)
		for _, views := range []uint{101, 102} {
			before := &model.Entry{ID: 3, Slug: "test", Published: true, Views: views - 1, AuthorID: uintPtr(1), Author: author}
			after := &model.Entry{ID: 3, Slug: "test", Published: true, Views: views, AuthorID: uintPtr(1), Author: author}
			mockRepo.On("FindBySlug", mock.Anything, "test").Return(before, nil).Once()
			mockRepo.On("IncrementViews", mock.Anything, uint(3)).Return(nil).Once()
			mockRepo.On("FindBySlug", mock.Anything, "test").Return(after, nil).Once()
		}
		mockMailer := new(MockMailer)
		mockMailer.On("Send", mock.Anything, "author@localhost", "Уведомление", mock.Anything).Return(nil)

		svc := NewEntryService(mockRepo, mockMailer, testLogger())
		for i := 0; i < 2; i++ {
			_, err := svc.GetBySlug(context.Background(), "test", nil)
			assert.NoError(t, err)
		}

		mockMailer.AssertNumberOfCalls(t, "Send", 2)
	})
}

func TestEntryService_GetOwned(t *testing.T) {
	t.Run("published entry prefill counts no view and mails nobody", func(t *testing.T) {
		entry := &model.Entry{
			ID: 1, Slug: "note", Published: true, Views: 99,
			AuthorID: uintPtr(1),
			Author:   &model.User{ID: 1, Email: "author@localhost"},
		}
		mockRepo := new(MockEntryRepository)
		mockRepo.On("FindBySlug", mock.Anything, "note").Return(entry, nil)
		mockMailer := new(MockMailer)

		svc := NewEntryService(mockRepo, mockMailer, testLogger())
		got, err := svc.GetOwned(context.Background(), "note", 1)

		assert.NoError(t, err)
		assert.Equal(t, uint(99), got.Views)
		mockRepo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
		mockMailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unpublished entry served to its owner", func(t *testing.T) {
		entry := &model.Entry{ID: 1, Slug: "draft", Published: false, AuthorID: uintPtr(1)}
		mockRepo := new(MockEntryRepository)
		mockRepo.On("FindBySlug", mock.Anything, "draft").Return(entry, nil)

		svc := NewEntryService(mockRepo, new(MockMailer), testLogger())
		got, err := svc.GetOwned(context.Background(), "draft", 1)

		assert.NoError(t, err)
		assert.Equal(t, "draft", got.Slug)
	})

	t.Run("non-owner denied even for published entries", func(t *testing.T) {
		entry := &model.Entry{ID: 1, Slug: "note", Published: true, AuthorID: uintPtr(1)}
		mockRepo := new(MockEntryRepository)
		mockRepo.On("FindBySlug", mock.Anything, "note").Return(entry, nil)

		svc := NewEntryService(mockRepo, new(MockMailer), testLogger())
		_, err := svc.GetOwned(context.Background(), "note", 2)

		assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
		mockRepo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		mockRepo := new(MockEntryRepository)
		mockRepo.On("FindBySlug", mock.Anything, "gone").Return(nil, gorm.ErrRecordNotFound)

		svc := NewEntryService(mockRepo, new(MockMailer), testLogger())
		_, err := svc.GetOwned(context.Background(), "gone", 1)

		assert.ErrorIs(t, err, apperrors.ErrEntryNotFound)
	})
}

func TestEntryService_SubmitForModeration(t *testing.T) {
	tests := []struct {
		name          string
		requesterID   uint
		status        string
		expectedError error
	}{
		{name: "owner submits unpublished entry", requesterID: 1, status: model.StatusUnpublished},
		{name: "owner resubmits rejected entry", requesterID: 1, status: model.StatusRejected},
		{name: "owner submits published entry", requesterID: 1, status: model.StatusPublished},
		{name: "non-owner denied", requesterID: 2, status: model.StatusUnpublished, expectedError: apperrors.ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &model.Entry{ID: 5, Slug: "note", AuthorID: uintPtr(1), Status: tt.status}
			mockRepo := new(MockEntryRepository)
			mockRepo.On("FindBySlug", mock.Anything, "note").Return(entry, nil)
			if tt.expectedError == nil {
				mockRepo.On("UpdateStatus", mock.Anything, uint(5), model.StatusPendingModeration).Return(nil)
			}

			svc := NewEntryService(mockRepo, new(MockMailer), testLogger())
			result, err := svc.SubmitForModeration(context.Background(), "note", tt.requesterID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, model.StatusPendingModeration, result.Status)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestEntryService_Update_OwnershipAndSlug(t *testing.T) {
	t.Run("owner edit keeps slug", func(t *testing.T) {
		entry := &model.Entry{ID: 5, Slug: "original-slug", Title: "Old", Body: "old", AuthorID: uintPtr(1)}
		mockRepo := new(MockEntryRepository)
		mockRepo.On("FindBySlug", mock.Anything, "original-slug").Return(entry, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(e *model.Entry) bool {
			return e.Slug == "original-slug" && e.Title == "New title"
		})).Return(nil)

		svc := NewEntryService(mockRepo, new(MockMailer), testLogger())
		updated, err := svc.Update(context.Background(), "original-slug", 1, "New title", "new body", "")

		assert.NoError(t, err)
		assert.Equal(t, "original-slug", updated.Slug)
		mockRepo.AssertExpectations(t)
	})

	t.Run("non-owner denied", func(t *testing.T) {
		entry := &model.Entry{ID: 5, Slug: "original-slug", AuthorID: uintPtr(1)}
		mockRepo := new(MockEntryRepository)
		mockRepo.On("FindBySlug", mock.Anything, "original-slug").Return(entry, nil)

		svc := NewEntryService(mockRepo, new(MockMailer), testLogger())
		_, err := svc.Update(context.Background(), "original-slug", 2, "New title", "new body", "")

		assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestEntryService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		requesterID   uint
		expectedError error
	}{
		{name: "owner deletes", requesterID: 1},
		{name: "non-owner denied", requesterID: 2, expectedError: apperrors.ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &model.Entry{ID: 5, Slug: "note", AuthorID: uintPtr(1)}
			mockRepo := new(MockEntryRepository)
			mockRepo.On("FindBySlug", mock.Anything, "note").Return(entry, nil)
			if tt.expectedError == nil {
				mockRepo.On("Delete", mock.Anything, uint(5)).Return(nil)
			}

			svc := NewEntryService(mockRepo, new(MockMailer), testLogger())
			err := svc.Delete(context.Background(), "note", tt.requesterID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestEntryService_Listings(t *testing.T) {
	t.Run("home lists published only", func(t *testing.T) {
		mockRepo := new(MockEntryRepository)
		mockRepo.On("ListPublished", mock.Anything).Return([]model.Entry{{ID: 1, Published: true}}, nil)

		svc := NewEntryService(mockRepo, new(MockMailer), testLogger())
		entries, err := svc.Home(context.Background())

		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		mockRepo.AssertExpectations(t)
	})

	t.Run("mine passes the title filter through", func(t *testing.T) {
		mockRepo := new(MockEntryRepository)
		mockRepo.On("ListByAuthor", mock.Anything, uint(1), "diary").Return([]model.Entry{}, nil)

		svc := NewEntryService(mockRepo, new(MockMailer), testLogger())
		_, err := svc.ListMine(context.Background(), 1, "diary")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}
