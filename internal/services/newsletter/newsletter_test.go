package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mousejiggler/jiggler-backend/internal/models"
)

type NewsletterRepoMock struct {
	mock.Mock
}

func (m *NewsletterRepoMock) GetNewsletterByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	args := m.Called(ctx, email)
	if n := args.Get(0); n != nil {
		return n.(*models.NewsletterSubscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NewsletterRepoMock) CreateNewsletterSubscription(ctx context.Context, n models.NewsletterSubscription) (int, error) {
	args := m.Called(ctx, n)
	return args.Int(0), args.Error(1)
}

func (m *NewsletterRepoMock) UpdateNewsletterSubscription(ctx context.Context, n models.NewsletterSubscription) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NewsletterRepoMock) IsNewsletterSubscribed(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *NewsletterRepoMock) ListActiveNewsletterSubscriptions(ctx context.Context) ([]*models.NewsletterSubscription, error) {
	args := m.Called(ctx)
	if list := args.Get(0); list != nil {
		return list.([]*models.NewsletterSubscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNewsletterLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSubscribe_NewEmail(t *testing.T) {
	repo := new(NewsletterRepoMock)
	repo.On("GetNewsletterByEmail", mock.Anything, "new@example.com").Return(nil, nil)
	repo.On("CreateNewsletterSubscription", mock.Anything, mock.MatchedBy(func(n models.NewsletterSubscription) bool {
		return n.Email == "new@example.com" &&
			n.IsActive &&
			n.UnsubscribeToken != "" &&
			n.FirstName != nil && *n.FirstName == "Jane"
	})).Return(1, nil)

	svc := NewNewsletterService(repo, nil, newNewsletterLogger())
	err := svc.Subscribe(context.Background(), "new@example.com", "Jane", "Doe", nil)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSubscribe_AlreadyActiveIsNoop(t *testing.T) {
	existing := &models.NewsletterSubscription{
		ID:       1,
		Email:    "here@example.com",
		IsActive: true,
	}

	repo := new(NewsletterRepoMock)
	repo.On("GetNewsletterByEmail", mock.Anything, "here@example.com").Return(existing, nil)

	svc := NewNewsletterService(repo, nil, newNewsletterLogger())
	err := svc.Subscribe(context.Background(), "here@example.com", "", "", nil)

	require.NoError(t, err)
	repo.AssertNotCalled(t, "CreateNewsletterSubscription", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateNewsletterSubscription", mock.Anything, mock.Anything)
}

func TestSubscribe_ReactivatesInactiveRow(t *testing.T) {
	unsubscribedAt := time.Now().UTC().AddDate(0, -1, 0)
	existing := &models.NewsletterSubscription{
		ID:             2,
		Email:          "back@example.com",
		IsActive:       false,
		UnsubscribedAt: &unsubscribedAt,
	}

	userID := 7
	repo := new(NewsletterRepoMock)
	repo.On("GetNewsletterByEmail", mock.Anything, "back@example.com").Return(existing, nil)
	repo.On("UpdateNewsletterSubscription", mock.Anything, mock.MatchedBy(func(n models.NewsletterSubscription) bool {
		return n.ID == 2 &&
			n.IsActive &&
			n.UnsubscribedAt == nil &&
			n.UserID != nil && *n.UserID == 7
	})).Return(nil)

	svc := NewNewsletterService(repo, nil, newNewsletterLogger())
	err := svc.Subscribe(context.Background(), "back@example.com", "Jane", "Doe", &userID)

	require.NoError(t, err)
	repo.AssertNotCalled(t, "CreateNewsletterSubscription", mock.Anything, mock.Anything)
}

func TestUnsubscribe(t *testing.T) {
	t.Run("active row is deactivated", func(t *testing.T) {
		existing := &models.NewsletterSubscription{
			ID:       3,
			Email:    "leaving@example.com",
			IsActive: true,
		}

		repo := new(NewsletterRepoMock)
		repo.On("GetNewsletterByEmail", mock.Anything, "leaving@example.com").Return(existing, nil)
		repo.On("UpdateNewsletterSubscription", mock.Anything, mock.MatchedBy(func(n models.NewsletterSubscription) bool {
			return n.ID == 3 && !n.IsActive && n.UnsubscribedAt != nil
		})).Return(nil)

		svc := NewNewsletterService(repo, nil, newNewsletterLogger())
		ok, err := svc.Unsubscribe(context.Background(), "leaving@example.com")

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(NewsletterRepoMock)
		repo.On("GetNewsletterByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

		svc := NewNewsletterService(repo, nil, newNewsletterLogger())
		ok, err := svc.Unsubscribe(context.Background(), "ghost@example.com")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("already inactive", func(t *testing.T) {
		existing := &models.NewsletterSubscription{ID: 4, Email: "gone@example.com", IsActive: false}

		repo := new(NewsletterRepoMock)
		repo.On("GetNewsletterByEmail", mock.Anything, "gone@example.com").Return(existing, nil)

		svc := NewNewsletterService(repo, nil, newNewsletterLogger())
		ok, err := svc.Unsubscribe(context.Background(), "gone@example.com")

		require.NoError(t, err)
		assert.False(t, ok)
		repo.AssertNotCalled(t, "UpdateNewsletterSubscription", mock.Anything, mock.Anything)
	})
}

func TestIsSubscribed(t *testing.T) {
	repo := new(NewsletterRepoMock)
	repo.On("IsNewsletterSubscribed", mock.Anything, "here@example.com").Return(true, nil)

	svc := NewNewsletterService(repo, nil, newNewsletterLogger())
	ok, err := svc.IsSubscribed(context.Background(), "here@example.com")

	require.NoError(t, err)
	assert.True(t, ok)
}
