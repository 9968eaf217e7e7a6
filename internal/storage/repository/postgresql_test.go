package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mousejiggler/jiggler-backend/internal/models"
)

func TestStorage_Users(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("create and fetch by email", func(t *testing.T) {
		id, err := storage.CreateUser(ctx, models.User{
			Email:        "jane@example.com",
			FirstName:    "Jane",
			LastName:     "Doe",
			PasswordHash: "hash",
			IsActive:     true,
		})
		require.NoError(t, err)
		assert.Positive(t, id)

		user, err := storage.GetUserByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "Jane", user.FirstName)
		assert.Equal(t, "hash", user.PasswordHash)
		assert.Nil(t, user.LastLoginAt)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		_, err := storage.CreateUser(ctx, models.User{
			Email:        "jane@example.com",
			PasswordHash: "other",
			IsActive:     true,
		})
		assert.ErrorIs(t, err, models.ErrEmailTaken)
	})

	t.Run("email lookup is case sensitive", func(t *testing.T) {
		_, err := storage.GetUserByEmail(ctx, "JANE@example.com")
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := storage.UserExistsByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = storage.UserExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("update last login", func(t *testing.T) {
		user, err := storage.GetUserByEmail(ctx, "jane@example.com")
		require.NoError(t, err)

		require.NoError(t, storage.UpdateLastLogin(ctx, user.ID))

		user, err = storage.GetUserByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		require.NotNil(t, user.LastLoginAt)
		assert.WithinDuration(t, time.Now(), *user.LastLoginAt, time.Minute)
	})

	t.Run("fetch with subscription", func(t *testing.T) {
		factory := NewTestDataFactory(storage)
		userID := factory.CreateUser(t, "withsub@example.com", "With", "Sub", "hash")
		factory.CreateSubscription(t, userID, "pro", "active", time.Now().UTC(), nil, true)

		user, err := storage.GetUserByIDWithSubscription(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, user.Subscription)
		assert.Equal(t, "pro", user.Subscription.PlanName)
		assert.Equal(t, models.StatusActive, user.Subscription.Status)
	})

	t.Run("fetch without subscription", func(t *testing.T) {
		factory := NewTestDataFactory(storage)
		userID := factory.CreateUser(t, "nosub@example.com", "No", "Sub", "hash")

		user, err := storage.GetUserByIDWithSubscription(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, user.Subscription)
	})
}

func TestStorage_Subscriptions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	userID := factory.CreateUser(t, "subs@example.com", "Subs", "User", "hash")

	t.Run("create and read back", func(t *testing.T) {
		id, err := storage.CreateSubscription(ctx, models.Subscription{
			UserID:    userID,
			PlanName:  "pro",
			Status:    models.StatusActive,
			StartDate: time.Now().UTC(),
			IsActive:  true,
		})
		require.NoError(t, err)
		assert.Positive(t, id)

		sub, err := storage.GetSubscriptionByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, id, sub.ID)
		assert.Equal(t, models.StatusActive, sub.Status)
	})

	t.Run("has active subscription", func(t *testing.T) {
		has, err := storage.HasActiveSubscription(ctx, userID)
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("status update flips entitlement", func(t *testing.T) {
		sub, err := storage.GetSubscriptionByUserID(ctx, userID)
		require.NoError(t, err)

		require.NoError(t, storage.UpdateSubscriptionStatus(ctx, sub.ID, models.StatusCancelled))

		has, err := storage.HasActiveSubscription(ctx, userID)
		require.NoError(t, err)
		assert.False(t, has)

		sub, err = storage.GetSubscriptionByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, sub.Status)
		assert.NotNil(t, sub.UpdatedAt)
	})

	t.Run("expired end date is not entitled", func(t *testing.T) {
		otherID := factory.CreateUser(t, "expired@example.com", "Ex", "Pired", "hash")
		endDate := time.Now().UTC().Add(-time.Hour)
		factory.CreateSubscription(t, otherID, "pro", "active", time.Now().UTC().AddDate(0, -1, 0), &endDate, true)

		has, err := storage.HasActiveSubscription(ctx, otherID)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("missing subscription", func(t *testing.T) {
		lonerID := factory.CreateUser(t, "loner@example.com", "Lo", "Ner", "hash")

		_, err := storage.GetSubscriptionByUserID(ctx, lonerID)
		assert.ErrorIs(t, err, models.ErrSubscriptionNotFound)
	})
}

func TestStorage_ActivationKeys(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	userID := factory.CreateUser(t, "keys@example.com", "Key", "Owner", "hash")
	factory.CreateSubscription(t, userID, "pro", "active", time.Now().UTC(), nil, true)

	now := time.Now().UTC()
	expires := now.AddDate(1, 0, 0)

	t.Run("create and fetch with owner", func(t *testing.T) {
		id, err := storage.CreateActivationKey(ctx, models.ActivationKey{
			Key:         "1111-2222-3333-4444",
			UserID:      userID,
			ActivatedAt: &now,
			ExpiresAt:   &expires,
			IsActive:    true,
		})
		require.NoError(t, err)
		assert.Positive(t, id)

		ak, err := storage.GetActivationKeyWithUser(ctx, "1111-2222-3333-4444")
		require.NoError(t, err)
		assert.Equal(t, userID, ak.UserID)
		require.NotNil(t, ak.User)
		assert.Equal(t, "keys@example.com", ak.User.Email)
		require.NotNil(t, ak.User.Subscription)
		assert.Equal(t, models.StatusActive, ak.User.Subscription.Status)
	})

	t.Run("duplicate key is a conflict", func(t *testing.T) {
		_, err := storage.CreateActivationKey(ctx, models.ActivationKey{
			Key:      "1111-2222-3333-4444",
			UserID:   userID,
			IsActive: true,
		})
		assert.ErrorIs(t, err, models.ErrKeyExists)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := storage.GetActivationKeyWithUser(ctx, "0000-0000-0000-0000")
		assert.ErrorIs(t, err, models.ErrKeyNotFound)
	})

	t.Run("validity check", func(t *testing.T) {
		valid, err := storage.IsKeyValid(ctx, "1111-2222-3333-4444")
		require.NoError(t, err)
		assert.True(t, valid)

		// Not yet activated.
		factory.CreateActivationKey(t, "5555-6666-7777-8888", userID, nil, &expires, true)
		valid, err = storage.IsKeyValid(ctx, "5555-6666-7777-8888")
		require.NoError(t, err)
		assert.False(t, valid)

		// Expired.
		past := now.Add(-time.Hour)
		factory.CreateActivationKey(t, "9999-0000-1111-2222", userID, &now, &past, true)
		valid, err = storage.IsKeyValid(ctx, "9999-0000-1111-2222")
		require.NoError(t, err)
		assert.False(t, valid)
	})
}

func TestStorage_Newsletter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("absent email yields nil without error", func(t *testing.T) {
		row, err := storage.GetNewsletterByEmail(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.Nil(t, row)
	})

	t.Run("create, read, update roundtrip", func(t *testing.T) {
		first := "Jane"
		id, err := storage.CreateNewsletterSubscription(ctx, models.NewsletterSubscription{
			Email:            "news@example.com",
			FirstName:        &first,
			IsActive:         true,
			UnsubscribeToken: "c1a96fc4-2f8b-4f9d-9d57-2c6a5c1f0b18",
		})
		require.NoError(t, err)
		assert.Positive(t, id)

		row, err := storage.GetNewsletterByEmail(ctx, "news@example.com")
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.True(t, row.IsActive)

		now := time.Now().UTC()
		row.IsActive = false
		row.UnsubscribedAt = &now
		require.NoError(t, storage.UpdateNewsletterSubscription(ctx, *row))

		subscribed, err := storage.IsNewsletterSubscribed(ctx, "news@example.com")
		require.NoError(t, err)
		assert.False(t, subscribed)
	})

	t.Run("list active", func(t *testing.T) {
		factory := NewTestDataFactory(storage)
		factory.CreateNewsletterRow(t, "active1@example.com", true, nil)
		factory.CreateNewsletterRow(t, "active2@example.com", true, nil)
		factory.CreateNewsletterRow(t, "inactive@example.com", false, nil)

		rows, err := storage.ListActiveNewsletterSubscriptions(ctx)
		require.NoError(t, err)

		emails := make([]string, 0, len(rows))
		for _, row := range rows {
			emails = append(emails, row.Email)
		}
		assert.Contains(t, emails, "active1@example.com")
		assert.Contains(t, emails, "active2@example.com")
		assert.NotContains(t, emails, "inactive@example.com")
	})
}
