package favorites_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lookids/lookids/events"
	"github.com/lookids/lookids/favorites"
)

type favoriteKey struct {
	userUUID string
	feedCode string
}

type fakeFavoriteRepo struct {
	rows map[favoriteKey]*favorites.Favorite
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{rows: make(map[favoriteKey]*favorites.Favorite)}
}

func (repo *fakeFavoriteRepo) Upsert(_ context.Context, favorite *favorites.Favorite) error {
	cp := *favorite
	repo.rows[favoriteKey{userUUID: favorite.UserUUID, feedCode: favorite.FeedCode}] = &cp

	return nil
}

func (repo *fakeFavoriteRepo) FindByUserAndFeed(_ context.Context, userUUID, feedCode string) (*favorites.Favorite, error) {
	row, ok := repo.rows[favoriteKey{userUUID: userUUID, feedCode: feedCode}]
	if !ok {
		return nil, favorites.FavoriteNotFoundError{UserUUID: userUUID, FeedCode: feedCode}
	}

	cp := *row

	return &cp, nil
}

func (repo *fakeFavoriteRepo) ListActiveByUser(_ context.Context, userUUID string) ([]*favorites.Favorite, error) {
	var matched []*favorites.Favorite

	for _, row := range repo.rows {
		if row.UserUUID == userUUID && row.Active {
			cp := *row
			matched = append(matched, &cp)
		}
	}

	return matched, nil
}

type publishedEvent struct {
	topic   string
	message any
}

type fakePublisher struct {
	published []publishedEvent
}

func (pub *fakePublisher) Publish(_ context.Context, topic string, message any) error {
	pub.published = append(pub.published, publishedEvent{topic: topic, message: message})

	return nil
}

func TestService_UpdateFavorite(t *testing.T) {
	ctx := context.Background()

	repo := newFakeFavoriteRepo()
	pub := &fakePublisher{}
	svc := favorites.NewService(repo, pub)

	t.Run("first toggle favorites the feed", func(t *testing.T) {
		favorite, err := svc.UpdateFavorite(ctx, "user-1", "feed-1")
		require.NoError(t, err)
		require.True(t, favorite.Active)

		require.Len(t, pub.published, 1)
		require.Equal(t, events.TopicFavoriteUpdated, pub.published[0].topic)

		event, ok := pub.published[0].message.(events.FavoriteUpdated)
		require.True(t, ok)
		require.Equal(t, "user-1", event.UserUUID)
		require.Equal(t, "feed-1", event.FeedCode)
		require.True(t, event.Active)
	})

	t.Run("second toggle unfavorites it", func(t *testing.T) {
		favorite, err := svc.UpdateFavorite(ctx, "user-1", "feed-1")
		require.NoError(t, err)
		require.False(t, favorite.Active)

		event, ok := pub.published[len(pub.published)-1].message.(events.FavoriteUpdated)
		require.True(t, ok)
		require.False(t, event.Active)
	})

	t.Run("third toggle favorites it again", func(t *testing.T) {
		favorite, err := svc.UpdateFavorite(ctx, "user-1", "feed-1")
		require.NoError(t, err)
		require.True(t, favorite.Active)
	})
}

func TestService_ListFavorites(t *testing.T) {
	ctx := context.Background()

	repo := newFakeFavoriteRepo()
	svc := favorites.NewService(repo, &fakePublisher{})

	_, err := svc.UpdateFavorite(ctx, "user-1", "feed-1")
	require.NoError(t, err)

	_, err = svc.UpdateFavorite(ctx, "user-1", "feed-2")
	require.NoError(t, err)

	_, err = svc.UpdateFavorite(ctx, "user-2", "feed-1")
	require.NoError(t, err)

	// Toggle feed-2 back off; only active rows are listed.
	_, err = svc.UpdateFavorite(ctx, "user-1", "feed-2")
	require.NoError(t, err)

	list, err := svc.ListFavorites(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "feed-1", list[0].FeedCode)
}
