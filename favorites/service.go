package favorites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lookids/lookids/events"
)

type Service struct {
	favoriteRepo FavoriteRepository
	publisher    events.Publisher
}

func NewService(favoriteRepo FavoriteRepository, publisher events.Publisher) *Service {
	return &Service{
		favoriteRepo: favoriteRepo,
		publisher:    publisher,
	}
}

// UpdateFavorite toggles the favorite flag for (user, feed), creating
// the row on first use, and announces the new state.
func (svc *Service) UpdateFavorite(ctx context.Context, userUUID, feedCode string) (*Favorite, error) {
	active := true

	existing, err := svc.favoriteRepo.FindByUserAndFeed(ctx, userUUID, feedCode)
	if err != nil {
		var notFoundErr FavoriteNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("failed to load favorite: %w", err)
		}
	}

	if existing != nil {
		active = !existing.Active
	}

	favorite := &Favorite{
		UserUUID:  userUUID,
		FeedCode:  feedCode,
		Active:    active,
		UpdatedAt: time.Now(),
	}

	err = svc.favoriteRepo.Upsert(ctx, favorite)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert favorite: %w", err)
	}

	err = svc.publisher.Publish(ctx, events.TopicFavoriteUpdated, events.FavoriteUpdated{
		UserUUID: favorite.UserUUID,
		FeedCode: favorite.FeedCode,
		Active:   favorite.Active,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish favorite updated event: %w", err)
	}

	return favorite, nil
}

func (svc *Service) ListFavorites(ctx context.Context, userUUID string) ([]*Favorite, error) {
	favorites, err := svc.favoriteRepo.ListActiveByUser(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	return favorites, nil
}
