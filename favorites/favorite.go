package favorites

import (
	"context"
	"fmt"
	"time"
)

// Favorite marks a feed item as favorited by a user. Toggling keeps the
// row around with Active flipped instead of deleting it.
type Favorite struct {
	UserUUID  string
	FeedCode  string
	Active    bool
	UpdatedAt time.Time
}

type FavoriteRepository interface {
	Upsert(ctx context.Context, favorite *Favorite) (err error)
	FindByUserAndFeed(ctx context.Context, userUUID, feedCode string) (favorite *Favorite, err error)
	ListActiveByUser(ctx context.Context, userUUID string) (favorites []*Favorite, err error)
}

type FavoriteNotFoundError struct {
	UserUUID string
	FeedCode string
}

func (err FavoriteNotFoundError) Error() string {
	return fmt.Sprintf("favorite for user %q on feed %q not found", err.UserUUID, err.FeedCode)
}
