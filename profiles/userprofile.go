package profiles

import (
	"context"
	"fmt"
	"time"
)

// UserProfile is the write-side profile row. Nickname plus Tag is the
// public handle; the pair is unique.
type UserProfile struct {
	UserUUID  string
	Nickname  string
	Tag       string
	Image     string
	CreatedAt time.Time
}

type UserProfileRepository interface {
	Insert(ctx context.Context, profile *UserProfile) (err error)
	Update(ctx context.Context, profile *UserProfile) (err error)
	FindByUserUUID(ctx context.Context, userUUID string) (profile *UserProfile, err error)
	FindByNicknameAndTag(ctx context.Context, nickname, tag string) (profile *UserProfile, err error)
	ExistsByNicknameAndTag(ctx context.Context, nickname, tag string) (exists bool, err error)
}

type ProfileNotFoundError struct {
	UserUUID string
}

func (err ProfileNotFoundError) Error() string {
	return fmt.Sprintf("user profile for %q not found", err.UserUUID)
}

type DuplicateTagError struct {
	Nickname string
	Attempts int
}

func (err DuplicateTagError) Error() string {
	return fmt.Sprintf("failed to generate a unique tag for nickname %q after %d attempts", err.Nickname, err.Attempts)
}
