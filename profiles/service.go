package profiles

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/lookids/lookids/events"
)

// Service owns user profile lifecycle. Nickname and image changes are
// announced on the bus so consumers holding denormalized copies (the
// comment read side among them) can catch up.
type Service struct {
	userProfileRepo UserProfileRepository
	publisher       events.Publisher

	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

func NewService(userProfileRepo UserProfileRepository, publisher events.Publisher, rng *rand.Rand) *Service {
	return &Service{
		userProfileRepo: userProfileRepo,
		publisher:       publisher,
		rng:             rng,
	}
}

type CreateUserProfileRequest struct {
	UserUUID string
	Nickname string
}

func (svc *Service) CreateUserProfile(ctx context.Context, req CreateUserProfileRequest) (*UserProfile, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	tag, err := uniqueTag(ctx, svc.rng, req.Nickname, svc.userProfileRepo.ExistsByNicknameAndTag)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate tag: %w", err)
	}

	profile := &UserProfile{
		UserUUID:  req.UserUUID,
		Nickname:  req.Nickname,
		Tag:       tag,
		Image:     randomImage(svc.rng),
		CreatedAt: time.Now(),
	}

	err = svc.userProfileRepo.Insert(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user profile: %w", err)
	}

	err = svc.publisher.Publish(ctx, events.TopicUserProfileCreated, events.UserProfileCreated{
		UserUUID: profile.UserUUID,
		Nickname: profile.Nickname,
		Tag:      profile.Tag,
		Image:    profile.Image,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish user profile created event: %w", err)
	}

	return profile, nil
}

// UpdateNickname changes the nickname, re-tags the profile for the new
// nickname namespace, and announces the change.
func (svc *Service) UpdateNickname(ctx context.Context, userUUID, nickname string) (*UserProfile, error) {
	profile, err := svc.userProfileRepo.FindByUserUUID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	tag, err := uniqueTag(ctx, svc.rng, nickname, svc.userProfileRepo.ExistsByNicknameAndTag)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate tag: %w", err)
	}

	profile.Nickname = nickname
	profile.Tag = tag

	err = svc.userProfileRepo.Update(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}

	err = svc.publisher.Publish(ctx, events.TopicUserProfileUpdated, events.UserProfileUpdated{
		UserUUID: profile.UserUUID,
		Nickname: profile.Nickname,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish user profile updated event: %w", err)
	}

	return profile, nil
}

func (svc *Service) UpdateImage(ctx context.Context, userUUID, image string) (*UserProfile, error) {
	profile, err := svc.userProfileRepo.FindByUserUUID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}

	profile.Image = image

	err = svc.userProfileRepo.Update(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}

	err = svc.publisher.Publish(ctx, events.TopicUserProfileUpdated, events.UserProfileUpdated{
		UserUUID: profile.UserUUID,
		Image:    profile.Image,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish user profile updated event: %w", err)
	}

	return profile, nil
}

func (svc *Service) GetUserProfile(ctx context.Context, userUUID string) (*UserProfile, error) {
	profile, err := svc.userProfileRepo.FindByUserUUID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}

	return profile, nil
}

func (svc *Service) GetUserProfileByHandle(ctx context.Context, nickname, tag string) (*UserProfile, error) {
	profile, err := svc.userProfileRepo.FindByNicknameAndTag(ctx, nickname, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to load user profile by handle: %w", err)
	}

	return profile, nil
}
