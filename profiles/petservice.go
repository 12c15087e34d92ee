package profiles

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lookids/lookids/events"
)

// PetService owns pet profile lifecycle. Unlike user profiles, pet
// profiles are hard-deleted; the delete event lets consumers drop their
// copies.
type PetService struct {
	petProfileRepo PetProfileRepository
	publisher      events.Publisher
}

func NewPetService(petProfileRepo PetProfileRepository, publisher events.Publisher) *PetService {
	return &PetService{
		petProfileRepo: petProfileRepo,
		publisher:      publisher,
	}
}

type CreatePetProfileRequest struct {
	UserUUID string
	Name     string
	Breed    string
	Image    string
	Weight   float64
}

func (svc *PetService) CreatePetProfile(ctx context.Context, req CreatePetProfileRequest) (*PetProfile, error) {
	profile := &PetProfile{
		PetCode:   uuid.NewString(),
		UserUUID:  req.UserUUID,
		Name:      req.Name,
		Breed:     req.Breed,
		Image:     req.Image,
		Weight:    req.Weight,
		CreatedAt: time.Now(),
	}

	err := svc.petProfileRepo.Insert(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to insert pet profile: %w", err)
	}

	return profile, nil
}

type UpdatePetProfileRequest struct {
	PetCode string
	Name    string
	Breed   string
	Image   string
	Weight  float64
}

func (svc *PetService) UpdatePetProfile(ctx context.Context, req UpdatePetProfileRequest) (*PetProfile, error) {
	profile, err := svc.petProfileRepo.FindByPetCode(ctx, req.PetCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load pet profile: %w", err)
	}

	if req.Name != "" {
		profile.Name = req.Name
	}

	if req.Breed != "" {
		profile.Breed = req.Breed
	}

	if req.Image != "" {
		profile.Image = req.Image
	}

	if req.Weight > 0 {
		profile.Weight = req.Weight
	}

	err = svc.petProfileRepo.Update(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to update pet profile: %w", err)
	}

	err = svc.publisher.Publish(ctx, events.TopicPetProfileUpdated, events.PetProfileUpdated{
		PetCode:  profile.PetCode,
		UserUUID: profile.UserUUID,
		Name:     profile.Name,
		Breed:    profile.Breed,
		Image:    profile.Image,
		Weight:   profile.Weight,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish pet profile updated event: %w", err)
	}

	return profile, nil
}

func (svc *PetService) DeletePetProfile(ctx context.Context, petCode string) error {
	profile, err := svc.petProfileRepo.FindByPetCode(ctx, petCode)
	if err != nil {
		return fmt.Errorf("failed to load pet profile: %w", err)
	}

	err = svc.petProfileRepo.DeleteByPetCode(ctx, profile.PetCode)
	if err != nil {
		return fmt.Errorf("failed to delete pet profile: %w", err)
	}

	err = svc.publisher.Publish(ctx, events.TopicPetProfileDeleted, events.PetProfileDeleted{
		PetCode:  profile.PetCode,
		UserUUID: profile.UserUUID,
	})
	if err != nil {
		return fmt.Errorf("failed to publish pet profile deleted event: %w", err)
	}

	return nil
}

func (svc *PetService) GetPetProfile(ctx context.Context, petCode string) (*PetProfile, error) {
	profile, err := svc.petProfileRepo.FindByPetCode(ctx, petCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load pet profile: %w", err)
	}

	return profile, nil
}

func (svc *PetService) ListPetProfiles(ctx context.Context, userUUID string) ([]*PetProfile, error) {
	profiles, err := svc.petProfileRepo.ListByUserUUID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pet profiles: %w", err)
	}

	return profiles, nil
}
