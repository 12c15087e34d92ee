package profiles

import (
	"context"
	"fmt"
	"time"
)

type PetProfile struct {
	PetCode   string
	UserUUID  string
	Name      string
	Breed     string
	Image     string
	Weight    float64
	CreatedAt time.Time
}

type PetProfileRepository interface {
	Insert(ctx context.Context, profile *PetProfile) (err error)
	Update(ctx context.Context, profile *PetProfile) (err error)
	FindByPetCode(ctx context.Context, petCode string) (profile *PetProfile, err error)
	ListByUserUUID(ctx context.Context, userUUID string) (profiles []*PetProfile, err error)
	DeleteByPetCode(ctx context.Context, petCode string) (err error)
}

type PetNotFoundError struct {
	PetCode string
}

func (err PetNotFoundError) Error() string {
	return fmt.Sprintf("pet profile with code %q not found", err.PetCode)
}
