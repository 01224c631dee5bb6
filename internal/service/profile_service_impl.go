package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/repository"
)

var ErrInvalidProfile = errors.New("invalid profile")

type profileService struct {
	profiles repository.ProfileRepo
	observer UseCaseObserver
}

func NewProfileService(profiles repository.ProfileRepo, observers ...UseCaseObserver) ProfileService {
	return &profileService{profiles: profiles, observer: useCaseObserverOrNoop(observers)}
}

func (s *profileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.profiles.Get(ctx, userID)
}

func (s *profileService) Set(ctx context.Context, p *domain.UserProfile) (err error) {
	defer observe(ctx, s.observer, "set-profile", map[string]any{"user": p.UserID})(&err)

	p.FullName = strings.TrimSpace(p.FullName)
	p.Department = strings.TrimSpace(p.Department)
	p.Email = strings.TrimSpace(p.Email)
	if err = ValidateProfile(p); err != nil {
		return err
	}
	return s.profiles.Upsert(ctx, p)
}

// ValidateProfile requires name, department and an email containing "@".
func ValidateProfile(p *domain.UserProfile) error {
	var missing []string
	if strings.TrimSpace(p.FullName) == "" {
		missing = append(missing, "full name")
	}
	if strings.TrimSpace(p.Department) == "" {
		missing = append(missing, "department")
	}
	if strings.TrimSpace(p.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalidProfile, strings.Join(missing, ", "))
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: email %q has no @", ErrInvalidProfile, p.Email)
	}
	return nil
}
