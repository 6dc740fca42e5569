package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"papertrade/internal/domain"
	"papertrade/internal/repository"
)

var (
	ErrUsernameExists = repository.ErrUsernameExists

	// ErrInvalidCredentials is returned for an unknown username and for a
	// wrong password alike, so login responses cannot be used to probe
	// which usernames exist.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type AuthAccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	FindByUsername(ctx context.Context, username string) (domain.Account, error)
}

type AuthService struct {
	repo AuthAccountRepository
}

func NewAuthService(repo AuthAccountRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

// Signup creates an account with the starting cash grant. Only the bcrypt
// hash of the password is ever stored.
func (s *AuthService) Signup(ctx context.Context, username, password string) (domain.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Account{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	created, err := s.repo.Create(ctx, domain.Account{
		Username: username,
		Password: string(hash),
		Cash:     domain.StartingCash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return domain.Account{}, ErrUsernameExists
		}

		return domain.Account{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Account, error) {
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domain.Account{}, ErrInvalidCredentials
		}

		return domain.Account{}, fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return domain.Account{}, ErrInvalidCredentials
	}

	return account, nil
}
