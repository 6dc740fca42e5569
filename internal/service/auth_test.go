package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"papertrade/internal/domain"
	"papertrade/internal/repository"
)

type fakeAccountRepo struct {
	accounts map[string]domain.Account
	nextID   uint
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts: make(map[string]domain.Account),
	}
}

func (r *fakeAccountRepo) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	if _, ok := r.accounts[account.Username]; ok {
		return domain.Account{}, repository.ErrUsernameExists
	}

	r.nextID++
	account.ID = r.nextID
	r.accounts[account.Username] = account

	return account, nil
}

func (r *fakeAccountRepo) FindByUsername(_ context.Context, username string) (domain.Account, error) {
	account, ok := r.accounts[username]
	if !ok {
		return domain.Account{}, repository.ErrAccountNotFound
	}

	return account, nil
}

func TestSignup(t *testing.T) {
	svc := NewAuthService(newFakeAccountRepo())

	created, err := svc.Signup(context.Background(), "alice", "passw0rd")
	require.NoError(t, err)

	assert.Equal(t, "alice", created.Username)
	assert.True(t, created.Cash.Equal(domain.StartingCash), "new accounts get the starting grant")

	// Only the hash is stored, and it verifies against the raw password.
	assert.NotEqual(t, "passw0rd", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("passw0rd")))
}

func TestSignup_UsernameTaken(t *testing.T) {
	svc := NewAuthService(newFakeAccountRepo())

	_, err := svc.Signup(context.Background(), "alice", "passw0rd")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "alice", "0therpass")
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestLogin(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := NewAuthService(repo)

	created, err := svc.Signup(context.Background(), "alice", "passw0rd")
	require.NoError(t, err)

	account, err := svc.Login(context.Background(), "alice", "passw0rd")
	require.NoError(t, err)
	assert.Equal(t, created.ID, account.ID)
}

func TestLogin_NoUsernameEnumeration(t *testing.T) {
	svc := NewAuthService(newFakeAccountRepo())

	_, err := svc.Signup(context.Background(), "alice", "passw0rd")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), "alice", "wrong")
	_, unknownUser := svc.Login(context.Background(), "nobody", "wrong")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)

	// The two failures must be indistinguishable to the caller.
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}
