package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloara/go-storefront-api/internal/dto"
	"github.com/veloara/go-storefront-api/internal/model"
)

type mockUserRepo struct {
	byID  map[uuid.UUID]*model.User
	byUID map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byID: make(map[uuid.UUID]*model.User), byUID: make(map[string]*model.User)}
}

func (m *mockUserRepo) seed(user *model.User) *model.User {
	user.ID = uuid.New()
	m.byID[user.ID] = user
	m.byUID[user.UID] = user
	return user
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.byID[user.ID] = user
	m.byUID[user.UID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return m.byID[id], nil
}

func (m *mockUserRepo) GetByUID(_ context.Context, uid string) (*model.User, error) {
	return m.byUID[uid], nil
}

func loginRequest() dto.GoogleLoginRequest {
	return dto.GoogleLoginRequest{
		UID: "firebase-uid-1", Email: "jane@example.com",
		DisplayName: "Jane Roe", PhotoURL: "https://example.com/p.png",
	}
}

func TestAuthService_GoogleLogin_FirstLoginCreatesUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	resp, err := svc.GoogleLogin(context.Background(), loginRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.False(t, resp.User.IsAdmin)
	assert.Len(t, repo.byID, 1)
}

func TestAuthService_GoogleLogin_ReusesExistingUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	ctx := context.Background()

	first, err := svc.GoogleLogin(ctx, loginRequest())
	require.NoError(t, err)
	second, err := svc.GoogleLogin(ctx, loginRequest())
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Len(t, repo.byID, 1)
}

func TestAuthService_TokenClaims(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	resp, err := svc.GoogleLogin(context.Background(), loginRequest())
	require.NoError(t, err)

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])
	assert.Equal(t, "firebase-uid-1", claims["uid"])
	assert.Equal(t, "jane@example.com", claims["email"])
}

func TestAuthService_Me_NotFound(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), "secret", time.Hour)
	_, err := svc.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
