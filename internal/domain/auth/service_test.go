package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/domain/auth"
	"essenceflow/internal/infrastructure/storage/memory"
)

func newService(t *testing.T) (*auth.Service, *auth.JWTService) {
	t.Helper()
	store := memory.New()
	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))
	cfg := auth.DefaultServiceConfig()
	cfg.BcryptCost = bcrypt.MinCost
	return auth.NewService(store.Users(), store, jwtSvc, cfg), jwtSvc
}

func TestLogin_IssuesTokenWithRole(t *testing.T) {
	ctx := context.Background()
	svc, jwtSvc := newService(t)

	user, err := svc.CreateUser(ctx, auth.CreateUserRequest{
		Name:     "Admin",
		Email:    " Admin@EssenceFlow.test ",
		Password: "s3cret-pass",
		Role:     auth.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@essenceflow.test", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	token, loggedIn, err := svc.Login(ctx, auth.Credentials{Email: "ADMIN@essenceflow.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.True(t, token.ExpiresAt.After(time.Now()))
	require.NotNil(t, loggedIn.LastLoginAt)

	claims, err := jwtSvc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "Admin", claims.Name)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.CreateUser(ctx, auth.CreateUserRequest{
		Name: "Staff", Email: "staff@essenceflow.test", Password: "s3cret-pass", Role: auth.RoleStaff,
	})
	require.NoError(t, err)

	for _, creds := range []auth.Credentials{
		{Email: "staff@essenceflow.test", Password: "wrong-pass"},
		{Email: "nobody@essenceflow.test", Password: "s3cret-pass"},
	} {
		_, _, err := svc.Login(ctx, creds)
		require.Error(t, err)
		assert.Equal(t, 401, apperror.GetHTTPStatus(err))
	}
}

func TestCreateUser_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.CreateUser(ctx, auth.CreateUserRequest{Name: "A", Email: "a@b.c", Password: "short", Role: auth.RoleStaff})
	require.Error(t, err)

	_, err = svc.CreateUser(ctx, auth.CreateUserRequest{Name: "A", Email: "a@b.c", Password: "long-enough", Role: "owner"})
	require.Error(t, err)

	_, err = svc.CreateUser(ctx, auth.CreateUserRequest{Name: "A", Email: "a@b.c", Password: "long-enough", Role: auth.RoleManager})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, auth.CreateUserRequest{Name: "B", Email: "A@B.C", Password: "long-enough", Role: auth.RoleStaff})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestValidateToken_RejectsForeignSecret(t *testing.T) {
	issuer := auth.NewJWTService(auth.DefaultJWTConfig("one"))
	verifier := auth.NewJWTService(auth.DefaultJWTConfig("two"))

	user := auth.NewUser("Admin", "admin@essenceflow.test", "", auth.RoleAdmin)
	token, _, err := issuer.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)

	_, err = issuer.ValidateToken(token)
	assert.NoError(t, err)
}
