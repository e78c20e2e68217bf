package service

import (
	"context"
	"errors"
	"testing"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/apperror"
	"ai-interview-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	identities map[string]*GoogleIdentity
}

func (v *fakeVerifier) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (v *fakeVerifier) ExchangeCode(ctx context.Context, code string) (*GoogleIdentity, error) {
	return v.VerifyIDToken(ctx, code)
}

func (v *fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	identity, ok := v.identities[idToken]
	if !ok {
		return nil, errors.New("token rejected")
	}
	return identity, nil
}

func newTestOAuthService(env *testEnv, verifier GoogleIdentityVerifier) (*oauthService, *memory.OAuthStateRepository) {
	states := memory.NewOAuthStateRepository()
	s := NewOAuthService(env.uow, verifier, states, env.tokens, 5, env.publisher, env.log).(*oauthService)
	s.now = env.clock.Now
	return s, states
}

func googleVerifier() *fakeVerifier {
	return &fakeVerifier{identities: map[string]*GoogleIdentity{
		"grace-token": {GoogleId: "g-100", Email: "grace@example.com", Name: "Grace Hopper", Picture: "https://img/grace.png", EmailVerified: true},
		"ada-token":   {GoogleId: "g-200", Email: "ada@example.com", Name: "Ada", EmailVerified: true},
	}}
}

func TestOAuthService_SignInCreatesThenReusesAccount(t *testing.T) {
	env := newTestEnv(t)
	s, _ := newTestOAuthService(env, googleVerifier())
	ctx := context.Background()

	first, err := s.SignInWithGoogleToken(ctx, "grace-token", "", "")
	require.NoError(t, err)
	assert.Equal(t, "google", first.User.Provider)
	assert.True(t, first.User.IsVerified)
	assert.True(t, first.User.GoogleLinked)
	assert.False(t, first.User.HasPassword)
	assert.Equal(t, "https://img/grace.png", first.User.AvatarURL)

	second, err := s.SignInWithGoogleToken(ctx, "grace-token", "", "")
	require.NoError(t, err)
	assert.Equal(t, first.User.Id, second.User.Id)
}

func TestOAuthService_LocalEmailCollision(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "ada@example.com")
	s, _ := newTestOAuthService(env, googleVerifier())

	_, err := s.SignInWithGoogleToken(context.Background(), "ada-token", "", "")
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestOAuthService_RejectsBadToken(t *testing.T) {
	env := newTestEnv(t)
	s, _ := newTestOAuthService(env, googleVerifier())

	_, err := s.SignInWithGoogleToken(context.Background(), "forged", "", "")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestOAuthService_CallbackConsumesState(t *testing.T) {
	env := newTestEnv(t)
	s, states := newTestOAuthService(env, googleVerifier())
	ctx := context.Background()

	states.Save("state-1")
	res, err := s.HandleGoogleCallback(ctx, "state-1", "grace-token", "", "")
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", res.User.Email)

	_, err = s.HandleGoogleCallback(ctx, "state-1", "grace-token", "", "")
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
}

func TestOAuthService_LoginURLIssuesState(t *testing.T) {
	env := newTestEnv(t)
	s, states := newTestOAuthService(env, googleVerifier())

	url, err := s.GetGoogleLoginURL()
	require.NoError(t, err)
	require.Contains(t, url, "state=")

	state := url[len("https://accounts.google.com/o/oauth2/auth?state="):]
	assert.True(t, states.Consume(state))
}

func TestOAuthService_LinkGoogleAccount(t *testing.T) {
	env := newTestEnv(t)
	s, _ := newTestOAuthService(env, googleVerifier())
	ctx := context.Background()

	ada := env.createUser(t, "ada@example.com")
	linked, err := s.LinkGoogleAccount(ctx, ada.Id, "ada-token")
	require.NoError(t, err)
	assert.True(t, linked.GoogleLinked)
	assert.Equal(t, string(entity.AuthProviderLocal), linked.Provider)

	// Linked accounts sign in through Google without colliding.
	res, err := s.SignInWithGoogleToken(ctx, "ada-token", "", "")
	require.NoError(t, err)
	assert.Equal(t, ada.Id, res.User.Id)

	other := env.createUser(t, "other@example.com")
	_, err = s.LinkGoogleAccount(ctx, other.Id, "ada-token")
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestOAuthService_NotConfigured(t *testing.T) {
	env := newTestEnv(t)
	s, _ := newTestOAuthService(env, nil)

	_, err := s.GetGoogleLoginURL()
	assert.True(t, apperror.Is(err, apperror.KindUnavailable))
}

func TestIdentityFromClaims(t *testing.T) {
	identity := identityFromClaims("sub-1", map[string]interface{}{
		"email":          "x@example.com",
		"name":           "X",
		"picture":        "https://img/x.png",
		"email_verified": "true",
	})
	assert.Equal(t, &GoogleIdentity{
		GoogleId:      "sub-1",
		Email:         "x@example.com",
		Name:          "X",
		Picture:       "https://img/x.png",
		EmailVerified: true,
	}, identity)
}
