package iam

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/QuipuLog/CargoTrail/internal/storage/localstore"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	responses map[string]any
	err       error

	lastPath string
	lastBody any
}

func (f *fakeCaller) reply(path string, out any) error {
	f.lastPath = path
	if f.err != nil {
		return f.err
	}
	res, ok := f.responses[path]
	if !ok || out == nil {
		return nil
	}
	b, _ := json.Marshal(res)
	return json.Unmarshal(b, out)
}

func (f *fakeCaller) Get(ctx context.Context, path string, q url.Values, out any) error {
	return f.reply(path, out)
}
func (f *fakeCaller) Post(ctx context.Context, path string, in, out any) error {
	f.lastBody = in
	return f.reply(path, out)
}
func (f *fakeCaller) Patch(ctx context.Context, path string, in, out any) error {
	f.lastBody = in
	return f.reply(path, out)
}
func (f *fakeCaller) Delete(ctx context.Context, path string, out any) error {
	return f.reply(path, out)
}

type memStore struct {
	token string
	user  *localstore.StoredUser
	lang  string
}

func (m *memStore) Token() string { return m.token }
func (m *memStore) SetToken(token string) error {
	m.token = token
	return nil
}
func (m *memStore) User() (localstore.StoredUser, bool) {
	if m.user == nil {
		return localstore.StoredUser{}, false
	}
	return *m.user, true
}
func (m *memStore) SetUser(u localstore.StoredUser) error {
	m.user = &u
	return nil
}
func (m *memStore) ClearCredentials() error {
	m.token = ""
	m.user = nil
	return nil
}
func (m *memStore) Language() string { return m.lang }
func (m *memStore) SetLanguage(lang string) error {
	m.lang = lang
	return nil
}

func TestSignIn_PersistsSession(t *testing.T) {
	api := &fakeCaller{responses: map[string]any{
		"/authentication/sign-in": models.SignInResponseResource{
			ID: "u1", Username: "maria", Token: "tok-1",
		},
	}}
	store := &memStore{}
	svc := NewAuth(api, store)

	res, err := svc.SignIn(context.Background(), "maria", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok-1", res.Token)
	require.Equal(t, "tok-1", store.Token())

	u, ok := svc.CurrentUser()
	require.True(t, ok)
	require.Equal(t, "maria", u.Username)
	require.True(t, svc.IsAuthenticated())
}

func TestSignOut_ClearsStoreEvenWhenRemoteFails(t *testing.T) {
	api := &fakeCaller{err: errors.New("backend down")}
	store := &memStore{token: "tok-1", user: &localstore.StoredUser{ID: "u1", Username: "maria"}}
	svc := NewAuth(api, store)

	err := svc.SignOut(context.Background())
	require.NoError(t, err)
	require.Empty(t, store.Token())
	_, ok := svc.CurrentUser()
	require.False(t, ok)
	require.False(t, svc.IsAuthenticated())
}

func TestSignUp_DerivesRoleFromTenantType(t *testing.T) {
	api := &fakeCaller{responses: map[string]any{
		"/authentication/sign-up": models.SignUpResponseResource{
			ID: "u1", Username: "maria", TenantType: "CLIENT", Token: "tok-1",
		},
	}}
	store := &memStore{}
	svc := NewAuth(api, store)

	_, err := svc.SignUp(context.Background(), models.SignUpResource{
		RUC:        "20123456789",
		LegalName:  "Acme SAC",
		Username:   "maria",
		Password:   "secret",
		Email:      "maria@acme.pe",
		TenantType: "CLIENT",
	})
	require.NoError(t, err)

	sent, ok := api.lastBody.(models.SignUpResource)
	require.True(t, ok)
	require.Equal(t, models.RoleClient.String(), sent.Role)
	require.Equal(t, "tok-1", store.Token())
}

func TestSignUp_UnknownTenantTypeFailsBeforeCall(t *testing.T) {
	api := &fakeCaller{}
	svc := NewAuth(api, &memStore{})

	_, err := svc.SignUp(context.Background(), models.SignUpResource{
		Username: "maria", Password: "secret", RUC: "20123456789",
		TenantType: "FRANCHISE",
	})
	require.True(t, models.IsValidation(err))
	require.Empty(t, api.lastPath)
}

func TestRefreshToken_FailureForcesSignOut(t *testing.T) {
	api := &fakeCaller{err: errors.New("token rejected")}
	store := &memStore{token: "tok-old", user: &localstore.StoredUser{ID: "u1", Username: "maria"}}
	svc := NewAuth(api, store)

	err := svc.RefreshToken(context.Background())
	require.Error(t, err)
	require.Empty(t, store.Token())
	require.False(t, svc.IsAuthenticated())
}

func TestCreateUser_RejectsUnknownRole(t *testing.T) {
	api := &fakeCaller{}
	svc := NewUsers(api)

	_, err := svc.Create(context.Background(), models.CreateUserResource{
		Username: "pedro",
		Password: "secret",
		Roles:    []string{"ROLE_WIZARD"},
	})
	require.True(t, models.IsValidation(err))
	require.Empty(t, api.lastPath)
}
