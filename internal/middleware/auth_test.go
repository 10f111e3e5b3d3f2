package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/crossfun/backend/internal/models"
	"github.com/crossfun/backend/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	users map[string]*models.User
	err   error
}

func (f *fakeStore) GetUser(id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsBlacklisted(c *gin.Context, token string) (bool, error) {
	return f.revoked[token], f.err
}

func newTestUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "alice",
		IsActive: true,
		Role:     models.RoleUser,
	}
}

func authRouter(jwtMgr *auth.JWTManager, bl TokenBlacklist, store UserStore) *gin.Engine {
	r := gin.New()
	r.GET("/me", Authenticate(jwtMgr, bl, store), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateMissingToken(t *testing.T) {
	r := authRouter(auth.NewJWTManager("k", time.Hour), nil, &fakeStore{})

	w := doGet(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "access token required")
}

func TestAuthenticateMalformedToken(t *testing.T) {
	r := authRouter(auth.NewJWTManager("k", time.Hour), nil, &fakeStore{})

	w := doGet(r, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestAuthenticateExpiredToken(t *testing.T) {
	expired := auth.NewJWTManager("k", -time.Minute)
	token, err := expired.Generate(uuid.NewString())
	require.NoError(t, err)

	r := authRouter(auth.NewJWTManager("k", time.Hour), nil, &fakeStore{})
	w := doGet(r, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestAuthenticateBlacklistedToken(t *testing.T) {
	jwtMgr := auth.NewJWTManager("k", time.Hour)
	user := newTestUser()
	token, err := jwtMgr.Generate(user.ID.String())
	require.NoError(t, err)

	bl := &fakeBlacklist{revoked: map[string]bool{token: true}}
	store := &fakeStore{users: map[string]*models.User{user.ID.String(): user}}

	w := doGet(authRouter(jwtMgr, bl, store), "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestAuthenticateInactiveAndBanned(t *testing.T) {
	jwtMgr := auth.NewJWTManager("k", time.Hour)

	inactive := newTestUser()
	inactive.IsActive = false
	banned := newTestUser()
	banned.IsBanned = true

	store := &fakeStore{users: map[string]*models.User{
		inactive.ID.String(): inactive,
		banned.ID.String():   banned,
	}}
	r := authRouter(jwtMgr, nil, store)

	for _, u := range []*models.User{inactive, banned} {
		token, err := jwtMgr.Generate(u.ID.String())
		require.NoError(t, err)

		w := doGet(r, "/me", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid or inactive user")
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	jwtMgr := auth.NewJWTManager("k", time.Hour)
	token, err := jwtMgr.Generate(uuid.NewString())
	require.NoError(t, err)

	w := doGet(authRouter(jwtMgr, nil, &fakeStore{}), "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or inactive user")
}

func TestAuthenticateStoreFault(t *testing.T) {
	jwtMgr := auth.NewJWTManager("k", time.Hour)
	token, err := jwtMgr.Generate(uuid.NewString())
	require.NoError(t, err)

	store := &fakeStore{err: errors.New("connection reset")}
	w := doGet(authRouter(jwtMgr, nil, store), "/me", token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "authentication failed")
}

func TestAuthenticateOK(t *testing.T) {
	jwtMgr := auth.NewJWTManager("k", time.Hour)
	user := newTestUser()
	token, err := jwtMgr.Generate(user.ID.String())
	require.NoError(t, err)

	store := &fakeStore{users: map[string]*models.User{user.ID.String(): user}}
	w := doGet(authRouter(jwtMgr, nil, store), "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())
}

func TestAuthenticateQueryTokenFallback(t *testing.T) {
	jwtMgr := auth.NewJWTManager("k", time.Hour)
	user := newTestUser()
	token, err := jwtMgr.Generate(user.ID.String())
	require.NoError(t, err)

	store := &fakeStore{users: map[string]*models.User{user.ID.String(): user}}
	w := doGet(authRouter(jwtMgr, nil, store), "/me?token="+token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthNeverAborts(t *testing.T) {
	jwtMgr := auth.NewJWTManager("k", time.Hour)
	r := gin.New()
	r.GET("/feed", OptionalAuth(jwtMgr, nil, &fakeStore{}), func(c *gin.Context) {
		_, authed := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"authed": authed})
	})

	for _, token := range []string{"", "garbage", "a.b.c"} {
		w := doGet(r, "/feed", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authed":false`)
	}

	user := newTestUser()
	token, err := jwtMgr.Generate(user.ID.String())
	require.NoError(t, err)

	r2 := gin.New()
	store := &fakeStore{users: map[string]*models.User{user.ID.String(): user}}
	r2.GET("/feed", OptionalAuth(jwtMgr, nil, store), func(c *gin.Context) {
		_, authed := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"authed": authed})
	})
	w := doGet(r2, "/feed", token)
	assert.Contains(t, w.Body.String(), `"authed":true`)
}

func roleRouter(user *models.User, guard gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/guarded", func(c *gin.Context) {
		c.Set(UserKey, user)
		c.Next()
	}, guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		role  models.Role
		guard gin.HandlerFunc
		want  int
	}{
		{models.RoleUser, RequireModerator(), http.StatusForbidden},
		{models.RoleModerator, RequireModerator(), http.StatusOK},
		{models.RoleModerator, RequireAdmin(), http.StatusForbidden},
		{models.RoleAdmin, RequireAdmin(), http.StatusOK},
		{models.RoleAdmin, RequireModerator(), http.StatusOK},
	}
	for _, tc := range cases {
		user := newTestUser()
		user.Role = tc.role
		w := doGet(roleRouter(user, tc.guard), "/guarded", "")
		assert.Equal(t, tc.want, w.Code, "role %s", tc.role)
	}
}

func ownershipRouter(user *models.User) *gin.Engine {
	r := gin.New()
	attach := func(c *gin.Context) {
		c.Set(UserKey, user)
		c.Next()
	}
	r.POST("/wallets/:walletAddress", attach, RequireWalletOwnership("walletAddress"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.POST("/body", attach, RequireWalletOwnership("walletAddress"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

const ownedAddr = "0xAAaa00000000000000000000000000000000aaAA"

func ownerUser(t *testing.T, role models.Role) *models.User {
	t.Helper()
	user := newTestUser()
	user.Role = role
	addr, err := models.ParseAddress(ownedAddr)
	require.NoError(t, err)
	require.NoError(t, user.AddWallet(addr, 1))
	return user
}

func TestWalletOwnershipFromParam(t *testing.T) {
	r := ownershipRouter(ownerUser(t, models.RoleUser))

	// mixed case must still match the stored lowercase wallet
	req := httptest.NewRequest(http.MethodPost, "/wallets/0xAAAA00000000000000000000000000000000AAAA", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/wallets/0xBBbb00000000000000000000000000000000bbBB", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWalletOwnershipFromBody(t *testing.T) {
	r := ownershipRouter(ownerUser(t, models.RoleUser))

	body := strings.NewReader(`{"walletAddress":"0xAAAA00000000000000000000000000000000AAAA"}`)
	req := httptest.NewRequest(http.MethodPost, "/body", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	body = strings.NewReader(`{"walletAddress":"0xBBbb00000000000000000000000000000000bbBB"}`)
	req = httptest.NewRequest(http.MethodPost, "/body", body)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWalletOwnershipMissingField(t *testing.T) {
	r := ownershipRouter(ownerUser(t, models.RoleUser))

	req := httptest.NewRequest(http.MethodPost, "/body", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWalletOwnershipAdminBypass(t *testing.T) {
	admin := newTestUser()
	admin.Role = models.RoleAdmin // no wallets at all
	r := ownershipRouter(admin)

	req := httptest.NewRequest(http.MethodPost, "/wallets/0xCCcc00000000000000000000000000000000ccCC", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSelfOrAdmin(t *testing.T) {
	user := newTestUser()
	other := uuid.NewString()

	r := gin.New()
	attach := func(c *gin.Context) {
		c.Set(UserKey, user)
		c.Next()
	}
	r.GET("/users/:id", attach, RequireSelfOrAdmin("id"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doGet(r, "/users/"+user.ID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doGet(r, "/users/"+other, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	user.Role = models.RoleAdmin
	w = doGet(r, "/users/"+other, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
