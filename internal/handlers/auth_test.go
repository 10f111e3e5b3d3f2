package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/crossfun/backend/internal/logger"
	"github.com/crossfun/backend/internal/models"
	"github.com/crossfun/backend/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore is an in-memory AuthStore enforcing the same uniqueness rules
// as the real database.
type memStore struct {
	users []*models.User
}

func (s *memStore) SaveUser(user *models.User) error {
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
		for _, w := range u.Wallets {
			if user.HasWallet(w.Address.String()) {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	s.users = append(s.users, user)
	return nil
}

func (s *memStore) UpdateUser(user *models.User) error { return nil }

func (s *memStore) UpdateUserFields(id string, fields map[string]interface{}) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		switch k {
		case "login_attempts":
			user.LoginAttempts = v.(int)
		case "lock_until":
			if v == nil {
				user.LockUntil = nil
			} else {
				until := v.(*time.Time)
				user.LockUntil = until
			}
		case "last_login_at":
			at := v.(time.Time)
			user.LastLoginAt = &at
		case "password_hash":
			user.PasswordHash = v.(string)
		}
	}
	return user, nil
}

func (s *memStore) GetUser(id string) (*models.User, error) {
	for _, u := range s.users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) FindUserByIdentifier(identifier string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == identifier || u.Email == strings.ToLower(identifier) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) FindUserByWallet(addr models.Address) (*models.User, error) {
	for _, u := range s.users {
		if u.HasWallet(addr.String()) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func newAuthRouter(store *memStore) *gin.Engine {
	h := NewAuthHandler(store, auth.NewJWTManager("test-secret", time.Hour), nil, logger.Nop())
	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/wallet-login", h.WalletLogin)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const walletOne = "0x1111111111111111111111111111111111111111"

func TestRegisterAndDuplicateWallet(t *testing.T) {
	store := &memStore{}
	r := newAuthRouter(store)

	w := postJSON(r, "/register", `{
		"username": "alice",
		"email": "alice@x.com",
		"password": "secret123",
		"walletAddress": "`+walletOne+`"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)
	assert.Contains(t, w.Body.String(), `"user"`)
	assert.NotContains(t, w.Body.String(), "passwordHash", "password hash must never serialize")

	// missing 0x prefix is rejected outright
	w = postJSON(r, "/register", `{
		"username": "mallory",
		"email": "mallory@x.com",
		"password": "secret123",
		"walletAddress": "`+strings.ToUpper(walletOne[2:])+`"
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// same wallet under a different identity
	w = postJSON(r, "/register", `{
		"username": "mallory",
		"email": "mallory@x.com",
		"password": "secret123",
		"walletAddress": "0x`+strings.Repeat("1", 40)+`"
	}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := &memStore{}
	r := newAuthRouter(store)

	w := postJSON(r, "/register", `{"username":"alice","email":"alice@x.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/register", `{"username":"alice","email":"other@x.com","password":"secret123"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r := newAuthRouter(&memStore{})

	w := postJSON(r, "/register", `{"username":"al","email":"not-an-email","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginByUsernameAndEmail(t *testing.T) {
	store := &memStore{}
	r := newAuthRouter(store)

	w := postJSON(r, "/register", `{"username":"alice","email":"Alice@X.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/login", `{"identifier":"alice","password":"secret123"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/login", `{"identifier":"ALICE@x.com","password":"secret123"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/login", `{"identifier":"nobody","password":"secret123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginLockout(t *testing.T) {
	store := &memStore{}
	r := newAuthRouter(store)

	w := postJSON(r, "/register", `{"username":"alice","email":"alice@x.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	for i := 0; i < models.MaxLoginAttempts; i++ {
		w = postJSON(r, "/login", `{"identifier":"alice","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i+1)
	}

	// the 6th attempt carries the correct password and is still rejected
	w = postJSON(r, "/login", `{"identifier":"alice","password":"secret123"}`)
	assert.Equal(t, http.StatusLocked, w.Code)
	assert.Contains(t, w.Body.String(), "lockUntil")

	user, err := store.FindUserByIdentifier("alice")
	require.NoError(t, err)
	require.NotNil(t, user.LockUntil)
	assert.True(t, user.LockUntil.After(time.Now()))
	assert.Equal(t, models.MaxLoginAttempts, user.LoginAttempts,
		"attempts do not increment while locked")
}

func TestLoginSuccessResetsLockout(t *testing.T) {
	store := &memStore{}
	r := newAuthRouter(store)

	w := postJSON(r, "/register", `{"username":"alice","email":"alice@x.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	for i := 0; i < models.MaxLoginAttempts-1; i++ {
		postJSON(r, "/login", `{"identifier":"alice","password":"wrong"}`)
	}

	w = postJSON(r, "/login", `{"identifier":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	user, err := store.FindUserByIdentifier("alice")
	require.NoError(t, err)
	assert.Zero(t, user.LoginAttempts)
	assert.Nil(t, user.LockUntil)
	assert.NotNil(t, user.LastLoginAt)
}

func TestLoginInactiveUser(t *testing.T) {
	store := &memStore{}
	r := newAuthRouter(store)

	w := postJSON(r, "/register", `{"username":"alice","email":"alice@x.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	user, err := store.FindUserByIdentifier("alice")
	require.NoError(t, err)
	user.IsActive = false

	w = postJSON(r, "/login", `{"identifier":"alice","password":"secret123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or inactive user")
}

func TestWalletLogin(t *testing.T) {
	store := &memStore{}
	r := newAuthRouter(store)

	w := postJSON(r, "/register", `{
		"username": "alice",
		"email": "alice@x.com",
		"password": "secret123",
		"walletAddress": "`+walletOne+`"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/wallet-login", `{"walletAddress":"`+walletOne+`","signature":"0xsigned"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)

	w = postJSON(r, "/wallet-login", `{"walletAddress":"0x2222222222222222222222222222222222222222","signature":"0xsigned"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/wallet-login", `{"walletAddress":"`+walletOne+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "signature is required")
}
