package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/guonaihong/gout"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastseller/fastseller/internal/store"
)

// Mock tokens used when an account is created while the upstream API is
// unreachable.
const (
	localMockToken        = "local-mock-token"
	localMockRefreshToken = "local-mock-refresh"
)

const (
	accessTokenTTL  = 72 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
	remoteTimeout   = 10 * time.Second
)

var ErrInvalidCredentials = errors.New("credenziali non valide")

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Service implements registration, login and profile updates. With an
// upstream URL configured it is remote-first: the upstream API is the source
// of truth and only a transport failure triggers the local fallback. Without
// one it is the canonical account store, hashing passwords and issuing JWTs.
type Service struct {
	sessions  *SessionStore
	users     *Directory
	jwtSecret []byte
	upstream  string
	log       *zap.Logger
}

// NewService wires the auth service. upstream may be empty for fully local
// operation.
func NewService(sessions *SessionStore, users *Directory, jwtSecret, upstream string) *Service {
	return &Service{
		sessions:  sessions,
		users:     users,
		jwtSecret: []byte(jwtSecret),
		upstream:  strings.TrimRight(upstream, "/"),
		log:       zap.L(),
	}
}

// Sessions exposes the session store for callers that only read auth state.
func (s *Service) Sessions() *SessionStore { return s.sessions }

// Users exposes the user directory.
func (s *Service) Users() *Directory { return s.users }

type authEnvelope struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates an account and establishes a session. In remote mode a
// network failure falls back to a local account with a zero wallet and mock
// tokens, so development keeps working without a server; an upstream
// rejection (duplicate email and the like) does not fall back.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if s.upstream == "" {
		return s.registerLocal(req)
	}

	var resp authEnvelope
	var code int
	err := gout.POST(s.upstream + "/api/auth/register").
		WithContext(ctx).
		SetJSON(req).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		s.log.Warn("registrazione remota fallita, eseguo fallback locale", zap.Error(err))
		return s.registerFallback(req)
	}
	if code >= 200 && code < 300 && resp.Success && resp.User != nil {
		sess := &Session{User: resp.User, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
		if err := s.sessions.Set(sess); err != nil {
			return nil, err
		}
		return s.sessions.CurrentUser(), nil
	}
	if resp.Message != "" {
		return nil, errors.New(resp.Message)
	}
	return nil, errors.New("errore registrazione")
}

// registerFallback creates the offline local account used when the upstream
// is unreachable. No password is kept: the account exists only to let the
// client keep working.
func (s *Service) registerFallback(req RegisterRequest) (*User, error) {
	u := User{
		ID:            store.NewID(),
		Username:      req.Username,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		WalletBalance: 0,
	}
	if err := s.users.Insert(Record{User: u}); err != nil {
		return nil, err
	}
	sess := &Session{User: &u, AccessToken: localMockToken, RefreshToken: localMockRefreshToken}
	if err := s.sessions.Set(sess); err != nil {
		return nil, err
	}
	return &u, nil
}

// registerLocal is the canonical path: uniqueness check, bcrypt hash,
// server-assigned id, issued JWT pair.
func (s *Service) registerLocal(req RegisterRequest) (*User, error) {
	for _, login := range []string{req.Username, req.Email} {
		existing, err := s.users.FindByLogin(login)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, errors.New("username o email già registrati")
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := User{
		ID:            uuid.New().String(),
		Username:      req.Username,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		WalletBalance: 0,
	}
	if err := s.users.Insert(Record{User: u, PasswordHash: string(hashed)}); err != nil {
		return nil, err
	}
	return &u, s.establishSession(&u)
}

// Login authenticates and establishes a session. Remote mode treats any
// failure, transport included, as invalid credentials: there is no offline
// login.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	if s.upstream == "" {
		return s.loginLocal(username, password)
	}

	var resp authEnvelope
	var code int
	err := gout.POST(s.upstream + "/api/auth/login").
		WithContext(ctx).
		SetJSON(gout.H{"username": username, "password": password}).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil || code < 200 || code >= 300 || !resp.Success || resp.User == nil {
		return nil, ErrInvalidCredentials
	}
	sess := &Session{User: resp.User, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := s.sessions.Set(sess); err != nil {
		return nil, err
	}
	return s.sessions.CurrentUser(), nil
}

func (s *Service) loginLocal(username, password string) (*User, error) {
	rec, err := s.users.FindByLogin(username)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	u := rec.User
	return &u, s.establishSession(&u)
}

func (s *Service) establishSession(u *User) error {
	access, err := s.issueToken(u.ID, accessTokenTTL)
	if err != nil {
		return err
	}
	refresh, err := s.issueToken(u.ID, refreshTokenTTL)
	if err != nil {
		return err
	}
	return s.sessions.Set(&Session{User: u, AccessToken: access, RefreshToken: refresh})
}

// UpdateProfile merges a partial update onto the logged-in user. Remote mode
// tries the upstream first and degrades to a local-only merge when the call
// fails, matching the original client's offline behavior.
func (s *Service) UpdateProfile(ctx context.Context, p ProfileUpdate) (*User, error) {
	sess := s.sessions.Get()
	if sess == nil || sess.User == nil {
		return nil, ErrNoSession
	}

	if s.upstream != "" && sess.AccessToken != "" {
		var resp authEnvelope
		var code int
		err := gout.PATCH(s.upstream + "/api/auth/profile").
			WithContext(ctx).
			SetHeader(gout.H{"Authorization": "Bearer " + sess.AccessToken}).
			SetJSON(p).
			BindJSON(&resp).
			Code(&code).
			Do()
		if err == nil && code >= 200 && code < 300 && resp.Success && resp.User != nil {
			sess.User = resp.User
			if err := s.sessions.Set(sess); err != nil {
				return nil, err
			}
			return s.sessions.CurrentUser(), nil
		}
		s.log.Warn("aggiornamento profilo sul server fallito, eseguo fallback locale",
			zap.Error(err), zap.Int("status", code))
	}

	merged := mergeProfile(*sess.User, p)
	sess.User = &merged
	if err := s.sessions.Set(sess); err != nil {
		return nil, err
	}
	return s.sessions.CurrentUser(), nil
}

// UpdateUserProfile merges a partial update onto the directory record with
// the given id. This is the canonical-server path used by the HTTP API; the
// session is refreshed when it belongs to the same user.
func (s *Service) UpdateUserProfile(userID string, p ProfileUpdate) (*User, error) {
	rec, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("utente non trovato")
	}
	merged := mergeProfile(rec.User, p)
	if err := s.users.SyncUser(merged); err != nil {
		return nil, err
	}
	if sess := s.sessions.Get(); sess != nil && sess.User != nil && sess.User.ID == userID {
		sess.User = &merged
		if err := s.sessions.Set(sess); err != nil {
			return nil, err
		}
	}
	return &merged, nil
}

// Logout destroys the session.
func (s *Service) Logout() error {
	return s.sessions.Clear()
}

func (s *Service) issueToken(userID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseToken verifies a bearer token and returns the user id it carries.
func (s *Service) ParseToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if id, ok := claims["user_id"].(string); ok && id != "" {
			return id, nil
		}
	}
	return "", errors.New("invalid token claims")
}
