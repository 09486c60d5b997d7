package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	ErrAuthenticationFailure = errors.New("unauthorized access")
)

func NewUserService(db *sql.DB, mb common.MessageProducer, c *common.Cache) *UserService {
	return &UserService{
		m:  NewUserModel(db),
		t:  NewTokenModel(db),
		mb: mb,
		c:  c,
	}
}

type RegisterUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type UpsertUserRequest struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// RegisterUser creates a password account and publishes a user.registered event.
func (s *UserService) RegisterUser(ctx context.Context, req RegisterUserRequest) (*User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	v := common.NewValidator()
	validateEmail(v, req.Email)
	validatePassword(v, req.Password)
	validateName(v, req.FirstName, "firstName")
	validateName(v, req.LastName, "lastName")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := u.Password.set(req.Password); err != nil {
		return nil, err
	}

	err := s.m.insert(ctx, &u)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			return nil, common.NewValidationError("email", "a user with this email address already exists")
		default:
			return nil, err
		}
	}

	msg, err := json.Marshal(UserRegisteredEvent{Email: u.Email, FirstName: u.FirstName})
	if err != nil {
		return nil, err
	}

	if err := s.mb.Publish(ctx, msg, common.UserRegisteredKey, common.BlogExchange); err != nil {
		return nil, err
	}

	return &u, nil
}

// LoginUser checks the credentials and issues a new authentication token.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*Token, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	v := common.NewValidator()
	validateEmail(v, email)
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrAuthenticationFailure
	}

	return s.t.createToken(ctx, user.ID, AuthenticationTokenTime, TokenScopeAuthentication)
}

// UpsertUser creates the user or refreshes its profile fields.
func (s *UserService) UpsertUser(ctx context.Context, req UpsertUserRequest) (*User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	v := common.NewValidator()
	v.Check(req.ID != "", "id", "must be provided")
	validateEmail(v, req.Email)
	validateName(v, req.FirstName, "firstName")
	validateName(v, req.LastName, "lastName")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		ID:              req.ID,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		ProfileImageURL: req.ProfileImageURL,
	}

	err := s.m.upsert(ctx, &u)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			return nil, common.NewValidationError("email", "a user with this email address already exists")
		default:
			return nil, err
		}
	}

	s.c.Flush()

	return &u, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, common.ErrRecordNotFound
	}

	return s.m.getByID(ctx, id)
}

// GetUserByToken resolves a bearer token to its owner, consulting the lookup cache first.
func (s *UserService) GetUserByToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashToken(token)
	key := common.CacheKeyUserByToken(hash)

	if cached, found := s.c.Get(key); found {
		if u, ok := cached.(*User); ok {
			return u, nil
		}
	}

	u, expiry, err := s.m.getForToken(ctx, TokenScopeAuthentication, hash)
	if err != nil {
		return nil, err
	}

	// never serve a lookup past the token's own expiry
	if ttl := min(userLookupTTL, time.Until(expiry)); ttl > 0 {
		s.c.Set(key, u, ttl)
	}

	return u, nil
}

// LogoutUser revokes every authentication token of the user. Lookups are not
// keyed by user, so the whole lookup cache is dropped to evict the user's other tokens.
func (s *UserService) LogoutUser(ctx context.Context, userID string) error {
	if userID == "" {
		return common.NewValidationError("userId", "must be provided")
	}

	if err := s.t.deleteAllForUser(ctx, userID, TokenScopeAuthentication); err != nil {
		return err
	}

	s.c.Flush()

	return nil
}
