package userservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/inkwell/internal/common"
)

type tokenScope string

const (
	TokenScopeAuthentication tokenScope = "authentication"

	AuthenticationTokenTime time.Duration = 7 * 24 * time.Hour

	// userLookupTTL bounds how long a token → user lookup is served from memory.
	userLookupTTL time.Duration = time.Minute
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m  *UserModel
	t  *TokenModel
	mb common.MessageProducer
	c  *common.Cache
}

type UserModel struct {
	db *sql.DB
}

type TokenModel struct {
	db *sql.DB
}

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	Password        Password  `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

type Token struct {
	Plain  string     `json:"token"`
	Hash   []byte     `json:"-"`
	UserID string     `json:"-"`
	Expiry time.Time  `json:"expiry"`
	Scope  tokenScope `json:"-"`
}

// UserRegisteredEvent is published on common.UserRegisteredKey after sign-up.
type UserRegisteredEvent struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
}
