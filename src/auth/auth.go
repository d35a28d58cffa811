package auth

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"windfarm-observer/src/helpers"
	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"
)

// Roles, lowest privilege first
const (
	RoleViewer   = "viewer"
	RoleEngineer = "engineer"
	RoleAdmin    = "admin"
)

var roleRank = map[string]int{
	RoleViewer:   0,
	RoleEngineer: 1,
	RoleAdmin:    2,
}

const tokenIssuer = "windfarm-observer"

type User struct {
	Username     string
	PasswordHash string
	Role         string
}

// Claims represents JWT claims; the username travels in the subject
type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// AuthManager verifies credentials against an in-memory user store and
// issues HMAC-signed access tokens.
type AuthManager struct {
	Config models.MAuthConfig
	Logger *logger.Logger
	users  map[string]User
	method *jwt.SigningMethodHMAC
}

// -----------------------------------------------------------------------------

func NewAuthManager(cfg models.MAuthConfig, users []User, log *logger.Logger) (*AuthManager, error) {
	method, err := signingMethod(cfg.JWTAlgorithm)
	if err != nil {
		return nil, err
	}
	if cfg.JWTSecretKey == "" {
		return nil, helpers.NewConfiguration("auth.jwt_secret_key must be set")
	}

	byName := make(map[string]User, len(users))
	for _, u := range users {
		if _, ok := roleRank[u.Role]; !ok {
			return nil, helpers.NewConfiguration("user %s has unknown role %q", u.Username, u.Role)
		}
		byName[u.Username] = u
	}
	return &AuthManager{Config: cfg, Logger: log, users: byName, method: method}, nil
}

// -----------------------------------------------------------------------------

func signingMethod(name string) (*jwt.SigningMethodHMAC, error) {
	switch name {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, helpers.NewConfiguration("unsupported jwt algorithm %q", name)
	}
}

// -----------------------------------------------------------------------------

// DemoUsers returns the built-in admin, engineer and viewer accounts.
// Passwords are <username>123.
func DemoUsers(cost int) ([]User, error) {
	var users []User
	for _, role := range []string{RoleAdmin, RoleEngineer, RoleViewer} {
		hash, err := HashPassword(role+"123", cost)
		if err != nil {
			return nil, err
		}
		users = append(users, User{Username: role, PasswordHash: hash, Role: role})
	}
	return users, nil
}

// -----------------------------------------------------------------------------

// HashPassword creates a bcrypt hash from a password
func HashPassword(password string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(b), err
}

// -----------------------------------------------------------------------------

// Authenticate validates username and password. Unknown users and wrong
// passwords produce the same error.
func (am *AuthManager) Authenticate(username, password string) (*User, error) {
	user, ok := am.users[username]
	if !ok {
		return nil, helpers.NewAuthentication("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, helpers.NewAuthentication("invalid credentials")
	}
	return &user, nil
}

// -----------------------------------------------------------------------------

// IssueToken creates a signed access token for the user
func (am *AuthManager) IssueToken(user *User) (string, time.Time, error) {
	now := time.Now().UTC()
	expires := now.Add(time.Duration(am.Config.AccessTokenExpireMinutes) * time.Minute)

	claims := &Claims{
		Role: user.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.Username,
			ExpiresAt: expires.Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(am.method, claims)
	signed, err := token.SignedString([]byte(am.Config.JWTSecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// -----------------------------------------------------------------------------

// ValidateToken verifies signature, algorithm, expiry and role
func (am *AuthManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != am.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(am.Config.JWTSecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, helpers.NewAuthentication("invalid token")
	}
	if claims.Subject == "" {
		return nil, helpers.NewAuthentication("invalid token")
	}
	if _, ok := roleRank[claims.Role]; !ok {
		return nil, helpers.NewAuthentication("invalid token")
	}
	return claims, nil
}

// -----------------------------------------------------------------------------

// HasRole reports whether role grants at least the required privilege
func HasRole(role, required string) bool {
	have, ok := roleRank[role]
	if !ok {
		return false
	}
	return have >= roleRank[required]
}
