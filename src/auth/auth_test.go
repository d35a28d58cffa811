package auth

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"windfarm-observer/src/helpers"
	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"
)

func newManager(t *testing.T) *AuthManager {
	t.Helper()
	users, err := DemoUsers(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("demo users: %v", err)
	}
	cfg := models.MAuthConfig{JWTSecretKey: "test-secret", JWTAlgorithm: "HS256", AccessTokenExpireMinutes: 30}
	am, err := NewAuthManager(cfg, users, logger.NewDiscardLogger("auth-test"))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return am
}

func TestAuthenticate(t *testing.T) {
	am := newManager(t)

	user, err := am.Authenticate("engineer", "engineer123")
	if err != nil || user.Role != RoleEngineer {
		t.Fatalf("expected engineer login, got %+v err=%v", user, err)
	}
	if _, err := am.Authenticate("engineer", "wrong"); !helpers.IsAuthentication(err) {
		t.Fatalf("wrong password must fail, got %v", err)
	}
	if _, err := am.Authenticate("nobody", "viewer123"); !helpers.IsAuthentication(err) {
		t.Fatalf("unknown user must fail, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	am := newManager(t)
	user, _ := am.Authenticate("admin", "admin123")

	token, expires, err := am.IssueToken(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if d := time.Until(expires); d < 29*time.Minute || d > 31*time.Minute {
		t.Fatalf("unexpected expiry %v", expires)
	}

	claims, err := am.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "admin" || claims.Role != RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateRejectsForeignTokens(t *testing.T) {
	am := newManager(t)

	other := *am
	other.Config.JWTSecretKey = "different"
	user := &User{Username: "viewer", Role: RoleViewer}
	forged, _, _ := other.IssueToken(user)
	if _, err := am.ValidateToken(forged); !helpers.IsAuthentication(err) {
		t.Fatalf("token signed with another secret must fail")
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:           RoleViewer,
		StandardClaims: jwt.StandardClaims{Subject: "viewer", ExpiresAt: time.Now().Add(-time.Minute).Unix()},
	})
	s, _ := expired.SignedString([]byte("test-secret"))
	if _, err := am.ValidateToken(s); err == nil {
		t.Fatalf("expired token must fail")
	}

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:           "root",
		StandardClaims: jwt.StandardClaims{Subject: "viewer", ExpiresAt: time.Now().Add(time.Hour).Unix()},
	})
	s, _ = badRole.SignedString([]byte("test-secret"))
	if _, err := am.ValidateToken(s); err == nil {
		t.Fatalf("unknown role must fail")
	}

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		Role:           RoleViewer,
		StandardClaims: jwt.StandardClaims{Subject: "viewer", ExpiresAt: time.Now().Add(time.Hour).Unix()},
	})
	s, _ = hs512.SignedString([]byte("test-secret"))
	if _, err := am.ValidateToken(s); err == nil {
		t.Fatalf("algorithm mismatch must fail")
	}
}

func TestHasRole(t *testing.T) {
	cases := []struct {
		role, required string
		want           bool
	}{
		{RoleAdmin, RoleEngineer, true},
		{RoleEngineer, RoleEngineer, true},
		{RoleViewer, RoleEngineer, false},
		{"guest", RoleViewer, false},
	}
	for _, c := range cases {
		if got := HasRole(c.role, c.required); got != c.want {
			t.Errorf("HasRole(%s, %s) = %v, want %v", c.role, c.required, got, c.want)
		}
	}
}

func TestNewAuthManagerValidatesConfig(t *testing.T) {
	log := logger.NewDiscardLogger("auth-test")
	if _, err := NewAuthManager(models.MAuthConfig{JWTSecretKey: "x", JWTAlgorithm: "RS256"}, nil, log); err == nil {
		t.Fatalf("asymmetric algorithms are not supported")
	}
	if _, err := NewAuthManager(models.MAuthConfig{}, nil, log); err == nil {
		t.Fatalf("empty secret must be rejected")
	}
}
