package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AdminTokenTTL is how long an admin bearer token stays valid
const AdminTokenTTL = 8 * time.Hour

// SupabaseUser is the identity carried by a Supabase access token
type SupabaseUser struct {
	ID    string
	Email string
	Role  string
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateAdminToken creates a JWT for the dashboard admin
func GenerateAdminToken(email, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("admin JWT secret not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  email,
		"role": "admin",
		"exp":  time.Now().Add(AdminTokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ValidateAdminToken checks an admin JWT and returns the admin email
func ValidateAdminToken(tokenString, secret string) (string, error) {
	claims, err := parseHS256(tokenString, secret)
	if err != nil {
		return "", err
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return "", errors.New("token is not an admin token")
	}
	email, _ := claims["sub"].(string)
	return email, nil
}

// AdminTokenExpiry returns the exp claim of a valid admin token, or now plus
// AdminTokenTTL when the claim is missing.
func AdminTokenExpiry(tokenString, secret string) (time.Time, error) {
	claims, err := parseHS256(tokenString, secret)
	if err != nil {
		return time.Time{}, err
	}
	if exp, ok := claims["exp"].(float64); ok {
		return time.Unix(int64(exp), 0), nil
	}
	return time.Now().Add(AdminTokenTTL), nil
}

// TokenFingerprint is the stored form of a revoked token
func TokenFingerprint(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}

// ValidateSupabaseToken verifies a Supabase access token signed with the
// project's JWT secret.
func ValidateSupabaseToken(tokenString, secret string) (*SupabaseUser, error) {
	claims, err := parseHS256(tokenString, secret)
	if err != nil {
		return nil, err
	}
	user := &SupabaseUser{}
	user.ID, _ = claims["sub"].(string)
	user.Email, _ = claims["email"].(string)
	user.Role, _ = claims["role"].(string)
	if user.ID == "" {
		return nil, errors.New("token has no subject")
	}
	if user.Role != "authenticated" && user.Role != "service_role" {
		return nil, fmt.Errorf("unexpected role %q", user.Role)
	}
	return user, nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func parseHS256(tokenString, secret string) (jwt.MapClaims, error) {
	if secret == "" {
		return nil, errors.New("JWT secret not configured")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
