package models

import "github.com/golang-jwt/jwt/v5"

// UserRole enumerates the roles the API distinguishes.
type UserRole string

const (
	RoleTutor   UserRole = "TUTOR"
	RoleStudent UserRole = "STUDENT"
	RoleAdmin   UserRole = "ADMIN"
)

// JWTClaims carries the authenticated identity through the request context.
// Token issuance lives in the identity provider; this service only validates.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
