package models

import "github.com/golang-jwt/jwt/v5"

// UserRole describes the caller's permission level. Token issuance is owned by
// the external auth service; this API only verifies and inspects claims.
type UserRole string

const (
	// RoleAdmin may edit timetables and toggle the edit lock.
	RoleAdmin UserRole = "ADMIN"
	// RoleViewer may only read the published timetable.
	RoleViewer UserRole = "VIEWER"
)

// JWTClaims is the access-token payload issued by the auth service.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
