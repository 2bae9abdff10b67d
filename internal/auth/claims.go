package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims identify the device driving the simulator and what it may do.
type Claims struct {
	jwt.RegisteredClaims

	DeviceID  string    `json:"device_id"`
	Role      string    `json:"role"`
	TokenType TokenType `json:"token_type"`
}
