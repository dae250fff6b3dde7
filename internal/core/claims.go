package core

import "github.com/golang-jwt/jwt/v4"

// Claims 登入服務發放的 session token 內容
type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}
