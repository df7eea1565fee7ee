package auth

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// JWTValidator checks bearer tokens issued by the platform's auth
// service. Token issuance itself lives outside this service.
type JWTValidator struct {
	pub    *rsa.PublicKey
	secret []byte
	method string
}

func NewRS256Validator(path string) (*JWTValidator, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, errors.New("failed to decode public key")
	}
	pubIfc, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pub, ok := pubIfc.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not rsa public key")
	}
	return &JWTValidator{pub: pub, method: "RS256"}, nil
}

func NewHS256Validator(secret string) (*JWTValidator, error) {
	if secret == "" {
		return nil, errors.New("empty hs256 secret")
	}
	return &JWTValidator{secret: []byte(secret), method: "HS256"}, nil
}

// New builds a validator for the configured algorithm.
func New(alg, publicKeyPath, hsSecret string) (*JWTValidator, error) {
	switch strings.ToUpper(alg) {
	case "RS256":
		return NewRS256Validator(publicKeyPath)
	case "HS256":
		return NewHS256Validator(hsSecret)
	}
	return nil, errors.New("unsupported jwt alg")
}

// Validate returns the token subject (the authenticated user id).
func (j *JWTValidator) Validate(tokenStr string) (string, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if j.method == "RS256" {
			return j.pub, nil
		}
		return j.secret, nil
	}, jwt.WithValidMethods([]string{j.method}))
	if err != nil {
		return "", err
	}
	if claims, ok := tok.Claims.(jwt.MapClaims); ok && tok.Valid {
		if sub, ok := claims["sub"].(string); ok && sub != "" {
			return sub, nil
		}
		if userID, ok := claims["user_id"].(string); ok && userID != "" {
			return userID, nil
		}
	}
	return "", errors.New("invalid token")
}
