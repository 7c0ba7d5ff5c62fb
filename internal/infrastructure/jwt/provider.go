package jwtinfra

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/estate-leads-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload fields. IsAdmin is a snapshot taken at mint
// time; admin gates re-check the live allow-list instead of trusting it.
type Claims struct {
	UserID      string `json:"userId"`
	PhoneNumber string `json:"phoneNumber"`
	IsAgent     bool   `json:"isAgent"`
	IsAdmin     bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Provider signs and verifies JWTs. It uses RS256 when a key pair is
// configured and HS256 with the shared secret otherwise.
type Provider struct {
	method    jwt.SigningMethod
	signKey   interface{}
	verifyKey interface{}
	expiry    time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTPrivateKeyPath != "" && cfg.JWTPublicKeyPath != "" {
		return newRSAProvider(cfg)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt: neither a secret nor a key pair is configured")
	}
	secret := []byte(cfg.JWTSecret)
	return &Provider{
		method:    jwt.SigningMethodHS256,
		signKey:   secret,
		verifyKey: secret,
		expiry:    cfg.JWTExpiry,
	}, nil
}

func newRSAProvider(cfg *config.Config) (*Provider, error) {
	privBytes, err := os.ReadFile(cfg.JWTPrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privBytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	pubBytes, err := os.ReadFile(cfg.JWTPublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubBytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return &Provider{
		method:    jwt.SigningMethodRS256,
		signKey:   privKey,
		verifyKey: pubKey,
		expiry:    cfg.JWTExpiry,
	}, nil
}

func (p *Provider) Sign(userID, phoneNumber string, isAgent, isAdmin bool) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:      userID,
		PhoneNumber: phoneNumber,
		IsAgent:     isAgent,
		IsAdmin:     isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(p.method, claims).SignedString(p.signKey)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != p.method.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return p.verifyKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
