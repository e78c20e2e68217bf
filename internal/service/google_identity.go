package service

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

var ErrMissingIDToken = errors.New("google token response carried no id_token")

// GoogleIdentity is what a verified Google ID token tells us about its holder.
type GoogleIdentity struct {
	GoogleId      string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

type GoogleIdentityVerifier interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*GoogleIdentity, error)
	VerifyIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

type googleIdentityVerifier struct {
	conf *oauth2.Config
}

func NewGoogleIdentityVerifier(clientID, clientSecret, redirectURL string) GoogleIdentityVerifier {
	return &googleIdentityVerifier{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (v *googleIdentityVerifier) AuthCodeURL(state string) string {
	return v.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (v *googleIdentityVerifier) ExchangeCode(ctx context.Context, code string) (*GoogleIdentity, error) {
	tok, err := v.conf.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, ErrMissingIDToken
	}
	return v.VerifyIDToken(ctx, raw)
}

func (v *googleIdentityVerifier) VerifyIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, idToken, v.conf.ClientID)
	if err != nil {
		return nil, err
	}
	return identityFromClaims(payload.Subject, payload.Claims), nil
}

func identityFromClaims(subject string, claims map[string]interface{}) *GoogleIdentity {
	identity := &GoogleIdentity{GoogleId: subject}
	identity.Email, _ = claims["email"].(string)
	identity.Name, _ = claims["name"].(string)
	identity.Picture, _ = claims["picture"].(string)
	switch verified := claims["email_verified"].(type) {
	case bool:
		identity.EmailVerified = verified
	case string:
		identity.EmailVerified = verified == "true"
	}
	return identity
}
