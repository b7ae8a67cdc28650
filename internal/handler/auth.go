package handler

import (
	"context"
	"encoding/gob"
	"net/http"
	"net/url"

	"github.com/Astemirdum/bookshelf-service/config"
	"github.com/Astemirdum/bookshelf-service/internal/model"
	"github.com/coreos/go-oidc"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	sessionName = "bookshelf_session"

	profileKey = "profile"
	returnKey  = "oauth2return"
	stateKey   = "oauth2state"

	loginPath    = "/auth/login"
	logoutPath   = "/auth/logout"
	callbackPath = "/auth/google/callback"

	googleIssuer = "https://accounts.google.com"
)

func init() {
	// Profile is stored whole in the session cookie.
	gob.Register(model.Profile{})
}

// Auth wraps the Google OAuth2/OIDC flow and the cookie session holding the
// authenticated profile.
type Auth struct {
	oauth    oauth2.Config
	verifier *oidc.IDTokenVerifier
	sessions sessions.Store
	log      *zap.Logger
}

func NewAuth(ctx context.Context, cfg config.OAuth, sess config.Session, log *zap.Logger) (*Auth, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, errors.Wrap(err, "oidc.NewProvider")
	}

	return &Auth{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.Callback,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		sessions: sessions.NewCookieStore([]byte(sess.Secret)),
		log:      log.Named("auth"),
	}, nil
}

// Login starts the authorization redirect. An explicit ?return= query
// parameter is remembered so the callback can resume navigation there.
func (a *Auth) Login(c echo.Context) error {
	sess, _ := a.sessions.Get(c.Request(), sessionName) //nolint:errcheck
	if ret := c.QueryParam("return"); ret != "" {
		sess.Values[returnKey] = ret
	}
	state := uuid.NewString()
	sess.Values[stateKey] = state
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, a.oauth.AuthCodeURL(state))
}

// Callback finishes the flow: verifies state, exchanges the code, extracts a
// minimal profile from the ID token and redirects to the saved return URL.
func (a *Auth) Callback(c echo.Context) error {
	ctx := c.Request().Context()
	sess, _ := a.sessions.Get(c.Request(), sessionName) //nolint:errcheck

	state, _ := sess.Values[stateKey].(string)
	delete(sess.Values, stateKey)
	if state == "" || c.QueryParam("state") != state {
		return echo.NewHTTPError(http.StatusUnauthorized, "state did not match")
	}

	token, err := a.oauth.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "failed to exchange token: "+err.Error())
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no id_token field in oauth2 token")
	}
	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "failed to verify ID Token: "+err.Error())
	}

	var claims struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "failed to parse claims: "+err.Error())
	}

	sess.Values[profileKey] = extractProfile(claims.Sub, claims.Name, claims.Picture)

	redirect, _ := sess.Values[returnKey].(string)
	delete(sess.Values, returnKey)
	if redirect == "" {
		redirect = "/"
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}

	a.log.Debug("login", zap.String("sub", claims.Sub), zap.String("name", claims.Name))
	return c.Redirect(http.StatusFound, redirect)
}

// Logout drops the profile from the session. The provider token is not
// revoked.
func (a *Auth) Logout(c echo.Context) error {
	sess, _ := a.sessions.Get(c.Request(), sessionName) //nolint:errcheck
	delete(sess.Values, profileKey)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

// Required gates a route to logged-in users. The originally requested URL is
// saved so the callback can send the user back after login.
func (a *Auth) Required(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := a.Profile(c); ok {
			return next(c)
		}
		sess, _ := a.sessions.Get(c.Request(), sessionName) //nolint:errcheck
		sess.Values[returnKey] = c.Request().RequestURI
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, loginPath)
	}
}

// TemplateVars exposes the profile and login/logout URLs to every rendered
// template, the latter two parameterized with the current URL.
func (a *Auth) TemplateVars(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if p, ok := a.Profile(c); ok {
			c.Set(profileKey, p)
		}
		ret := url.QueryEscape(c.Request().RequestURI)
		c.Set("login", loginPath+"?return="+ret)
		c.Set("logout", logoutPath+"?return="+ret)
		return next(c)
	}
}

// Profile returns the authenticated profile from the session, if any.
func (a *Auth) Profile(c echo.Context) (model.Profile, bool) {
	sess, err := a.sessions.Get(c.Request(), sessionName)
	if err != nil {
		return model.Profile{}, false
	}
	p, ok := sess.Values[profileKey].(model.Profile)
	return p, ok
}

func extractProfile(id, displayName, image string) model.Profile {
	return model.Profile{
		ID:          id,
		DisplayName: displayName,
		Image:       image,
	}
}
