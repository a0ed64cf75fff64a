package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/samvad-hq/samvad-console-client/internal/config"
	"github.com/samvad-hq/samvad-console-client/internal/profiles"
	"github.com/samvad-hq/samvad-console-client/pkg/credstore"
	"github.com/samvad-hq/samvad-console-client/pkg/restclient"
)

// Token is the access token payload returned by the login endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is the public representation of a console account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Console wires configuration, the profile registry, the credential store,
// and the REST client into the operations the consolectl binary exposes.
type Console struct {
	cfg     *config.Config
	client  *restclient.Client
	store   *credstore.Store
	profile string
	log     *zap.SugaredLogger
}

// New builds the console runtime from config. When a profiles file is
// configured the selected profile supplies base URL, API version, and
// headers; otherwise the flat config values apply.
func New(cfg *config.Config, log *zap.SugaredLogger) (*Console, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	version := cfg.APIVersion
	headers := map[string]string{}
	withCredentials := false

	if strings.TrimSpace(cfg.ProfilesFile) != "" {
		reg, err := profiles.Load(cfg.ProfilesFile)
		if err != nil {
			return nil, fmt.Errorf("load profiles registry: %w", err)
		}
		p, ok := reg.ByID(cfg.Profile)
		if !ok {
			return nil, fmt.Errorf("profile %q not found in %s", cfg.Profile, cfg.ProfilesFile)
		}
		base = p.BaseURL
		version = p.APIVersion
		headers = p.Headers
		withCredentials = p.WithCredentials
		log.Infow("profile selected", "profile", p.ID, "base_url", p.BaseURL)
	}

	store, err := credstore.Open(cfg.CredStorePath)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	rcfg := &restclient.Config{
		Base:            base,
		Version:         version,
		WithCredentials: withCredentials,
		Token:           restclient.Resolver(store.TokenResolver(cfg.Profile)),
		Headers:         restclient.Static(headers),
		Interceptors:    restclient.NewInterceptors(),
	}
	client := restclient.NewWithTransport(rcfg, restclient.NewRestyTransport(cfg.RequestTimeout), log)

	return &Console{
		cfg:     cfg,
		client:  client,
		store:   store,
		profile: cfg.Profile,
		log:     log,
	}, nil
}

// Close releases the credential store.
func (c *Console) Close() error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Close()
}

// Client exposes the underlying REST client, e.g. for interceptor setup.
func (c *Console) Client() *restclient.Client { return c.client }

// HealthCheck calls the backend liveness endpoint.
func (c *Console) HealthCheck(ctx context.Context) (bool, error) {
	ok, err := restclient.Execute[bool](ctx, c.client, &restclient.Descriptor{
		Method: http.MethodGet,
		URL:    "/api/{api-version}/utils/health-check/",
	})
	if err != nil {
		return false, fmt.Errorf("health check: %w", err)
	}
	return ok, nil
}

// Login exchanges credentials for an access token via the OAuth2 password
// form and persists the token for the active profile.
func (c *Console) Login(ctx context.Context, username, password string) (Token, error) {
	token, err := restclient.Execute[Token](ctx, c.client, &restclient.Descriptor{
		Method: http.MethodPost,
		URL:    "/api/{api-version}/login/access-token",
		Form: map[string]any{
			"username": username,
			"password": password,
		},
		Errors: map[int]string{
			400: "Incorrect email or password",
		},
	})
	if err != nil {
		return Token{}, fmt.Errorf("login: %w", err)
	}

	if err := c.store.SetToken(c.profile, token.AccessToken); err != nil {
		return Token{}, fmt.Errorf("persist access token: %w", err)
	}
	c.log.Infow("access token stored", "profile", c.profile)
	return token, nil
}

// Logout drops the stored token for the active profile.
func (c *Console) Logout() error {
	if err := c.store.DeleteToken(c.profile); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// CurrentUser fetches the account the stored token belongs to.
func (c *Console) CurrentUser(ctx context.Context) (User, error) {
	user, err := restclient.Execute[User](ctx, c.client, &restclient.Descriptor{
		Method: http.MethodGet,
		URL:    "/api/{api-version}/users/me",
	})
	if err != nil {
		return User{}, fmt.Errorf("fetch current user: %w", err)
	}
	return user, nil
}

// TestToken validates the stored token against the backend.
func (c *Console) TestToken(ctx context.Context) (User, error) {
	user, err := restclient.Execute[User](ctx, c.client, &restclient.Descriptor{
		Method: http.MethodPost,
		URL:    "/api/{api-version}/login/test-token",
	})
	if err != nil {
		return User{}, fmt.Errorf("test token: %w", err)
	}
	return user, nil
}
