package anubis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/user"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/cache"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/logging"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/resilience"
	"github.com/riskibarqy/fourball-matchplay/internal/usecase"
)

const (
	adminKeyHeader       = "x-admin-key"
	maxResponseBodyBytes = 1 << 20
	defaultPrincipalTTL  = 30 * time.Second
)

// errTransient marks failures that count against the circuit breaker.
var errTransient = errors.New("anubis transient failure")

// Options configures the introspection client.
type Options struct {
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	Breaker        resilience.CircuitBreakerConfig
	// PrincipalTTL bounds how long a verified token is trusted without asking Anubis again.
	PrincipalTTL time.Duration
}

// Client resolves bearer tokens into match owners through the Anubis introspection endpoint.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	breaker       *resilience.CircuitBreaker
	principals    *cache.Store[user.Principal]
	logger        *logging.Logger
}

func NewClient(httpClient *http.Client, opts Options, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 3 * time.Second}
	}
	ttl := opts.PrincipalTTL
	if ttl <= 0 {
		ttl = defaultPrincipalTTL
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(opts.BaseURL, opts.IntrospectPath),
		adminKey:      strings.TrimSpace(opts.AdminKey),
		breaker:       resilience.NewCircuitBreaker(opts.Breaker),
		principals:    cache.NewStore[user.Principal](ttl),
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	return c.principals.GetOrLoad(ctx, hashToken(token), func(ctx context.Context) (user.Principal, error) {
		var principal user.Principal
		err := c.breaker.Do(ctx, func(ctx context.Context) error {
			var err error
			principal, err = c.introspect(ctx, token)
			return err
		}, isCircuitFailure)
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return user.Principal{}, fmt.Errorf("%w: anubis circuit open", usecase.ErrDependencyUnavailable)
		}
		if err != nil {
			return user.Principal{}, err
		}
		return principal, nil
	})
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set(adminKeyHeader, c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %w: request introspection: %w", usecase.ErrDependencyUnavailable, errTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %w: read introspect response: %w", usecase.ErrDependencyUnavailable, errTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		// Anubis rejected our admin key, not the caller's token.
		c.logger.ErrorContext(ctx, "anubis rejected admin key", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: anubis rejected admin key", usecase.ErrDependencyUnavailable)
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		c.logger.WarnContext(ctx, "anubis introspection unavailable", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: %w: status %d", usecase.ErrDependencyUnavailable, errTransient, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		c.logger.WarnContext(ctx, "anubis introspection non-200", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: anubis introspection failed with status %d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("%w: unmarshal introspect response: %w", usecase.ErrDependencyUnavailable, err)
	}
	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("%w: introspect response has empty user_id", usecase.ErrDependencyUnavailable)
	}

	return user.Principal{
		UserID: decoded.UserID,
		Email:  decoded.Email,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
