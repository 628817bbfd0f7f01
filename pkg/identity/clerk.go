package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/devhubhq/devhub/pkg/observability"
)

// sessionCookie is the cookie the provider's frontend SDK sets.
const sessionCookie = "__session"

const listPageSize = 100

// ClerkConfig configures the Clerk-backed provider.
type ClerkConfig struct {
	// IssuerURL is the frontend API issuer of the instance; session tokens
	// are verified against its OIDC keys.
	IssuerURL string

	// APIBaseURL is the backend API root, e.g. https://api.clerk.com/v1.
	APIBaseURL string

	// SecretKey is the backend API bearer token.
	SecretKey string
}

// ClerkProvider implements Provider against a Clerk instance: session JWTs
// verified via OIDC discovery, profiles and user lists fetched from the
// backend API.
type ClerkProvider struct {
	verifier *oidc.IDTokenVerifier
	client   *http.Client
	baseURL  string
	metrics  *observability.Metrics
}

// NewClerkProvider discovers the issuer's keys and builds the backend API
// client. metrics may be nil.
func NewClerkProvider(ctx context.Context, cfg ClerkConfig, metrics *observability.Metrics) (*ClerkProvider, error) {
	if cfg.IssuerURL == "" {
		return nil, fmt.Errorf("identity issuer URL is required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("identity secret key is required")
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.clerk.com/v1"
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discovering identity provider: %w", err)
	}

	// Session tokens carry no audience, so the client ID check is skipped.
	verifier := provider.Verifier(&oidc.Config{SkipClientIDCheck: true})

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.SecretKey,
	}))

	return &ClerkProvider{
		verifier: verifier,
		client:   client,
		baseURL:  strings.TrimRight(cfg.APIBaseURL, "/"),
		metrics:  metrics,
	}, nil
}

// Authenticate resolves the caller from the Authorization header or the
// session cookie and verifies the token signature.
func (p *ClerkProvider) Authenticate(r *http.Request) (string, error) {
	raw := bearerToken(r)
	if raw == "" {
		if cookie, err := r.Cookie(sessionCookie); err == nil {
			raw = cookie.Value
		}
	}
	if raw == "" {
		return "", ErrUnauthenticated
	}

	token, err := p.verifier.Verify(r.Context(), raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return token.Subject, nil
}

// GetUser fetches one profile from the backend API.
func (p *ClerkProvider) GetUser(ctx context.Context, id string) (profile *Profile, err error) {
	defer func() {
		if p.metrics != nil {
			p.metrics.ObserveIdentityLookup("get_user", err)
		}
	}()

	profile = &Profile{}
	if err = p.getJSON(ctx, "/users/"+url.PathEscape(id), profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ListUsers fetches every registered user, paging through the backend API.
func (p *ClerkProvider) ListUsers(ctx context.Context) (profiles []*Profile, err error) {
	defer func() {
		if p.metrics != nil {
			p.metrics.ObserveIdentityLookup("list_users", err)
		}
	}()

	for offset := 0; ; offset += listPageSize {
		var page []*Profile
		path := fmt.Sprintf("/users?limit=%d&offset=%d", listPageSize, offset)
		if err = p.getJSON(ctx, path, &page); err != nil {
			return nil, err
		}
		profiles = append(profiles, page...)
		if len(page) < listPageSize {
			return profiles, nil
		}
	}
}

func (p *ClerkProvider) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building identity request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decoding identity response: %w", err)
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
