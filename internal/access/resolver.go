package access

import (
	"errors"
	"log/slog"
	"strings"

	pstrings "renewal-gateway/pkg/platform/strings"
)

const bearerPrefix = "Bearer "

// TokenValidator extracts role names from a signed bearer token.
type TokenValidator interface {
	RolesFromToken(token string) ([]string, error)
}

// Resolver turns raw Authorization header values into role markers.
//
// A value equal to a configured static key grants that key's role. A value of
// the form "Bearer <token>" grants the roles the token validator returns.
// Anything else is ignored, so an unrecognized credential resolves to an empty
// set and the caller is Unauthenticated.
type Resolver struct {
	keys   map[string]Role
	tokens TokenValidator
	logger *slog.Logger
}

type ResolverOption func(*Resolver)

// WithTokenValidator enables bearer-token role markers.
func WithTokenValidator(v TokenValidator) ResolverOption {
	return func(r *Resolver) {
		r.tokens = v
	}
}

func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver builds a resolver for the given static driver and officer keys.
func NewResolver(driverKey, officerKey string, opts ...ResolverOption) (*Resolver, error) {
	if driverKey == "" || officerKey == "" {
		return nil, errors.New("driver and officer keys are required")
	}
	if driverKey == officerKey {
		return nil, errors.New("driver and officer keys must differ")
	}
	r := &Resolver{
		keys: map[string]Role{
			driverKey:  RoleDriver,
			officerKey: RoleOfficer,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve collects markers from every header value. Comma-separated values
// are split so a single header line may carry several markers.
func (r *Resolver) Resolve(headerValues []string) Markers {
	markers := NewMarkers()

	for _, v := range pstrings.SplitDedupeAndTrim(headerValues, ",") {
		if role, ok := r.keys[v]; ok {
			markers[role] = struct{}{}
			continue
		}
		token, ok := strings.CutPrefix(v, bearerPrefix)
		if !ok || r.tokens == nil {
			continue
		}
		names, err := r.tokens.RolesFromToken(strings.TrimSpace(token))
		if err != nil {
			r.logger.Debug("ignoring invalid bearer token", "error", err)
			continue
		}
		for _, name := range names {
			if role, ok := ParseRole(name); ok {
				markers[role] = struct{}{}
			}
		}
	}
	return markers
}
