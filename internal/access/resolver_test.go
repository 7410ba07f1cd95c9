package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "renewal-gateway/internal/jwt_token"
)

const (
	driverKey  = "DRIVER@#$"
	officerKey = "OFFICER@#$"
)

func TestNewResolverRequiresDistinctKeys(t *testing.T) {
	_, err := NewResolver("", officerKey)
	assert.Error(t, err)

	_, err = NewResolver(driverKey, driverKey)
	assert.Error(t, err)
}

func TestResolveStaticKeys(t *testing.T) {
	r, err := NewResolver(driverKey, officerKey)
	require.NoError(t, err)

	assert.Empty(t, r.Resolve(nil))
	assert.Empty(t, r.Resolve([]string{"something-else"}))
	assert.Equal(t, NewMarkers(RoleDriver), r.Resolve([]string{driverKey}))
	assert.Equal(t, NewMarkers(RoleOfficer), r.Resolve([]string{" " + officerKey + " "}))
	assert.Equal(t, NewMarkers(RoleDriver, RoleOfficer), r.Resolve([]string{driverKey, officerKey}))
	assert.Equal(t, NewMarkers(RoleDriver, RoleOfficer), r.Resolve([]string{driverKey + ", " + officerKey}))
}

func TestResolveBearerTokens(t *testing.T) {
	tokens := jwttoken.NewJWTService("signing-key", "renewal-gateway")
	r, err := NewResolver(driverKey, officerKey, WithTokenValidator(tokens))
	require.NoError(t, err)

	officerToken, err := tokens.IssueRoleToken("officer-1", []string{"officer", "auditor"}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, NewMarkers(RoleOfficer), r.Resolve([]string{"Bearer " + officerToken}))

	expired, err := tokens.IssueRoleToken("driver-1", []string{"driver"}, -time.Minute)
	require.NoError(t, err)
	assert.Empty(t, r.Resolve([]string{"Bearer " + expired}))

	assert.Empty(t, r.Resolve([]string{"Bearer not-a-token"}))
}

func TestResolveIgnoresBearerWithoutValidator(t *testing.T) {
	tokens := jwttoken.NewJWTService("signing-key", "renewal-gateway")
	token, err := tokens.IssueRoleToken("officer-1", []string{"officer"}, time.Hour)
	require.NoError(t, err)

	r, err := NewResolver(driverKey, officerKey)
	require.NoError(t, err)
	assert.Empty(t, r.Resolve([]string{"Bearer " + token}))
}
