// Package access decides whether a caller may run an operation.
//
// A caller presents a set of role markers. Every operation declares which
// roles it accepts; Authorize compares the two. The decision is pure: it never
// touches storage and it runs before any input is validated.
package access

import (
	"sort"

	dErrors "renewal-gateway/pkg/domain-errors"
)

// Role is a capability a caller can hold.
type Role string

const (
	RoleDriver  Role = "driver"
	RoleOfficer Role = "officer"
)

// ParseRole maps a role name onto a known Role.
func ParseRole(name string) (Role, bool) {
	switch Role(name) {
	case RoleDriver, RoleOfficer:
		return Role(name), true
	default:
		return "", false
	}
}

// Markers is the set of roles a caller presented.
type Markers map[Role]struct{}

func NewMarkers(roles ...Role) Markers {
	m := make(Markers, len(roles))
	for _, r := range roles {
		m[r] = struct{}{}
	}
	return m
}

func (m Markers) Has(r Role) bool {
	_, ok := m[r]
	return ok
}

// Names returns the role names in sorted order.
func (m Markers) Names() []string {
	names := make([]string, 0, len(m))
	for r := range m {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return names
}

// Requirement lists the roles an operation accepts.
type Requirement struct {
	Driver  bool
	Officer bool
}

var (
	// DriverOrOfficer is satisfied by any authenticated caller.
	DriverOrOfficer = Requirement{Driver: true, Officer: true}
	OfficerOnly     = Requirement{Officer: true}
	DriverOnly      = Requirement{Driver: true}
)

// Outcome is the result of an authorization decision.
type Outcome int

const (
	Allowed Outcome = iota
	Unauthenticated
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Authorize evaluates markers against req.
//
// A caller without a driver or officer marker is Unauthenticated. When req
// accepts both roles any authenticated caller passes; holding one of them is
// enough. Otherwise each required role must be present.
func Authorize(markers Markers, req Requirement) Outcome {
	if !markers.Has(RoleDriver) && !markers.Has(RoleOfficer) {
		return Unauthenticated
	}
	if req.Driver && req.Officer {
		return Allowed
	}
	if req.Officer && !markers.Has(RoleOfficer) {
		return Forbidden
	}
	if req.Driver && !markers.Has(RoleDriver) {
		return Forbidden
	}
	return Allowed
}

// Err converts a denied outcome into a domain error; Allowed yields nil.
func (o Outcome) Err() error {
	switch o {
	case Allowed:
		return nil
	case Unauthenticated:
		return dErrors.New(dErrors.CodeUnauthorized, "requires authentication")
	default:
		return dErrors.New(dErrors.CodeForbidden, "requires proper authorization")
	}
}
