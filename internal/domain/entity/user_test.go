package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticChecker struct{ match bool }

func (c staticChecker) Check(_, _ string) bool { return c.match }

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alex@example.com", NormalizeEmail("  Alex@Example.COM "))
}

func TestMatchPassword(t *testing.T) {
	user := User{PasswordHash: "some-hash"}
	assert.True(t, user.MatchPassword(staticChecker{match: true}, "secret"))
	assert.False(t, user.MatchPassword(staticChecker{match: false}, "secret"))

	// An empty hash never matches, regardless of the checker.
	empty := User{}
	assert.False(t, empty.MatchPassword(staticChecker{match: true}, "secret"))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
}

func TestRolesContains(t *testing.T) {
	roles := Roles{RoleAdmin}
	assert.True(t, roles.Contains(RoleAdmin))
	assert.False(t, roles.Contains(RoleUser))
}
