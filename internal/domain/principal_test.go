package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserLoggedIn(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.LoggedIn())
	assert.False(t, (&User{}).LoggedIn())
	assert.False(t, (&User{Principal: Principal{ID: 3, Type: PrincipalGroup}}).LoggedIn())
	assert.True(t, (&User{Principal: Principal{ID: 3, Type: PrincipalUser}}).LoggedIn())
}

func TestUserIsOrBelongsTo(t *testing.T) {
	u := &User{Principal: Principal{ID: 5, Type: PrincipalUser}, GroupIDs: []int64{30}}

	assert.True(t, u.IsOrBelongsTo(&Principal{ID: 5, Type: PrincipalUser}))
	assert.True(t, u.IsOrBelongsTo(&Principal{ID: 30, Type: PrincipalGroup}))
	assert.False(t, u.IsOrBelongsTo(&Principal{ID: 31, Type: PrincipalGroup}))
	// Same id as a group the user is not in, but typed as a user.
	assert.False(t, u.IsOrBelongsTo(&Principal{ID: 30, Type: PrincipalUser}))
	assert.False(t, u.IsOrBelongsTo(nil))

	var nilUser *User
	assert.False(t, nilUser.IsOrBelongsTo(&Principal{ID: 5}))
}

func TestUserMembershipLookups(t *testing.T) {
	u := &User{
		Principal: Principal{ID: 5, Type: PrincipalUser},
		Memberships: []Membership{
			{ID: 1, UserID: 5, ProjectID: 3, Roles: []Role{{ID: 10, Name: "A"}}},
			{ID: 2, UserID: 5, ProjectID: 7, Roles: []Role{{ID: 11, Name: "B"}}},
		},
	}

	m := u.MembershipFor(7)
	assert.NotNil(t, m)
	assert.Equal(t, int64(2), m.ID)
	assert.Nil(t, u.MembershipFor(9))

	roles := u.RolesForProject(3)
	assert.Len(t, roles, 1)
	assert.Equal(t, "A", roles[0].Name)
	assert.Nil(t, u.RolesForProject(9))

	var nilUser *User
	assert.Nil(t, nilUser.MembershipFor(3))
}

func TestCreatePrincipalRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreatePrincipalRequest
		wantErr bool
	}{
		{"user with login", CreatePrincipalRequest{Login: "a", Name: "A", Type: PrincipalUser}, false},
		{"defaults to user", CreatePrincipalRequest{Login: "a", Name: "A"}, false},
		{"group without login", CreatePrincipalRequest{Name: "G", Type: PrincipalGroup}, false},
		{"user without login", CreatePrincipalRequest{Name: "A"}, true},
		{"missing name", CreatePrincipalRequest{Login: "a"}, true},
		{"bad type", CreatePrincipalRequest{Login: "a", Name: "A", Type: "robot"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
