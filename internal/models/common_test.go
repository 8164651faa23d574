package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, MemberRoleViewer, NormalizeRole("viewer"))
	assert.Equal(t, MemberRoleViewer, NormalizeRole("  Viewer "))
	assert.Equal(t, MemberRoleEditor, NormalizeRole("editor"))
	assert.Equal(t, MemberRoleEditor, NormalizeRole("admin"))
	assert.Equal(t, MemberRoleEditor, NormalizeRole(""))
}

func TestUserPassword(t *testing.T) {
	var user User
	assert.NoError(t, user.SetPassword("correct horse"))
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.NoError(t, user.CheckPassword("correct horse"))
	assert.Error(t, user.CheckPassword("wrong"))
}
