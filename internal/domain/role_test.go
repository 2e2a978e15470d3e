package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name string
		role string
		want bool
	}{
		{name: "admin", role: RoleAdmin, want: true},
		{name: "user", role: RoleUser, want: true},
		{name: "unknown", role: "superuser", want: false},
		{name: "empty", role: "", want: false},
		{name: "case sensitive", role: "Admin", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidRole(tt.role))
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(StatusActive))
	assert.True(t, IsValidStatus(StatusInactive))
	assert.False(t, IsValidStatus("suspended"))
	assert.False(t, IsValidStatus(""))
}

func TestCanAccessUser(t *testing.T) {
	admin := &User{ID: "a1", Role: RoleAdmin}
	regular := &User{ID: "u1", Role: RoleUser}

	tests := []struct {
		name      string
		principal *User
		targetID  string
		want      bool
	}{
		{name: "self access", principal: regular, targetID: "u1", want: true},
		{name: "other user denied", principal: regular, targetID: "u2", want: false},
		{name: "admin accesses anyone", principal: admin, targetID: "u2", want: true},
		{name: "admin accesses self", principal: admin, targetID: "a1", want: true},
		{name: "nil principal", principal: nil, targetID: "u1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessUser(tt.principal, tt.targetID))
		})
	}
}
