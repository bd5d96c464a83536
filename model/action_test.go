package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionRoundTrip(t *testing.T) {
	cases := []Action{
		{Kind: ActionApproveBan, ID: "123456789"},
		{Kind: ActionRevokeBan, ID: "42"},
		{Kind: ActionApproveAlt, ID: "99"},
		{Kind: ActionDenyAlt, ID: "99"},
		{Kind: ActionApproveRoleRequest, RoleID: "555", ID: "777"},
		{Kind: ActionDenyRoleRequest, RoleID: "555", ID: "777"},
		{Kind: ActionVerify},
		{Kind: ActionConfirmBan, ID: "interaction-1"},
	}

	for _, want := range cases {
		got, err := ParseAction(want.CustomID())
		require.NoError(t, err, "custom id %q", want.CustomID())
		assert.Equal(t, want, got)
	}
}

func TestParseActionRejectsUnknownKind(t *testing.T) {
	_, err := ParseAction("select_pools_menu")
	assert.Error(t, err)

	_, err = ParseAction("gban_nuke:123")
	assert.Error(t, err)
}

func TestParseActionRejectsWrongArity(t *testing.T) {
	_, err := ParseAction("gban_approve")
	assert.Error(t, err)

	_, err = ParseAction("rolereq_approve:onlyrole")
	assert.Error(t, err)

	_, err = ParseAction("verify:extra")
	assert.Error(t, err)
}
