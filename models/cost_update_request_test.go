package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostUpdateStatus_Valid(t *testing.T) {
	valid := []CostUpdateStatus{
		CostUpdateStatusPending,
		CostUpdateStatusInReview,
		CostUpdateStatusApproved,
		CostUpdateStatusApplied,
		CostUpdateStatusRejected,
	}
	for _, s := range valid {
		assert.True(t, s.Valid(), "expected %s to be valid", s)
	}

	assert.False(t, CostUpdateStatus("").Valid())
	assert.False(t, CostUpdateStatus("archived").Valid())
}

func TestCostUpdateStatus_IsTerminal(t *testing.T) {
	assert.True(t, CostUpdateStatusApplied.IsTerminal())
	assert.True(t, CostUpdateStatusRejected.IsTerminal())

	assert.False(t, CostUpdateStatusPending.IsTerminal())
	assert.False(t, CostUpdateStatusInReview.IsTerminal())
	assert.False(t, CostUpdateStatusApproved.IsTerminal())
}

func TestCostUpdateStatus_ScanValue(t *testing.T) {
	var s CostUpdateStatus

	require.NoError(t, s.Scan("approved"))
	assert.Equal(t, CostUpdateStatusApproved, s)

	require.NoError(t, s.Scan([]byte("in_review")))
	assert.Equal(t, CostUpdateStatusInReview, s)

	require.NoError(t, s.Scan(nil))
	assert.Equal(t, CostUpdateStatus(""), s)

	assert.Error(t, s.Scan(42))

	v, err := CostUpdateStatusPending.Value()
	require.NoError(t, err)
	assert.Equal(t, "pending", v)

	_, err = CostUpdateStatus("archived").Value()
	assert.Error(t, err)
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    CostUpdateStatus
		to      CostUpdateStatus
		allowed bool
	}{
		{name: "pending to in_review", from: CostUpdateStatusPending, to: CostUpdateStatusInReview, allowed: true},
		{name: "pending to rejected", from: CostUpdateStatusPending, to: CostUpdateStatusRejected, allowed: true},
		{name: "pending to approved skips review", from: CostUpdateStatusPending, to: CostUpdateStatusApproved, allowed: false},
		{name: "pending to applied skips workflow", from: CostUpdateStatusPending, to: CostUpdateStatusApplied, allowed: false},
		{name: "in_review to approved", from: CostUpdateStatusInReview, to: CostUpdateStatusApproved, allowed: true},
		{name: "in_review to rejected", from: CostUpdateStatusInReview, to: CostUpdateStatusRejected, allowed: true},
		{name: "in_review back to pending", from: CostUpdateStatusInReview, to: CostUpdateStatusPending, allowed: false},
		{name: "approved to applied", from: CostUpdateStatusApproved, to: CostUpdateStatusApplied, allowed: true},
		{name: "approved to rejected", from: CostUpdateStatusApproved, to: CostUpdateStatusRejected, allowed: true},
		{name: "approved back to in_review", from: CostUpdateStatusApproved, to: CostUpdateStatusInReview, allowed: false},
		{name: "applied is terminal", from: CostUpdateStatusApplied, to: CostUpdateStatusRejected, allowed: false},
		{name: "rejected is terminal", from: CostUpdateStatusRejected, to: CostUpdateStatusPending, allowed: false},
		{name: "rejected cannot reopen to in_review", from: CostUpdateStatusRejected, to: CostUpdateStatusInReview, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &CostUpdateRequest{Status: tt.from}
			assert.Equal(t, tt.allowed, r.CanTransitionTo(tt.to))
		})
	}
}

func TestCanTransitionTo_TerminalStatesAdmitNothing(t *testing.T) {
	all := []CostUpdateStatus{
		CostUpdateStatusPending,
		CostUpdateStatusInReview,
		CostUpdateStatusApproved,
		CostUpdateStatusApplied,
		CostUpdateStatusRejected,
	}

	for _, terminal := range []CostUpdateStatus{CostUpdateStatusApplied, CostUpdateStatusRejected} {
		r := &CostUpdateRequest{Status: terminal}
		for _, to := range all {
			assert.False(t, r.CanTransitionTo(to), "%s must not move to %s", terminal, to)
		}
	}
}

func TestRuleFor(t *testing.T) {
	tests := []struct {
		action          TransitionAction
		from            CostUpdateStatus
		to              CostUpdateStatus
		role            UserRole
		requiresComment bool
	}{
		{ActionSubmitForApproval, CostUpdateStatusPending, CostUpdateStatusInReview, UserRoleBuyer, true},
		{ActionReject, CostUpdateStatusPending, CostUpdateStatusRejected, UserRoleBuyer, true},
		{ActionApproveRevision, CostUpdateStatusInReview, CostUpdateStatusApproved, UserRoleReviewer, false},
		{ActionRejectRevision, CostUpdateStatusInReview, CostUpdateStatusRejected, UserRoleReviewer, true},
		{ActionFinishCoding, CostUpdateStatusApproved, CostUpdateStatusApplied, UserRoleCoder, false},
		{ActionRejectCoding, CostUpdateStatusApproved, CostUpdateStatusRejected, UserRoleCoder, true},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			rule, ok := RuleFor(tt.action)
			require.True(t, ok)
			assert.Equal(t, tt.from, rule.From)
			assert.Equal(t, tt.to, rule.To)
			assert.Equal(t, tt.role, rule.Role)
			assert.Equal(t, tt.requiresComment, rule.RequiresComment)
		})
	}
}

func TestRuleFor_UnknownAction(t *testing.T) {
	_, ok := RuleFor(TransitionAction("aprobar-todo"))
	assert.False(t, ok)

	_, ok = RuleFor(TransitionAction(""))
	assert.False(t, ok)
}

func TestRuleFor_RulesMatchTransitionGraph(t *testing.T) {
	// Every rule edge must also be admitted by CanTransitionTo
	for _, action := range []TransitionAction{
		ActionSubmitForApproval,
		ActionReject,
		ActionApproveRevision,
		ActionRejectRevision,
		ActionFinishCoding,
		ActionRejectCoding,
	} {
		rule, ok := RuleFor(action)
		require.True(t, ok)

		r := &CostUpdateRequest{Status: rule.From}
		assert.True(t, r.CanTransitionTo(rule.To), "rule %s edge %s->%s not admitted by graph", action, rule.From, rule.To)
	}
}

func TestGetStatusDisplayName(t *testing.T) {
	tests := []struct {
		status CostUpdateStatus
		want   string
	}{
		{CostUpdateStatusPending, "Pending"},
		{CostUpdateStatusInReview, "In Review"},
		{CostUpdateStatusApproved, "Approved"},
		{CostUpdateStatusApplied, "Applied"},
		{CostUpdateStatusRejected, "Rejected"},
		{CostUpdateStatus("archived"), "Unknown"},
	}

	for _, tt := range tests {
		r := &CostUpdateRequest{Status: tt.status}
		assert.Equal(t, tt.want, r.GetStatusDisplayName())
	}
}

func TestIsEditable(t *testing.T) {
	assert.True(t, (&CostUpdateRequest{Status: CostUpdateStatusPending}).IsEditable())
	assert.False(t, (&CostUpdateRequest{Status: CostUpdateStatusInReview}).IsEditable())
	assert.False(t, (&CostUpdateRequest{Status: CostUpdateStatusApplied}).IsEditable())
}

func TestUserRole_Valid(t *testing.T) {
	for _, r := range []UserRole{UserRoleBuyer, UserRoleReviewer, UserRoleCoder, UserRoleAdmin} {
		assert.True(t, r.Valid())
	}
	assert.False(t, UserRole("manager").Valid())
	assert.False(t, UserRole("").Valid())
}

func TestUser_CanAct(t *testing.T) {
	active := true
	inactive := false

	assert.True(t, (&User{IsActive: &active}).CanAct())
	assert.False(t, (&User{IsActive: &inactive}).CanAct())
	assert.False(t, (&User{IsActive: nil}).CanAct())
}
