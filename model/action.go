package model

import (
	"fmt"
	"strings"
)

// ActionKind identifies a button action. The set is closed: any custom ID
// whose kind is not listed here fails to parse.
type ActionKind string

const (
	ActionConfirmBan   ActionKind = "gban_confirm"
	ActionCancelBan    ActionKind = "gban_cancel"
	ActionConfirmUnban ActionKind = "gunban_confirm"
	ActionCancelUnban  ActionKind = "gunban_cancel"
	ActionApproveBan   ActionKind = "gban_approve"
	ActionRevokeBan    ActionKind = "gban_revoke"

	ActionApproveRoleRequest ActionKind = "rolereq_approve"
	ActionDenyRoleRequest    ActionKind = "rolereq_deny"

	ActionApproveAlt ActionKind = "alt_approve"
	ActionDenyAlt    ActionKind = "alt_deny"

	ActionVerify ActionKind = "verify"

	// Terminal states left on processed messages. Clicking one only yields
	// an "already processed" reply.
	ActionBanApproved ActionKind = "gban_approved"
	ActionBanRevoked  ActionKind = "gban_revoked"
	ActionAltDone     ActionKind = "alt_done"
	ActionRoleReqDone ActionKind = "rolereq_done"
)

var knownActionKinds = map[ActionKind]bool{
	ActionConfirmBan:         true,
	ActionCancelBan:          true,
	ActionConfirmUnban:       true,
	ActionCancelUnban:        true,
	ActionApproveBan:         true,
	ActionRevokeBan:          true,
	ActionApproveRoleRequest: true,
	ActionDenyRoleRequest:    true,
	ActionApproveAlt:         true,
	ActionDenyAlt:            true,
	ActionVerify:             true,
	ActionBanApproved:        true,
	ActionBanRevoked:         true,
	ActionAltDone:            true,
	ActionRoleReqDone:        true,
}

// Action is a parsed component custom ID: a kind plus up to two entity IDs.
// Role requests carry (RoleID, UserID); everything else carries one ID.
type Action struct {
	Kind   ActionKind
	ID     string
	RoleID string
}

// CustomID serializes the action deterministically. The separator is ':' so
// entity IDs (snowflakes) can never collide with the kind tag.
func (a Action) CustomID() string {
	parts := []string{string(a.Kind)}
	if a.RoleID != "" {
		parts = append(parts, a.RoleID)
	}
	if a.ID != "" {
		parts = append(parts, a.ID)
	}
	return strings.Join(parts, ":")
}

// ParseAction decodes a component custom ID. Unknown kinds are an error so
// the dispatcher can ignore foreign components.
func ParseAction(customID string) (Action, error) {
	parts := strings.Split(customID, ":")
	kind := ActionKind(parts[0])
	if !knownActionKinds[kind] {
		return Action{}, fmt.Errorf("unknown action kind %q", parts[0])
	}

	a := Action{Kind: kind}
	switch kind {
	case ActionApproveRoleRequest, ActionDenyRoleRequest:
		if len(parts) != 3 {
			return Action{}, fmt.Errorf("action %q wants role and user IDs, got %d parts", kind, len(parts))
		}
		a.RoleID = parts[1]
		a.ID = parts[2]
	case ActionVerify:
		if len(parts) != 1 {
			return Action{}, fmt.Errorf("action %q carries no payload", kind)
		}
	default:
		if len(parts) != 2 {
			return Action{}, fmt.Errorf("action %q wants one ID, got %d parts", kind, len(parts))
		}
		a.ID = parts[1]
	}
	return a, nil
}
