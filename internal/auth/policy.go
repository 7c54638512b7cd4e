package auth

import (
	"go.uber.org/zap"

	"github.com/spec-kit/appointment-service/internal/domain"
)

// Action names a protected operation.
type Action string

const (
	ActionViewAdminDashboard  Action = "view_admin_dashboard"
	ActionListUsers           Action = "list_users"
	ActionCreateUser          Action = "create_user"
	ActionUpdateUser          Action = "update_user"
	ActionDeleteUser          Action = "delete_user"
	ActionBlockUser           Action = "block_user"
	ActionUnblockUser         Action = "unblock_user"
	ActionChangeRole          Action = "change_role"
	ActionPromoteToProprietor Action = "promote_to_proprietor"
	ActionCreateSpecialist    Action = "create_specialist"
	ActionRecordPayment       Action = "record_payment"
	ActionRecordTransaction   Action = "record_transaction"
	ActionSendSecurityAlert   Action = "send_security_alert"
	ActionCreateEvent         Action = "create_event"
	ActionDeleteAppointment   Action = "delete_appointment"

	ActionViewProprietorDashboard Action = "view_proprietor_dashboard"

	ActionCreateService Action = "create_service"

	ActionEditClient    Action = "edit_client"
	ActionDeleteClient  Action = "delete_client"
	ActionEditService   Action = "edit_service"
	ActionDeleteService Action = "delete_service"

	ActionViewUserDashboard Action = "view_user_dashboard"
	ActionCreateClient      Action = "create_client"
	ActionCreateAppointment Action = "create_appointment"
	ActionRegisterForEvent  Action = "register_for_event"
	ActionSendMessage       Action = "send_message"
	ActionViewNotifications Action = "view_notifications"
	ActionViewProfile       Action = "view_profile"
	ActionUpdateProfile     Action = "update_profile"
	ActionListClients       Action = "list_clients"
	ActionListAppointments  Action = "list_appointments"
	ActionViewCatalog       Action = "view_catalog"
	ActionAddComment        Action = "add_comment"
	ActionViewFeedback      Action = "view_feedback"
)

// Decision reasons.
const (
	ReasonNotAuthenticated       = "not_authenticated"
	ReasonUnknownAction          = "unknown_action"
	ReasonInsufficientCapability = "insufficient_capability"
	ReasonNotOwner               = "not_owner"
	ReasonAdmin                  = "admin"
	ReasonProprietor             = "proprietor"
	ReasonServiceCreator         = "service_creator"
	ReasonOwner                  = "owner"
	ReasonAuthenticated          = "authenticated"
)

type capability int

const (
	capabilityAuthenticated capability = iota + 1
	capabilityAdmin
	capabilityProprietor
	capabilityServiceCreator
	capabilityOwnership
)

var actionCapabilities = map[Action]capability{
	ActionViewAdminDashboard:  capabilityAdmin,
	ActionListUsers:           capabilityAdmin,
	ActionCreateUser:          capabilityAdmin,
	ActionUpdateUser:          capabilityAdmin,
	ActionDeleteUser:          capabilityAdmin,
	ActionBlockUser:           capabilityAdmin,
	ActionUnblockUser:         capabilityAdmin,
	ActionChangeRole:          capabilityAdmin,
	ActionPromoteToProprietor: capabilityAdmin,
	ActionCreateSpecialist:    capabilityAdmin,
	ActionRecordPayment:       capabilityAdmin,
	ActionRecordTransaction:   capabilityAdmin,
	ActionSendSecurityAlert:   capabilityAdmin,
	ActionCreateEvent:         capabilityAdmin,
	ActionDeleteAppointment:   capabilityAdmin,

	ActionViewProprietorDashboard: capabilityProprietor,

	ActionCreateService: capabilityServiceCreator,

	ActionEditClient:    capabilityOwnership,
	ActionDeleteClient:  capabilityOwnership,
	ActionEditService:   capabilityOwnership,
	ActionDeleteService: capabilityOwnership,

	ActionViewUserDashboard: capabilityAuthenticated,
	ActionCreateClient:      capabilityAuthenticated,
	ActionCreateAppointment: capabilityAuthenticated,
	ActionRegisterForEvent:  capabilityAuthenticated,
	ActionSendMessage:       capabilityAuthenticated,
	ActionViewNotifications: capabilityAuthenticated,
	ActionViewProfile:       capabilityAuthenticated,
	ActionUpdateProfile:     capabilityAuthenticated,
	ActionListClients:       capabilityAuthenticated,
	ActionListAppointments:  capabilityAuthenticated,
	ActionViewCatalog:       capabilityAuthenticated,
	ActionAddComment:        capabilityAuthenticated,
	ActionViewFeedback:      capabilityAuthenticated,
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// IsOwnershipScoped reports whether action must be checked with AuthorizeOwned.
func IsOwnershipScoped(action Action) bool {
	return actionCapabilities[action] == capabilityOwnership
}

// Authorize evaluates the coarse capability required by action. Unknown
// actions are denied. For ownership-scoped actions this only checks that the
// caller is signed in; use AuthorizeOwned once the record is loaded.
func Authorize(idc IdentityContext, action Action) Decision {
	if !idc.Authenticated {
		return deny(ReasonNotAuthenticated)
	}
	required, ok := actionCapabilities[action]
	if !ok {
		return deny(ReasonUnknownAction)
	}

	switch required {
	case capabilityAdmin:
		if idc.IsAdmin() {
			return allow(ReasonAdmin)
		}
	case capabilityProprietor:
		if idc.HasRole(domain.RoleProprietor) || idc.Identity.IsSuperuser {
			return allow(ReasonProprietor)
		}
	case capabilityServiceCreator:
		if idc.HasRole(domain.RoleProprietor) || idc.Identity.IsStaff {
			return allow(ReasonServiceCreator)
		}
	case capabilityAuthenticated, capabilityOwnership:
		return allow(ReasonAuthenticated)
	}
	return deny(ReasonInsufficientCapability)
}

// AuthorizeOwned runs the coarse check and then requires the caller to be one
// of ownerIDs or to hold the admin capability.
func AuthorizeOwned(idc IdentityContext, action Action, ownerIDs ...string) Decision {
	coarse := Authorize(idc, action)
	if !coarse.Allowed {
		return coarse
	}
	if !IsOwnershipScoped(action) {
		return coarse
	}
	actor := idc.ID()
	for _, owner := range ownerIDs {
		if owner != "" && owner == actor {
			return allow(ReasonOwner)
		}
	}
	if idc.IsAdmin() {
		return allow(ReasonAdmin)
	}
	return deny(ReasonNotOwner)
}

// DecisionRecorder receives every decision for telemetry.
type DecisionRecorder interface {
	RecordAuthorization(action string, allowed bool, reason string)
}

// Policy wraps the decision functions with logging and metrics.
type Policy struct {
	logger   *zap.Logger
	recorder DecisionRecorder
}

// NewPolicy builds a policy. Both collaborators are optional.
func NewPolicy(logger *zap.Logger, recorder DecisionRecorder) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{logger: logger, recorder: recorder}
}

// Authorize checks the coarse capability for action.
func (p *Policy) Authorize(idc IdentityContext, action Action) Decision {
	return p.observe(idc, action, Authorize(idc, action))
}

// AuthorizeOwned checks capability and ownership for action.
func (p *Policy) AuthorizeOwned(idc IdentityContext, action Action, ownerIDs ...string) Decision {
	return p.observe(idc, action, AuthorizeOwned(idc, action, ownerIDs...))
}

func (p *Policy) observe(idc IdentityContext, action Action, decision Decision) Decision {
	if p == nil {
		return decision
	}
	if p.recorder != nil {
		p.recorder.RecordAuthorization(string(action), decision.Allowed, decision.Reason)
	}
	if !decision.Allowed {
		p.logger.Debug("authorization denied",
			zap.String("action", string(action)),
			zap.String("identity_id", idc.ID()),
			zap.String("reason", decision.Reason))
	}
	return decision
}
