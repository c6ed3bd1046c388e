package billing

import (
	"strings"

	"github.com/leadbill/backend/internal/domain/shared"
)

// LeadType is the source a lead originated from
type LeadType string

const (
	LeadTypeWebsiteVisit  LeadType = "Website Visit"
	LeadTypeSocialMedia   LeadType = "Social Media"
	LeadTypeEmailCampaign LeadType = "Email Campaign"
	LeadTypeReferral      LeadType = "Referral"
	LeadTypeEvent         LeadType = "Event"
	LeadTypeWebinar       LeadType = "Webinar"
	LeadTypeDemoRequest   LeadType = "Demo Request"
	LeadTypeTradeShow     LeadType = "Trade Show"
	LeadTypeConference    LeadType = "Conference"
	LeadTypeNewsletter    LeadType = "Newsletter"
	LeadTypeFeedback      LeadType = "Feedback"
)

// AllLeadTypes returns every lead type in catalog order
func AllLeadTypes() []LeadType {
	return []LeadType{
		LeadTypeWebsiteVisit,
		LeadTypeSocialMedia,
		LeadTypeEmailCampaign,
		LeadTypeReferral,
		LeadTypeEvent,
		LeadTypeWebinar,
		LeadTypeDemoRequest,
		LeadTypeTradeShow,
		LeadTypeConference,
		LeadTypeNewsletter,
		LeadTypeFeedback,
	}
}

// String returns the string representation of LeadType
func (l LeadType) String() string {
	return string(l)
}

// IsValid returns true if the lead type is part of the catalog
func (l LeadType) IsValid() bool {
	for _, lt := range AllLeadTypes() {
		if lt == l {
			return true
		}
	}
	return false
}

// ParseLeadType converts a string to LeadType. Matching is case-insensitive.
func ParseLeadType(s string) (LeadType, error) {
	for _, lt := range AllLeadTypes() {
		if strings.EqualFold(string(lt), strings.TrimSpace(s)) {
			return lt, nil
		}
	}
	return "", shared.NewDomainError("INVALID_LEAD_TYPE", "Invalid lead type: "+s)
}

// ActionType is the kind of event recorded against a lead
type ActionType string

const (
	ActionTypeVisit       ActionType = "Visit"
	ActionTypeDownload    ActionType = "Download"
	ActionTypeFormSubmit  ActionType = "Form Submit"
	ActionTypePurchase    ActionType = "Purchase"
	ActionTypeLike        ActionType = "Like"
	ActionTypeFollow      ActionType = "Follow"
	ActionTypeShare       ActionType = "Share"
	ActionTypeComment     ActionType = "Comment"
	ActionTypeRepost      ActionType = "Repost"
	ActionTypeOpen        ActionType = "Open"
	ActionTypeClick       ActionType = "Click"
	ActionTypeUnsubscribe ActionType = "Unsubscribe"
	ActionTypeSignup      ActionType = "Signup"
	ActionTypeRegister    ActionType = "Register"
	ActionTypeAttend      ActionType = "Attend"
	ActionTypeFollowUp    ActionType = "Follow-up"
	ActionTypeAttendance  ActionType = "Attendance"
	ActionTypeSubmission  ActionType = "Submission"
)

// AllActionTypes returns every action type in catalog order
func AllActionTypes() []ActionType {
	return []ActionType{
		ActionTypeVisit,
		ActionTypeDownload,
		ActionTypeFormSubmit,
		ActionTypePurchase,
		ActionTypeLike,
		ActionTypeFollow,
		ActionTypeShare,
		ActionTypeComment,
		ActionTypeRepost,
		ActionTypeOpen,
		ActionTypeClick,
		ActionTypeUnsubscribe,
		ActionTypeSignup,
		ActionTypeRegister,
		ActionTypeAttend,
		ActionTypeFollowUp,
		ActionTypeAttendance,
		ActionTypeSubmission,
	}
}

// String returns the string representation of ActionType
func (a ActionType) String() string {
	return string(a)
}

// IsValid returns true if the action type is part of the catalog
func (a ActionType) IsValid() bool {
	for _, at := range AllActionTypes() {
		if at == a {
			return true
		}
	}
	return false
}

// ParseActionType converts a string to ActionType. Matching is case-insensitive.
func ParseActionType(s string) (ActionType, error) {
	for _, at := range AllActionTypes() {
		if strings.EqualFold(string(at), strings.TrimSpace(s)) {
			return at, nil
		}
	}
	return "", shared.NewDomainError("INVALID_ACTION_TYPE", "Invalid action type: "+s)
}

// EngagementLevel is the qualitative intensity of an action
type EngagementLevel string

const (
	EngagementLow    EngagementLevel = "Low"
	EngagementMedium EngagementLevel = "Medium"
	EngagementHigh   EngagementLevel = "High"
)

// AllEngagementLevels returns the engagement levels from lowest to highest
func AllEngagementLevels() []EngagementLevel {
	return []EngagementLevel{EngagementLow, EngagementMedium, EngagementHigh}
}

// String returns the string representation of EngagementLevel
func (e EngagementLevel) String() string {
	return string(e)
}

// IsValid returns true if the engagement level is known
func (e EngagementLevel) IsValid() bool {
	switch e {
	case EngagementLow, EngagementMedium, EngagementHigh:
		return true
	}
	return false
}

// ParseEngagementLevel converts a string to EngagementLevel. Matching is case-insensitive.
func ParseEngagementLevel(s string) (EngagementLevel, error) {
	for _, el := range AllEngagementLevels() {
		if strings.EqualFold(string(el), strings.TrimSpace(s)) {
			return el, nil
		}
	}
	return "", shared.NewDomainError("INVALID_ENGAGEMENT_LEVEL", "Invalid engagement level: "+s)
}

// BillingStatus records whether an action was charged on a report
type BillingStatus string

const (
	// BillingStatusPending is the status of an action no report has classified yet
	BillingStatusPending            BillingStatus = ""
	BillingStatusBilled             BillingStatus = "Billed"
	BillingStatusNotBilledDuplicate BillingStatus = "Not Billed (Duplicate)"
)

// String returns the string representation of BillingStatus
func (s BillingStatus) String() string {
	return string(s)
}

// IsValid returns true for the two classified statuses
func (s BillingStatus) IsValid() bool {
	return s == BillingStatusBilled || s == BillingStatusNotBilledDuplicate
}

// ParseBillingStatus converts a stored string to BillingStatus; empty means pending
func ParseBillingStatus(s string) (BillingStatus, error) {
	switch BillingStatus(s) {
	case BillingStatusPending, BillingStatusBilled, BillingStatusNotBilledDuplicate:
		return BillingStatus(s), nil
	}
	return "", shared.NewDomainError("INVALID_BILLING_STATUS", "Invalid billing status: "+s)
}
