package models

import "time"

// Audit actions recorded by the entitlement flows.
const (
	AuditActionSignUp            = "USER_SIGNUP"
	AuditActionVerifyEntitlement = "ENTITLEMENT_VERIFY"
	AuditActionCheckoutStarted   = "CHECKOUT_STARTED"
	AuditActionPaymentFinalize   = "PAYMENT_FINALIZE"
)

// AuditLog represents one audit trail event. Payment finalization writes one
// entry per saga step, so a half-upgraded user can be diagnosed from the
// trail alone.
type AuditLog struct {
	ID        string                 `json:"id" firestore:"-"`
	Timestamp time.Time              `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	UserID    string                 `json:"userId" firestore:"userId"`
	Action    string                 `json:"action" firestore:"action"`
	Step      string                 `json:"step,omitempty" firestore:"step,omitempty"`     // saga step name, when applicable
	Outcome   string                 `json:"outcome" firestore:"outcome"`                   // "ok" or "error"
	Details   map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
}
