package domain

// Role represents user role in the system
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// ValidRole reports whether r is one of the known roles
func ValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// Account defaults applied at registration
const (
	DefaultCreditScore = 500.0
	DefaultPoints      = 0
)

// ============================================================
// Task verification
// ============================================================

// VerificationStatus is the authenticity state of a task
type VerificationStatus string

const (
	VerificationPending      VerificationStatus = "pending"
	VerificationVerified     VerificationStatus = "verified"
	VerificationReviewNeeded VerificationStatus = "review_needed"
	VerificationRejected     VerificationStatus = "rejected"
)

// VerifiedThreshold is the authenticity score a task must exceed to be verified.
const VerifiedThreshold = 0.7

// PerfectScoreThreshold is the minimum ai_score counted as a perfect task.
const PerfectScoreThreshold = 0.9

var verificationTransitions = map[VerificationStatus][]VerificationStatus{
	VerificationPending:      {VerificationVerified, VerificationReviewNeeded},
	VerificationVerified:     {VerificationVerified, VerificationReviewNeeded},
	VerificationReviewNeeded: {VerificationVerified, VerificationReviewNeeded, VerificationRejected},
	VerificationRejected:     {},
}

// CanTransitionTo reports whether a task may move from s to next.
// Re-verification keeps verified and review_needed reachable from each other;
// rejected is terminal.
func (s VerificationStatus) CanTransitionTo(next VerificationStatus) bool {
	for _, allowed := range verificationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// VerificationFromScore maps an authenticity score to the resulting status
func VerificationFromScore(score float64) VerificationStatus {
	if score > VerifiedThreshold {
		return VerificationVerified
	}
	return VerificationReviewNeeded
}

// TaskPaymentStatus mirrors settlement on the task side
type TaskPaymentStatus string

const (
	TaskUnpaid   TaskPaymentStatus = "unpaid"
	TaskPaid     TaskPaymentStatus = "paid"
	TaskRefunded TaskPaymentStatus = "refunded"
)

// DefaultTaskAmount is used when a submission carries no amount
const DefaultTaskAmount = 50.0

// DefaultTaskCategory is used when a submission carries no category
const DefaultTaskCategory = "general"

// ============================================================
// Payments
// ============================================================

// PaymentStatus is the settlement state of a payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {PaymentRefunded},
	PaymentFailed:    {},
	PaymentRefunded:  {},
}

// CanTransitionTo reports whether a payment may move from s to next.
// Nothing ever re-enters pending.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethod is the payout rail of a payment
type PaymentMethod string

const (
	MethodBKash  PaymentMethod = "bKash"
	MethodNagad  PaymentMethod = "Nagad"
	MethodCard   PaymentMethod = "card"
	MethodCrypto PaymentMethod = "crypto"
)

// DefaultPaymentMethod is assigned at submission when none is given
const DefaultPaymentMethod = MethodBKash

// ValidPaymentMethod reports whether m is a supported method
func ValidPaymentMethod(m string) bool {
	switch PaymentMethod(m) {
	case MethodBKash, MethodNagad, MethodCard, MethodCrypto:
		return true
	}
	return false
}

// ============================================================
// Logs and insights
// ============================================================

// Fraud log event types
const (
	EventFraudScan        = "fraud_scan"
	EventTaskVerification = "task_verification"
)

// InsightType classifies a stored scoring result
type InsightType string

const (
	InsightPrediction InsightType = "prediction"
	InsightAnomaly    InsightType = "anomaly"
	InsightSentiment  InsightType = "sentiment"
)

// ReportType classifies generated reports
type ReportType string

const (
	ReportPerformance ReportType = "performance"
	ReportCompliance  ReportType = "compliance"
	ReportROI         ReportType = "roi"
)

// ValidReportType reports whether t is a supported report type
func ValidReportType(t string) bool {
	switch ReportType(t) {
	case ReportPerformance, ReportCompliance, ReportROI:
		return true
	}
	return false
}

// Audit actions written by the services
const (
	AuditTaskReject    = "TASK_REJECT"
	AuditPaymentFail   = "PAYMENT_FAIL"
	AuditPaymentRefund = "PAYMENT_REFUND"
	AuditRoleAssign    = "ROLE_ASSIGN"
	AuditTwoFactorOn   = "TWO_FACTOR_ENABLE"
)
