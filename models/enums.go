package models

import "errors"

type BillStatus string

const (
	BillStatusUnpaid  BillStatus = "UNPAID"
	BillStatusPartial BillStatus = "PARTIAL"
	BillStatusPaid    BillStatus = "PAID"
)

type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "CASH"
	PaymentMethodUpi   PaymentMethod = "UPI"
	PaymentMethodBank  PaymentMethod = "BANK"
	PaymentMethodCard  PaymentMethod = "CARD"
	PaymentMethodOther PaymentMethod = "OTHER"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodCash, PaymentMethodUpi, PaymentMethodBank, PaymentMethodCard, PaymentMethodOther:
		return PaymentMethod(s), nil
	}
	return "", errors.New("invalid payment method")
}

// TenantDocumentKind names the four fixed document slots on a tenant.
type TenantDocumentKind string

const (
	TenantDocumentProfilePhoto TenantDocumentKind = "profile_photo"
	TenantDocumentAadhaar      TenantDocumentKind = "aadhaar"
	TenantDocumentPan          TenantDocumentKind = "pan"
	TenantDocumentAgreement    TenantDocumentKind = "agreement"
)

func ParseTenantDocumentKind(s string) (TenantDocumentKind, error) {
	switch TenantDocumentKind(s) {
	case TenantDocumentProfilePhoto, TenantDocumentAadhaar, TenantDocumentPan, TenantDocumentAgreement:
		return TenantDocumentKind(s), nil
	}
	return "", errors.New("invalid document kind")
}

type OutboxPublishStatus string

const (
	OutboxPublishStatusPending    OutboxPublishStatus = "Pending"
	OutboxPublishStatusProcessing OutboxPublishStatus = "Processing"
	OutboxPublishStatusSent       OutboxPublishStatus = "Sent"
	OutboxPublishStatusFailed     OutboxPublishStatus = "Failed"
	OutboxPublishStatusDead       OutboxPublishStatus = "Dead"
)

type BillingReferenceType string

const (
	BillingReferenceTypeBill        BillingReferenceType = "Bill"
	BillingReferenceTypeBillPayment BillingReferenceType = "BillPayment"
	BillingReferenceTypeOccupancy   BillingReferenceType = "Occupancy"
)

type BillingEventAction string

const (
	BillingEventActionCreate BillingEventAction = "Create"
	BillingEventActionUpdate BillingEventAction = "Update"
	BillingEventActionDelete BillingEventAction = "Delete"
)
