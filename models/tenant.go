package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/utils"
)

type Tenant struct {
	ID                int       `gorm:"primary_key" json:"id"`
	OwnerId           string    `gorm:"index;not null" json:"owner_id"`
	Name              string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Mobile            string    `gorm:"size:20;not null" json:"mobile" binding:"required"`
	AlternateMobile   string    `gorm:"size:20" json:"alternate_mobile"`
	FamilyMemberCount int       `gorm:"default:0" json:"family_member_count"`
	Address           string    `gorm:"type:text" json:"address"`
	Company           string    `gorm:"size:100" json:"company"`
	ProfilePhotoUrl   string    `gorm:"size:500" json:"profile_photo_url"`
	AadhaarUrl        string    `gorm:"size:500" json:"aadhaar_url"`
	PanUrl            string    `gorm:"size:500" json:"pan_url"`
	AgreementUrl      string    `gorm:"size:500" json:"agreement_url"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTenant struct {
	Name              string `json:"name" binding:"required"`
	Mobile            string `json:"mobile" binding:"required"`
	AlternateMobile   string `json:"alternate_mobile"`
	FamilyMemberCount int    `json:"family_member_count"`
	Address           string `json:"address"`
	Company           string `json:"company"`
}

func (input *NewTenant) validate(ctx context.Context, ownerId string, id int) error {
	if err := utils.ValidatePhoneNumber(input.Mobile, utils.CountryCode); err != nil {
		return errors.New("invalid mobile number")
	}
	if len(strings.TrimSpace(input.AlternateMobile)) > 0 {
		if err := utils.ValidatePhoneNumber(input.AlternateMobile, utils.CountryCode); err != nil {
			return errors.New("invalid alternate mobile number")
		}
	}
	if input.FamilyMemberCount < 0 {
		return errors.New("family member count cannot be negative")
	}
	return nil
}

func CreateTenant(ctx context.Context, input *NewTenant) (*Tenant, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	if err := input.validate(ctx, ownerId, 0); err != nil {
		return nil, err
	}

	tenant := Tenant{
		OwnerId:           ownerId,
		Name:              input.Name,
		Mobile:            input.Mobile,
		AlternateMobile:   input.AlternateMobile,
		FamilyMemberCount: input.FamilyMemberCount,
		Address:           input.Address,
		Company:           input.Company,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func UpdateTenant(ctx context.Context, id int, input *NewTenant) (*Tenant, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	if err := input.validate(ctx, ownerId, id); err != nil {
		return nil, err
	}

	tenant, err := utils.FetchModel[Tenant](ctx, ownerId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&tenant).Updates(map[string]interface{}{
		"Name":              input.Name,
		"Mobile":            input.Mobile,
		"AlternateMobile":   input.AlternateMobile,
		"FamilyMemberCount": input.FamilyMemberCount,
		"Address":           input.Address,
		"Company":           input.Company,
	}).Error
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// DeleteTenant mirrors DeleteRoom: occupancies and bills keep their
// tenant_id for history.
func DeleteTenant(ctx context.Context, id int) (*Tenant, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	tenant, err := utils.FetchModel[Tenant](ctx, ownerId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&tenant).Error; err != nil {
		return nil, err
	}
	return tenant, nil
}

func GetTenant(ctx context.Context, id int) (*Tenant, error) {
	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}
	return utils.FetchModel[Tenant](ctx, ownerId, id)
}

func GetTenants(ctx context.Context) ([]*Tenant, error) {
	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	db := config.GetDB()
	var tenants []*Tenant
	if err := db.WithContext(ctx).Where("owner_id = ?", ownerId).Order("name ASC").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// TenantDocumentObjectKey is the fixed per-tenant storage path for a document
// slot. A replacement upload overwrites the previous object.
func TenantDocumentObjectKey(ownerId string, tenantId int, kind TenantDocumentKind, ext string) string {
	return fmt.Sprintf("%s/tenants/%d/%s%s", ownerId, tenantId, kind, ext)
}

func (t *Tenant) DocumentURL(kind TenantDocumentKind) string {
	switch kind {
	case TenantDocumentProfilePhoto:
		return t.ProfilePhotoUrl
	case TenantDocumentAadhaar:
		return t.AadhaarUrl
	case TenantDocumentPan:
		return t.PanUrl
	case TenantDocumentAgreement:
		return t.AgreementUrl
	}
	return ""
}

func documentColumn(kind TenantDocumentKind) string {
	switch kind {
	case TenantDocumentProfilePhoto:
		return "profile_photo_url"
	case TenantDocumentAadhaar:
		return "aadhaar_url"
	case TenantDocumentPan:
		return "pan_url"
	case TenantDocumentAgreement:
		return "agreement_url"
	}
	return ""
}

// SetTenantDocumentURL records the access URL for one document slot after the
// blob upload succeeded. The caller is responsible for deleting the uploaded
// object when this update fails, so no document URL ever points at nothing.
func SetTenantDocumentURL(ctx context.Context, tenantId int, kind TenantDocumentKind, accessURL string) (*Tenant, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	column := documentColumn(kind)
	if column == "" {
		return nil, errors.New("invalid document kind")
	}

	tenant, err := utils.FetchModel[Tenant](ctx, ownerId, tenantId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&tenant).Update(column, accessURL).Error; err != nil {
		return nil, err
	}
	return tenant, nil
}
