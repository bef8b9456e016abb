package models

import (
	"strings"
	"time"
)

// UserMembership representa o vínculo "1 usuário -> 1 tier".
// Regra: user_id é único. MembershipID nulo significa "nenhum tier escolhido".
type UserMembership struct {
	ID                int64       `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID            int64       `gorm:"not null;unique_index" json:"user_id"`
	BillingCustomerID string      `gorm:"column:billing_customer_id;not null;default:''" json:"billing_customer_id"`
	MembershipID      *int64      `gorm:"index" json:"membership_id"`
	Membership        *Membership `gorm:"-" json:"membership,omitempty"`
	CreatedAt         *time.Time  `json:"created_at"`
	UpdatedAt         *time.Time  `json:"updated_at"`
}

func (um UserMembership) HasCustomer() bool {
	return strings.TrimSpace(um.BillingCustomerID) != ""
}

func (um UserMembership) HasTier() bool {
	return um.MembershipID != nil && *um.MembershipID > 0
}

// TierName is what the select page shows as the current membership.
func (um UserMembership) TierName() string {
	if um.Membership == nil {
		return "None"
	}
	return um.Membership.String()
}
