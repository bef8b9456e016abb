package models

import (
	"fmt"
	"strings"
	"time"
)

/************************************************
/**** MARK: MEMBERSHIP TYPES ****/
/************************************************/
const MEMBERSHIP_TYPE_FREE = "free"
const MEMBERSHIP_TYPE_PROFESSIONAL = "professional"
const MEMBERSHIP_TYPE_ENTERPRISE = "enterprise"

// Membership representa um nível de assinatura (tier) que libera cursos.
// É dado de referência: criado pelo seed e mantido pelos admins.
type Membership struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Slug          string     `gorm:"not null;unique" json:"slug" form:"slug"`
	Type          string     `gorm:"column:membership_type;not null;unique_index" json:"membership_type" form:"membership_type"`
	Name          string     `gorm:"not null" json:"name" form:"name"`
	Description   string     `gorm:"type:text" json:"description" form:"description"`
	PriceCents    int64      `gorm:"not null;default:0" json:"price_cents" form:"price_cents"`
	Currency      string     `gorm:"not null;default:'USD'" json:"currency" form:"currency"`
	BillingPlanID string     `gorm:"column:billing_plan_id" json:"billing_plan_id" form:"billing_plan_id"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

func (m Membership) IsFree() bool {
	return m.Type == MEMBERSHIP_TYPE_FREE
}

func (m Membership) String() string {
	if m.Name != "" {
		return m.Name
	}
	return m.Type
}

// PriceLabel formats the price for templates, e.g. "15.00 USD".
func (m Membership) PriceLabel() string {
	if m.PriceCents == 0 {
		return "Free"
	}
	return strings.TrimSpace(fmt.Sprintf("%d.%02d %s", m.PriceCents/100, m.PriceCents%100, m.Currency))
}

func IsMembershipType(t string) bool {
	switch t {
	case MEMBERSHIP_TYPE_FREE, MEMBERSHIP_TYPE_PROFESSIONAL, MEMBERSHIP_TYPE_ENTERPRISE:
		return true
	}
	return false
}

// DefaultMemberships são os três tiers criados pelo seed.
func DefaultMemberships() []Membership {
	return []Membership{
		{Slug: "free", Type: MEMBERSHIP_TYPE_FREE, Name: "Free", Description: "Free preview lessons only.", PriceCents: 0, Currency: "USD"},
		{Slug: "professional", Type: MEMBERSHIP_TYPE_PROFESSIONAL, Name: "Professional", Description: "Every professional course.", PriceCents: 1500, Currency: "USD"},
		{Slug: "enterprise", Type: MEMBERSHIP_TYPE_ENTERPRISE, Name: "Enterprise", Description: "Every course, for teams.", PriceCents: 4000, Currency: "USD"},
	}
}
