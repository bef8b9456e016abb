package models

import "time"

// Subscription representa a assinatura no provedor de cobrança.
// Nunca é apagada: o cancelamento só desliga Active.
type Subscription struct {
	ID                    int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserMembershipID      int64      `gorm:"not null;unique_index" json:"user_membership_id"`
	BillingSubscriptionID string     `gorm:"column:billing_subscription_id;not null;default:''" json:"billing_subscription_id"`
	Active                bool       `gorm:"not null" json:"active"`
	CreatedAt             *time.Time `json:"created_at"`
	UpdatedAt             *time.Time `json:"updated_at"`
}
