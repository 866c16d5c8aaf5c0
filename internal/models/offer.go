package models

import "time"

// OfferKey is the placement slot of a sidebar offer
type OfferKey string

const (
	OfferKeyGeneric   OfferKey = "sidebar_generic"
	OfferKeyVIPGroup  OfferKey = "vip_group"
	OfferKeyCrossSell OfferKey = "cross_sell"
)

// SidebarOffer is a promotional card shown next to course content.
// At most one offer holds OfferKeyCrossSell at a time.
type SidebarOffer struct {
	ID               int       `json:"id"`
	Key              OfferKey  `json:"key"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ButtonText       string    `json:"buttonText"`
	ButtonURL        string    `json:"buttonUrl"`
	BadgeText        string    `json:"badgeText"`
	PriceOriginal    float64   `json:"priceOriginal"`
	PricePromotional float64   `json:"pricePromotional"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
}

// OfferRequest creates or replaces an offer. Missing prices default to zero.
type OfferRequest struct {
	Key              OfferKey `json:"key" validate:"required,oneof=sidebar_generic vip_group cross_sell"`
	Title            string   `json:"title" validate:"required,notblank,max=255"`
	Description      string   `json:"description"`
	ButtonText       string   `json:"buttonText" validate:"required,notblank,max=100"`
	ButtonURL        string   `json:"buttonUrl" validate:"required,url"`
	BadgeText        string   `json:"badgeText" validate:"max=50"`
	PriceOriginal    *float64 `json:"priceOriginal" validate:"omitempty,gte=0"`
	PricePromotional *float64 `json:"pricePromotional" validate:"omitempty,gte=0"`
	IsActive         bool     `json:"isActive"`
}

// OfferStats summarizes the offer list
type OfferStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	VIPGroup  int `json:"vipGroup"`
	CrossSell int `json:"crossSell"`
}
