package models

import "time"

// AdminCredential is what the admin session persists in client storage.
// ExpiresAt is the source of truth for validity; the in-memory timer only
// removes the record early.
type AdminCredential struct {
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ValidAt reports whether the credential may be used at now.
func (c *AdminCredential) ValidAt(now time.Time) bool {
	return c != nil && c.Token != "" && now.Before(c.ExpiresAt)
}

type AdminStats struct {
	TotalOrders   int            `json:"totalOrders"`
	TotalSales    float64        `json:"totalSales"`
	TrendingBooks int            `json:"trendingBooks"`
	TotalBooks    int            `json:"totalBooks"`
	MonthlySales  []MonthlySales `json:"monthlySales"`
}

type MonthlySales struct {
	Month       string  `json:"_id"`
	TotalSales  float64 `json:"totalSales"`
	TotalOrders int     `json:"totalOrders"`
}
