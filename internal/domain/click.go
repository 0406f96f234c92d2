package domain

import "time"

type Click struct {
	ID          int64     `json:"id"`
	LinkID      int64     `json:"link_id"`
	UserID      *int64    `json:"user_id,omitempty"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	Referer     string    `json:"referer,omitempty"`
	Country     string    `json:"country"`
	City        string    `json:"city"`
	Browser     string    `json:"browser"`
	BrowserVer  string    `json:"browser_version,omitempty"`
	OS          string    `json:"os"`
	OSVer       string    `json:"os_version,omitempty"`
	DeviceType  string    `json:"device_type"`
	DeviceBrand string    `json:"device_brand,omitempty"`
	DeviceModel string    `json:"device_model,omitempty"`
	ClickedAt   time.Time `json:"clicked_at"`
}

// ClickRequest is the raw request context captured on the redirect path
// before any enrichment happens.
type ClickRequest struct {
	UserID        *int64
	RemoteAddr    string
	XForwardedFor string
	XRealIP       string
	CFConnecting  string
	UserAgent     string
	Referer       string
}
