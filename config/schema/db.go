package schema

type IpRateWhitelist struct {
	OriginOrIP  string // e.g "188.0.2.2"
	Available   bool   `gorm:"index:idx3"` // true means effective
	Description string
}

type Param struct {
	// per origin+ip request budget for the api; 0 disables the limiter
	RateLimitPerMinute int
}
