package model

import "time"

// ================ Config ================
type VendorConfig struct {
	BaseURL string        `envconfig:"SODEXO_BASE_URL" default:"https://api-prd.sodexomyway.net/v0.2/data/menu"`
	APIKey  string        `envconfig:"SODEXO_API_KEY" default:"68717828-b754-420d-9488-4c37cb7d7ef7"`
	Referer string        `envconfig:"SODEXO_REFERER" default:"https://rpi.sodexomyway.com/"`
	Timeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`
}

type RefreshConfig struct {
	Concurrency int    `envconfig:"REFRESH_CONCURRENCY" default:"4"`
	Timezone    string `envconfig:"MENU_TIMEZONE"`
	WarmOnStart bool   `envconfig:"WARM_ON_START" default:"true"`
}

type TokenConfig struct {
	TTL time.Duration `envconfig:"TOKEN_TTL" default:"15m"`
}

type HTTPConfig struct {
	Addr string `envconfig:"HTTP_ADDR" default:":8080"`
}
