package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Addr is the simulated store's listen address.
	Addr string
	// APIBaseURL is where the client finds the remote store.
	APIBaseURL string
	// ShippingFee is the flat fee added to every order.
	ShippingFee float64
	// JWTSecret signs simulated-store session tokens.
	JWTSecret string
	// DataDir holds the client's persisted cart and session id.
	DataDir string
	// DatabaseURL switches the simulated store to Postgres when set.
	DatabaseURL string
	// DemoMode enables the view-switching affordance in the client.
	DemoMode bool
}

func Load() Config {
	return Config{
		Addr:        getenv("AGROMART_ADDR", ":8080"),
		APIBaseURL:  getenv("AGROMART_API_URL", "http://localhost:8080"),
		ShippingFee: getfloat("AGROMART_SHIPPING_FEE", 5.00),
		JWTSecret:   getenv("AGROMART_JWT_SECRET", "agromart-dev-secret"),
		DataDir:     getenv("AGROMART_DATA_DIR", "./data"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DemoMode:    os.Getenv("AGROMART_DEMO") == "1",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getfloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
