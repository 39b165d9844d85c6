package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// MustValid checks the settings the server cannot start without.
func (c Config) MustValid() {
	MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	MustNonEmptyBytes(c.JWTAccessSecret, "JWT_SECRET")
	MustNonEmptyBytes(c.PaymentWebhookSecret, "PAYMENT_WEBHOOK_SECRET")
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		log.Fatalf("unsupported DB_DRIVER %q", c.DBDriver)
	}
}
