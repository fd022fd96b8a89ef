package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first if present; real environment
// variables win over it (godotenv.Load never overrides existing values).
//
// Recognized variables:
//
//	HTTP_ADDR, DATABASE_DSN, JWT_SECRET, TRIGGER_TOKEN,
//	SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, MAIL_FROM,
//	MAIL_TIMEOUT (Go duration), DISCLOSURE_THRESHOLD_DAYS,
//	REMINDER_THRESHOLD_DAYS, COOLDOWN_DAYS
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.JWTSecret, "JWT_SECRET")
	setString(&config.TriggerToken, "TRIGGER_TOKEN")
	setString(&config.SMTPHost, "SMTP_HOST")
	setInt(&config.SMTPPort, "SMTP_PORT")
	setString(&config.SMTPUsername, "SMTP_USERNAME")
	setString(&config.SMTPPassword, "SMTP_PASSWORD")
	setString(&config.MailFrom, "MAIL_FROM")
	setDuration(&config.MailTimeout, "MAIL_TIMEOUT")
	setInt(&config.DisclosureThresholdDays, "DISCLOSURE_THRESHOLD_DAYS")
	setInt(&config.ReminderThresholdDays, "REMINDER_THRESHOLD_DAYS")
	setInt(&config.CooldownDays, "COOLDOWN_DAYS")
}

func setString(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok {
		*dst = v
	}
}

func setInt(dst *int, name string) {
	if v, ok := os.LookupEnv(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, name string) {
	if v, ok := os.LookupEnv(name); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
