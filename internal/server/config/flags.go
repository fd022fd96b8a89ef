package config

import (
	"flag"
	"os"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-k string   trigger shared-secret token
//	-i int      disclosure inactivity threshold, days
//	-r int      reminder inactivity threshold, days
//	-w int      disclosure cooldown window, days
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-k", "-i", "-r", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "JWT secret key")
	fs.StringVar(&config.TriggerToken, "k", config.TriggerToken, "trigger token")
	fs.IntVar(&config.DisclosureThresholdDays, "i", config.DisclosureThresholdDays, "disclosure inactivity threshold (days)")
	fs.IntVar(&config.ReminderThresholdDays, "r", config.ReminderThresholdDays, "reminder inactivity threshold (days)")
	fs.IntVar(&config.CooldownDays, "w", config.CooldownDays, "disclosure cooldown window (days)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
