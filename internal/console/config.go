// Package console is the web gateway of the dashboard: it enforces the
// navigation guards and proxies the protected reads through the client SDK.
package console

import (
	"fmt"
	"os"
)

const (
	portEnvVar       = "PORT"
	appNameVar       = "APP_NAME"
	apiBaseURLVar    = "API_BASE_URL"
	credentialsVar   = "CREDENTIALS_FILE"
	defaultAPIBase   = "http://localhost:3000"
	defaultCredsFile = "console-session.yaml"
)

// Config holds the gateway's environment-derived settings.
type Config struct {
	AppName         string
	Port            string
	APIBaseURL      string
	CredentialsFile string
}

// LoadConfig reads the configuration from the environment. Callers load a
// .env file first when one exists.
func LoadConfig() Config {
	return Config{
		AppName:         getEnv(appNameVar, "Solar Console"),
		Port:            normalizePort(getEnv(portEnvVar, "8080")),
		APIBaseURL:      getEnv(apiBaseURLVar, defaultAPIBase),
		CredentialsFile: getEnv(credentialsVar, defaultCredsFile),
	}
}

func normalizePort(port string) string {
	if port == "" || port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

func getEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
