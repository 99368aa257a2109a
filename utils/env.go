package utils

import (
	"os"

	"github.com/joho/godotenv"
)

// ApplyEnv overlays deploy-time settings from the environment (and an
// optional .env file in the working directory) onto cfg. Only endpoints and
// credentials are overridable this way; structural settings stay in YAML.
func ApplyEnv(cfg *Config) {
	_ = godotenv.Load()

	cfg.Source.Mode = getEnv("SOURCE_MODE", cfg.Source.Mode)
	cfg.Source.MQTT.Broker = getEnv("MQTT_BROKER", cfg.Source.MQTT.Broker)
	cfg.Source.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", cfg.Source.MQTT.ClientID)
	cfg.Source.MQTT.Username = getEnv("MQTT_USERNAME", cfg.Source.MQTT.Username)
	cfg.Source.MQTT.Password = getEnv("MQTT_PASSWORD", cfg.Source.MQTT.Password)
	cfg.Storage.BaseDir = getEnv("STORAGE_BASE_DIR", cfg.Storage.BaseDir)
	cfg.Web.Addr = getEnv("WEB_ADDR", cfg.Web.Addr)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
