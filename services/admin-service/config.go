package adminservice

import "os"

type Config struct {
	SettingsTable string // SETTINGS_TABLE; empty keeps settings in memory
}

func LoadConfig() Config {
	return Config{SettingsTable: os.Getenv("SETTINGS_TABLE")}
}
