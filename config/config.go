package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"guardian-bot/model"
)

// Load reads secrets from the environment and the structured configuration
// document. Every environment-specific identifier (channels, approver roles,
// cooldown bypass) lives in the config file, never in code.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		log.Fatal("Error: APP_ID environment variable not set")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.json"
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	v.SetDefault("globalBan.cooldownMinutes", 10)
	v.SetDefault("globalBan.databasePath", "data/moderation.db")
	v.SetDefault("altChecker.accountAgeDays", 7)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			log.Printf("Warning: config file not found at %s, using defaults", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	cfg := &model.Config{
		BotToken: token,
		AppID:    appID,
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.RoleSync.Enabled {
		if cfg.RoleSync.SourceGuildID == "" || cfg.RoleSync.TargetGuildID == "" {
			return nil, fmt.Errorf("roleSync enabled but source/target guild not configured")
		}
		if err := validateRoleMappings(cfg.RoleSync.RoleMappings); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// validateRoleMappings rejects tables where a role ID participates in more
// than one pair; direction resolution would be ambiguous otherwise.
func validateRoleMappings(mappings map[string]string) error {
	seen := make(map[string]bool, len(mappings)*2)
	for src, dst := range mappings {
		if seen[src] {
			return fmt.Errorf("role %s appears in more than one sync mapping", src)
		}
		seen[src] = true
		if seen[dst] {
			return fmt.Errorf("role %s appears in more than one sync mapping", dst)
		}
		seen[dst] = true
	}
	return nil
}
