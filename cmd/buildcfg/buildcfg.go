// Package buildcfg translates the loaded configuration file into the typed
// configs the wiring in main needs.
package buildcfg

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"c2creg/internal/mailer"
)

type ServerConfig struct {
	Port string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

type EventConfig struct {
	Label   string
	Cutover time.Time
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, defaulting to 8080")
	}
	return ServerConfig{Port: port}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("db.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("db.master_dsn is required")
	}

	slaveDSNs := cfg.GetStringSlice("db.slave_dsns")

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("db.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("db.max_idle_conns"),
		ConnMaxLifetime: time.Duration(cfg.GetInt("db.conn_max_lifetime_seconds")) * time.Second,
	}

	log.Info().Int("slaves", len(slaveDSNs)).Msg("DB config built")
	return masterDSN, slaveDSNs, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rc.Url == "" || rc.Exchange == "" || rc.Queue == "" {
		return rc, fmt.Errorf("rabbit.url, rabbit.exchange and rabbit.queue are required")
	}
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("RabbitMQ config built")
	return rc, nil
}

func BuildSMTPConfig(cfg *config.Config, log *zerolog.Logger) mailer.Config {
	mc := mailer.Config{
		Addr:      cfg.GetString("smtp.addr"),
		Host:      cfg.GetString("smtp.host"),
		From:      cfg.GetString("smtp.from"),
		Password:  cfg.GetString("smtp.password"),
		DeskEmail: cfg.GetString("smtp.desk_email"),
	}
	if mc.DeskEmail == "" {
		log.Warn().Msg("smtp.desk_email not set, desk notifications will fail")
	}
	return mc
}

func BuildEventConfig(cfg *config.Config, log *zerolog.Logger) (EventConfig, error) {
	label := cfg.GetString("event.label")
	if label == "" {
		return EventConfig{}, fmt.Errorf("event.label is required")
	}

	cutoverRaw := cfg.GetString("event.cutover")
	cutover, err := time.Parse(time.RFC3339, cutoverRaw)
	if err != nil {
		return EventConfig{}, fmt.Errorf("invalid event.cutover %q: %w", cutoverRaw, err)
	}

	log.Info().Str("label", label).Time("cutover", cutover).Msg("Event config built")
	return EventConfig{Label: label, Cutover: cutover}, nil
}

func BuildLookupCacheTTL(cfg *config.Config) time.Duration {
	seconds := cfg.GetInt("lookup_cache.ttl_seconds")
	if seconds <= 0 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}
