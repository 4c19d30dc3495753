package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env-default:"info"`
	HTTPPort string `yaml:"http-port" env-default:"9090"`
	Redis    Redis  `yaml:"redis"`
	Engine   Engine `yaml:"engine"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
	// GameTTL is how long a game is kept after its last move.
	GameTTL time.Duration `yaml:"game-ttl" env-default:"24h"`
}

type Engine struct {
	// FixedOpening disables the random first move on an empty board.
	FixedOpening bool `yaml:"fixed-opening"`
	Parallel     bool `yaml:"parallel"`
	// Seed of the opening move source. Zero seeds from the clock.
	Seed int64 `yaml:"seed" env-default:"0"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
