package config

import (
	"fmt"
	"net"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"

	// DisconnectForfeit - a participant leaving an active game loses it.
	DisconnectForfeit = "forfeit"
	// DisconnectIgnore - the game stalls until the remaining participant resigns.
	DisconnectIgnore = "ignore"
)

type Config struct {
	LogLevel            string        `yaml:"log-level" env:"SEEGA_LOG_LEVEL" env-default:"info"`
	Host                string        `yaml:"host" env:"SEEGA_HOST" env-default:"localhost"`
	TCPPort             string        `yaml:"tcp-port" env:"SEEGA_TCP_PORT" env-default:"5555"`
	HTTPPort            string        `yaml:"http-port" env:"SEEGA_HTTP_PORT" env-default:"9090"`
	WriteTimeout        time.Duration `yaml:"write-timeout" env:"SEEGA_WRITE_TIMEOUT" env-default:"10s"`
	SendBuffer          int           `yaml:"send-buffer" env:"SEEGA_SEND_BUFFER" env-default:"64"`
	OnDisconnect        string        `yaml:"on-disconnect" env:"SEEGA_ON_DISCONNECT" env-default:"forfeit"`
	Storage             Storage       `yaml:"storage"`
	Redis               Redis         `yaml:"redis"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"SEEGA_STORAGE_DRIVER" env-default:"memory"`
}

type Redis struct {
	Host     string        `yaml:"host" env:"SEEGA_REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"SEEGA_REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"SEEGA_REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"SEEGA_REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"SEEGA_REDIS_TTL" env-default:"24h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load - reads the yaml file at path, then applies env overrides and defaults.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) TCPAddr() string {
	return net.JoinHostPort(that.Host, that.TCPPort)
}

func (that *Config) HTTPAddr() string {
	return net.JoinHostPort(that.Host, that.HTTPPort)
}

func (that *Config) validate() error {
	switch that.Storage.Driver {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("unknown storage driver %q", that.Storage.Driver)
	}

	switch that.OnDisconnect {
	case DisconnectForfeit, DisconnectIgnore:
	default:
		return fmt.Errorf("unknown on-disconnect policy %q", that.OnDisconnect)
	}

	if that.SendBuffer <= 0 {
		return fmt.Errorf("send-buffer must be positive, got %d", that.SendBuffer)
	}

	return nil
}

func (that *Config) ForfeitOnDisconnect() bool {
	return that.OnDisconnect == DisconnectForfeit
}

func (that *Redis) GetRedisAddr() string {
	return net.JoinHostPort(that.Host, that.Port)
}
