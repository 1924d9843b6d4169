package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type PaymentConfig struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	PaymentDB  `yaml:"payment_db"`
	LogConfig  `yaml:"log_config"`
	Xendit     `yaml:"xendit"`
	Redis      `yaml:"redis"`
	Kafka      `yaml:"kafka"`
	Channels   `yaml:"channels"`
	Callbacks  `yaml:"callbacks"`
}

type Callbacks struct {
	SettlementURL string `yaml:"settlement_url"`
}

type HTTPServer struct {
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

type PaymentDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type Xendit struct {
	BaseURL   string        `yaml:"base_url"`
	SecretKey string        `yaml:"secret_key" env:"XENDIT_SECRET_KEY"`
	Timeout   time.Duration `yaml:"timeout"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"`
}

type Kafka struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// Channels holds the provisioning knobs: how long a virtual account or a
// hosted invoice stays payable, and how often expired transactions are swept.
type Channels struct {
	VAExpiry        time.Duration `yaml:"va_expiry"`
	InvoiceDuration time.Duration `yaml:"invoice_duration"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
}

func MustLoad() *PaymentConfig {

	configPath := os.Getenv("PAYMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("PAYMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg PaymentConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
