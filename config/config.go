// Ininicializing common application configuration
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Storage StorageConfig `mapstructure:"storage"`
	Render  RenderConfig  `mapstructure:"render"`
}

type ServerConfig struct {
	AppVersion   string        `mapstructure:"app_version"`
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Idle_timeout time.Duration `mapstructure:"idle_timeout"`
	Env          string        `mapstructure:"env"`
	Mode         string        `mapstructure:"mode"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// customization history lifetime, refreshed on every write
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type StorageConfig struct {
	BasePath string `mapstructure:"base_path"`
}

type RenderConfig struct {
	// filter kinds in pipeline order: adjustment, color, effects, sticker
	Order        []string `mapstructure:"order"`
	OutputFormat string   `mapstructure:"output_format"`
	JPEGQuality  int      `mapstructure:"jpeg_quality"`
	// decoded images above width*height are rejected before allocation
	MaxPixels int `mapstructure:"max_pixels"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("kafka.enabled", true)
	v.SetDefault("kafka.brokers", []string{"kafka:9092"})
	v.SetDefault("kafka.topic", "render-tasks")
	v.SetDefault("kafka.group_id", "render-processor")

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "redis")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.session_ttl", 24*time.Hour)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("storage.base_path", "./storage")

	v.SetDefault("render.order", []string{"adjustment", "color", "effects", "sticker"})
	v.SetDefault("render.output_format", "png")
	v.SetDefault("render.jpeg_quality", 90)
	v.SetDefault("render.max_pixels", 50_000_000)
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()
	setDefaults(viperInstance)

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	err := viperInstance.ReadInConfig()

	if err != nil {
		return nil, err
	}
	return viperInstance, nil
}

// Defaults returns a viper instance carrying only built-in defaults and env overrides.
func Defaults() *viper.Viper {
	viperInstance := viper.New()
	setDefaults(viperInstance)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()
	return viperInstance
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return &c, nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
