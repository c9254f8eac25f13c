package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/murmurhouse/murmur/internal/domain"
)

type Config struct {
	Mode     string `mapstructure:"mode"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
	Secret   string `mapstructure:"secret"`

	OpenAI OpenAIConfig          `mapstructure:"openai"`
	Limits Limits                `mapstructure:"limits"`
	Rooms  map[string]RoomConfig `mapstructure:"rooms"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	TTSModel    string  `mapstructure:"tts_model"`
	EmbedModel  string  `mapstructure:"embed_model"`
	Temperature float64 `mapstructure:"temperature"`
}

type Limits struct {
	MaxMessagesInMemory int `mapstructure:"max_messages_in_memory"`
	ArchiveThreshold    int `mapstructure:"archive_threshold"`
	ArchiveBatch        int `mapstructure:"archive_batch"`
	ContextMessages     int `mapstructure:"context_messages"`
	SnapshotMessages    int `mapstructure:"snapshot_messages"`
	MaxDailyMessages    int `mapstructure:"max_daily_messages"`
}

// RoomConfig is the file/env shape of a room definition; Room() resolves it
// into the immutable domain value.
type RoomConfig struct {
	Name             string        `mapstructure:"name"`
	Roster           []string      `mapstructure:"roster"`
	Topics           []string      `mapstructure:"topics"`
	MinDelay         time.Duration `mapstructure:"min_delay"`
	MaxDelay         time.Duration `mapstructure:"max_delay"`
	InitialDelay     time.Duration `mapstructure:"initial_delay"`
	DailyMessageCap  int           `mapstructure:"daily_message_cap"`
	AudioProbability float64       `mapstructure:"audio_probability"`
	MaxTokens        int           `mapstructure:"max_tokens"`
	Enabled          bool          `mapstructure:"enabled"`
	AutoStart        bool          `mapstructure:"auto_start"`
	KeepAlive        bool          `mapstructure:"keep_alive"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvPrefix("MURMUR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", "./data")

	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.tts_model", "tts-1")
	v.SetDefault("openai.embed_model", "text-embedding-3-small")
	v.SetDefault("openai.temperature", 0.8)
	v.SetDefault("openai.api_key", os.Getenv("OPENAI_API_KEY"))

	v.SetDefault("limits.max_messages_in_memory", 100)
	v.SetDefault("limits.archive_threshold", 100)
	v.SetDefault("limits.archive_batch", 50)
	v.SetDefault("limits.context_messages", 6)
	v.SetDefault("limits.snapshot_messages", 10)
	v.SetDefault("limits.max_daily_messages", 2000)

	for id, room := range defaultRooms() {
		key := "rooms." + id + "."
		v.SetDefault(key+"name", room.Name)
		v.SetDefault(key+"roster", room.Roster)
		v.SetDefault(key+"topics", room.Topics)
		v.SetDefault(key+"min_delay", room.MinDelay)
		v.SetDefault(key+"max_delay", room.MaxDelay)
		v.SetDefault(key+"initial_delay", room.InitialDelay)
		v.SetDefault(key+"daily_message_cap", room.DailyMessageCap)
		v.SetDefault(key+"audio_probability", room.AudioProbability)
		v.SetDefault(key+"max_tokens", room.MaxTokens)
		v.SetDefault(key+"enabled", room.Enabled)
		v.SetDefault(key+"auto_start", room.AutoStart)
		v.SetDefault(key+"keep_alive", room.KeepAlive)
	}
}

// Room resolves one configured room into its domain value.
func (c *Config) Room(id string) domain.RoomConfig {
	rc := c.Rooms[id]
	cap := rc.DailyMessageCap
	if cap == 0 {
		cap = c.Limits.MaxDailyMessages
	}
	return domain.RoomConfig{
		ID:     domain.RoomID(id),
		Name:   rc.Name,
		Roster: rc.Roster,
		Topics: rc.Topics,
		Timing: domain.Timing{
			MinDelay:     rc.MinDelay,
			MaxDelay:     rc.MaxDelay,
			InitialDelay: rc.InitialDelay,
		},
		DailyMessageCap:  cap,
		AudioProbability: rc.AudioProbability,
		MaxTokens:        rc.MaxTokens,
		Temperature:      c.OpenAI.Temperature,
		Enabled:          rc.Enabled,
		AutoStart:        rc.AutoStart,
		KeepAlive:        rc.KeepAlive,
	}
}

// RoomList resolves every configured room.
func (c *Config) RoomList() []domain.RoomConfig {
	out := make([]domain.RoomConfig, 0, len(c.Rooms))
	for id := range c.Rooms {
		out = append(out, c.Room(id))
	}
	return out
}
