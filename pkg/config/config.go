package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	DB        DBConfig
	WebSocket WebSocketConfig
	Topic     TopicConfig
	Mirror    MirrorConfig
}

type ServerConfig struct {
	Address string
	Mode    string // debug / release / test
}

type LogConfig struct {
	Level string
}

type DBConfig struct {
	Enabled  bool
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

// WebSocketConfig 控制 WebSocket 連接的讀寫參數
type WebSocketConfig struct {
	ReadLimit  int64         `mapstructure:"read_limit"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`
}

// TopicConfig 控制辯論主題的來源（AI 生成或題庫）
type TopicConfig struct {
	AIEnabled bool          `mapstructure:"ai_enabled"`
	AIAPIURL  string        `mapstructure:"ai_api_url"`
	AIAPIKey  string        `mapstructure:"ai_api_key"`
	AITimeout time.Duration `mapstructure:"ai_timeout"`
}

// MirrorConfig 控制房間狀態寫入資料庫的背景鏡像
type MirrorConfig struct {
	Enabled bool
	Buffer  int
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./pkg/config")
	v.AddConfigPath(".")

	// 環境變數覆蓋，例如 DEBATE_DB_HOST
	v.SetEnvPrefix("debate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")

	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "debate")
	v.SetDefault("db.port", 5432)

	v.SetDefault("websocket.read_limit", 4096)
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.ping_period", "54s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.send_buffer", 256)

	v.SetDefault("topic.ai_enabled", false)
	v.SetDefault("topic.ai_api_key", "")
	v.SetDefault("topic.ai_api_url", "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent")
	v.SetDefault("topic.ai_timeout", "5s")

	v.SetDefault("mirror.enabled", true)
	v.SetDefault("mirror.buffer", 1024)
}
