package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "HUDDLE"

// flagKeys maps config keys to the command line flags overriding them.
var flagKeys = map[string]string{
	"port":      "port",
	"mode":      "mode",
	"log_level": "log-level",
}

type Codec struct {
	Kind        string `mapstructure:"kind"`
	MimeType    string `mapstructure:"mime_type"`
	ClockRate   uint32 `mapstructure:"clock_rate"`
	Channels    uint16 `mapstructure:"channels"`
	PayloadType uint8  `mapstructure:"payload_type"`
	Fmtp        string `mapstructure:"fmtp"`
}

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	LogLevel   string        `mapstructure:"log_level"`

	ListenIP        string  `mapstructure:"listen_ip"`
	AnnouncedIP     string  `mapstructure:"announced_ip"`
	RTCMinPort      uint16  `mapstructure:"rtc_min_port"`
	RTCMaxPort      uint16  `mapstructure:"rtc_max_port"`
	ICETCPPort      int     `mapstructure:"ice_tcp_port"`
	IncludeLoopback bool    `mapstructure:"include_loopback"`
	Codecs          []Codec `mapstructure:"codecs"`

	InitialOutgoingBitrate uint64        `mapstructure:"initial_outgoing_bitrate"`
	RoomCapacity           int           `mapstructure:"room_capacity"`
	CapsRetryAttempts      int           `mapstructure:"caps_retry_attempts"`
	CapsRetryBaseDelay     time.Duration `mapstructure:"caps_retry_base_delay"`
	NegotiationTimeout     time.Duration `mapstructure:"negotiation_timeout"`
	JoinRateLimit          int           `mapstructure:"join_rate_limit"`
	JoinRateInterval       time.Duration `mapstructure:"join_rate_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "")
	v.SetDefault("log_level", "info")

	v.SetDefault("listen_ip", "0.0.0.0")
	v.SetDefault("announced_ip", "")
	v.SetDefault("rtc_min_port", 40000)
	v.SetDefault("rtc_max_port", 49999)
	v.SetDefault("ice_tcp_port", 0)
	v.SetDefault("include_loopback", false)

	v.SetDefault("initial_outgoing_bitrate", 1_000_000)
	v.SetDefault("room_capacity", 20)
	v.SetDefault("caps_retry_attempts", 3)
	v.SetDefault("caps_retry_base_delay", "1s")
	v.SetDefault("negotiation_timeout", "15s")
	v.SetDefault("join_rate_limit", 5)
	v.SetDefault("join_rate_interval", "10s")
}

// Load reads config/config.<env>.yaml, where env comes from the config-env
// flag or CONFIG_ENV, then applies HUDDLE_* variables and explicitly set flags.
// A .env file in the working directory is loaded first without overriding
// variables already set. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "loaded .env")
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("CONFIG_ENV")
	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
		if f := flags.Lookup("config-env"); f != nil && f.Changed {
			env = f.Value.String()
		}
	}
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	v.SetConfigFile(fileName)

	if err := v.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Fprintf(os.Stderr, "loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RTCMinPort > c.RTCMaxPort {
		return fmt.Errorf("rtc port range %d-%d is inverted", c.RTCMinPort, c.RTCMaxPort)
	}
	if c.RoomCapacity <= 0 {
		return fmt.Errorf("room_capacity must be positive, got %d", c.RoomCapacity)
	}
	if c.CapsRetryAttempts < 0 {
		return fmt.Errorf("caps_retry_attempts must not be negative, got %d", c.CapsRetryAttempts)
	}
	return nil
}
