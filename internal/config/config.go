package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type TelemetryConfig struct {
	LogLevel       string `yaml:"log_level"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
	PrometheusBind string `yaml:"prometheus_bind"`
}

type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type BusConfig struct {
	Embedded       bool     `yaml:"embedded"`
	Port           int      `yaml:"port"`
	Servers        []string `yaml:"servers"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	Token          string   `yaml:"token"`
	TLSInsecure    bool     `yaml:"tls_insecure"`
	ConnectTimeout int      `yaml:"connect_timeout_ms"`
}

type VoiceStoreConfig struct {
	Path string `yaml:"path"`
}

// MainRoleConfig describes the main voice role every unmapped language
// falls back to.
type MainRoleConfig struct {
	Engine   string `yaml:"engine"`
	Voice    string `yaml:"voice"`
	Variant  string `yaml:"variant"`
	Language string `yaml:"language"`
	Speed    int    `yaml:"speed"`
	Pitch    int    `yaml:"pitch"`
	Volume   int    `yaml:"volume"`
}

// ConsistencyConfig mirrors the three independent consistency flags.
type ConsistencyConfig struct {
	Engine     bool `yaml:"engine"`
	Voice      bool `yaml:"voice"`
	Parameters bool `yaml:"parameters"`
}

// SessionConfig holds the per-utterance pipeline settings. Pause values are
// milliseconds; 0 keeps the switch but drops the delay.
type SessionConfig struct {
	NumberLanguage      string            `yaml:"number_language"`
	NumberMode          string            `yaml:"number_mode"` // value, digit
	IgnoreComma         bool              `yaml:"ignore_comma"`
	IgnoreDigits        bool              `yaml:"ignore_digits_in_detection"`
	IgnorePunctuation   bool              `yaml:"ignore_punctuation_in_detection"`
	DetectionTiming     string            `yaml:"detection_timing"` // before, after
	Consistency         ConsistencyConfig `yaml:"consistency"`
	NumberPauseMS       int               `yaml:"number_pause_ms"`
	ItemPauseMS         int               `yaml:"item_pause_ms"`
	ChineseSpacePauseMS int               `yaml:"chinese_space_pause_ms"`
	SayAllPauseMS       int               `yaml:"say_all_pause_ms"`
}

// EngineConfig describes one TTS engine binding, including the native
// parameter ranges the normalized 0-100 settings are mapped onto.
type EngineConfig struct {
	Name      string `yaml:"name"`
	Mode      string `yaml:"mode"` // mock, exec
	Command   string `yaml:"command"`
	RateBoost bool   `yaml:"rate_boost"`
	Variants  bool   `yaml:"variants"`
	RateMin   int    `yaml:"rate_min"`
	RateMax   int    `yaml:"rate_max"`
	PitchMin  int    `yaml:"pitch_min"`
	PitchMax  int    `yaml:"pitch_max"`
	VolumeMin int    `yaml:"volume_min"`
	VolumeMax int    `yaml:"volume_max"`
}

// RegionConfig seeds one region mapping into the voice store at startup.
type RegionConfig struct {
	NoSelect bool   `yaml:"no_select"`
	Engine   string `yaml:"engine"`
	Voice    string `yaml:"voice"`
	Variant  string `yaml:"variant"`
	Speed    int    `yaml:"speed"`
	Pitch    int    `yaml:"pitch"`
	Volume   int    `yaml:"volume"`
}

type Config struct {
	RuntimeName string                  `yaml:"runtime_name"`
	Environment string                  `yaml:"environment"`
	HTTP        HTTPConfig              `yaml:"http"`
	Telemetry   TelemetryConfig         `yaml:"telemetry"`
	Bus         BusConfig               `yaml:"bus"`
	VoiceStore  VoiceStoreConfig        `yaml:"voice_store"`
	MainRole    MainRoleConfig          `yaml:"main_role"`
	Session     SessionConfig           `yaml:"session"`
	Engines     []EngineConfig          `yaml:"engines"`
	Regions     map[string]RegionConfig `yaml:"regions"`
}

func Default() Config {
	return Config{
		RuntimeName: "worldvoice-runtime",
		Environment: "development",
		HTTP: HTTPConfig{
			Bind: "0.0.0.0",
			Port: 8080,
		},
		Telemetry: TelemetryConfig{
			LogLevel:       "info",
			OTLPInsecure:   true,
			PrometheusBind: ":9091",
		},
		Bus: BusConfig{
			Embedded:       true,
			Port:           4222,
			Servers:        []string{"nats://localhost:4222"},
			ConnectTimeout: 2000,
		},
		VoiceStore: VoiceStoreConfig{
			Path: "./data/worldvoice-regions.db",
		},
		MainRole: MainRoleConfig{
			Engine:   "mock",
			Voice:    "default",
			Language: "en",
			Speed:    50,
			Pitch:    50,
			Volume:   80,
		},
		Session: SessionConfig{
			NumberLanguage:      "en",
			NumberMode:          "value",
			IgnoreComma:         true,
			DetectionTiming:     "after",
			NumberPauseMS:       50,
			ItemPauseMS:         100,
			ChineseSpacePauseMS: 25,
			SayAllPauseMS:       150,
		},
		Engines: []EngineConfig{
			{
				Name:      "mock",
				Mode:      "mock",
				RateMin:   80,
				RateMax:   450,
				PitchMin:  0,
				PitchMax:  99,
				VolumeMin: 0,
				VolumeMax: 100,
			},
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.RuntimeName, "WV_RUNTIME_NAME")
	overrideString(&cfg.Environment, "WV_RUNTIME_ENVIRONMENT")
	overrideString(&cfg.HTTP.Bind, "WV_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "WV_HTTP_PORT")
	overrideString(&cfg.Telemetry.LogLevel, "WV_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "WV_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "WV_TELEMETRY_OTLP_INSECURE")
	overrideString(&cfg.Telemetry.PrometheusBind, "WV_TELEMETRY_PROMETHEUS_BIND")
	overrideBool(&cfg.Bus.Embedded, "WV_BUS_EMBEDDED")
	overrideInt(&cfg.Bus.Port, "WV_BUS_PORT")
	overrideStringSlice(&cfg.Bus.Servers, "WV_BUS_SERVERS")
	overrideString(&cfg.Bus.Username, "WV_BUS_USERNAME")
	overrideString(&cfg.Bus.Password, "WV_BUS_PASSWORD")
	overrideString(&cfg.Bus.Token, "WV_BUS_TOKEN")
	overrideBool(&cfg.Bus.TLSInsecure, "WV_BUS_TLS_INSECURE")
	overrideInt(&cfg.Bus.ConnectTimeout, "WV_BUS_CONNECT_TIMEOUT_MS")
	overrideString(&cfg.VoiceStore.Path, "WV_VOICE_STORE_PATH")
	overrideString(&cfg.MainRole.Engine, "WV_MAIN_ROLE_ENGINE")
	overrideString(&cfg.MainRole.Voice, "WV_MAIN_ROLE_VOICE")
	overrideString(&cfg.MainRole.Variant, "WV_MAIN_ROLE_VARIANT")
	overrideString(&cfg.MainRole.Language, "WV_MAIN_ROLE_LANGUAGE")
	overrideInt(&cfg.MainRole.Speed, "WV_MAIN_ROLE_SPEED")
	overrideInt(&cfg.MainRole.Pitch, "WV_MAIN_ROLE_PITCH")
	overrideInt(&cfg.MainRole.Volume, "WV_MAIN_ROLE_VOLUME")
	overrideString(&cfg.Session.NumberLanguage, "WV_SESSION_NUMBER_LANGUAGE")
	overrideString(&cfg.Session.NumberMode, "WV_SESSION_NUMBER_MODE")
	overrideBool(&cfg.Session.IgnoreComma, "WV_SESSION_IGNORE_COMMA")
	overrideBool(&cfg.Session.IgnoreDigits, "WV_SESSION_IGNORE_DIGITS")
	overrideBool(&cfg.Session.IgnorePunctuation, "WV_SESSION_IGNORE_PUNCTUATION")
	overrideString(&cfg.Session.DetectionTiming, "WV_SESSION_DETECTION_TIMING")
	overrideBool(&cfg.Session.Consistency.Engine, "WV_SESSION_CONSISTENT_ENGINE")
	overrideBool(&cfg.Session.Consistency.Voice, "WV_SESSION_CONSISTENT_VOICE")
	overrideBool(&cfg.Session.Consistency.Parameters, "WV_SESSION_CONSISTENT_PARAMETERS")
	overrideInt(&cfg.Session.NumberPauseMS, "WV_SESSION_NUMBER_PAUSE_MS")
	overrideInt(&cfg.Session.ItemPauseMS, "WV_SESSION_ITEM_PAUSE_MS")
	overrideInt(&cfg.Session.ChineseSpacePauseMS, "WV_SESSION_CHINESE_SPACE_PAUSE_MS")
	overrideInt(&cfg.Session.SayAllPauseMS, "WV_SESSION_SAY_ALL_PAUSE_MS")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideStringSlice(target *[]string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		parts := strings.Split(value, ",")
		var trimmed []string
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			*target = trimmed
		}
	}
}

func validate(cfg Config) error {
	if cfg.RuntimeName == "" {
		return errors.New("runtime_name must not be empty")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return errors.New("http.port must be between 1 and 65535")
	}
	if cfg.Bus.Embedded {
		if cfg.Bus.Port <= 0 || cfg.Bus.Port > 65535 {
			return errors.New("bus.port must be between 1 and 65535 when embedded mode is enabled")
		}
	} else {
		if len(cfg.Bus.Servers) == 0 {
			return errors.New("bus.servers must not be empty when embedded mode is disabled")
		}
	}
	if cfg.VoiceStore.Path == "" {
		return errors.New("voice_store.path must not be empty")
	}
	if cfg.Telemetry.PrometheusBind == "" {
		return errors.New("telemetry.prometheus_bind must not be empty")
	}
	if cfg.MainRole.Engine == "" || cfg.MainRole.Voice == "" {
		return errors.New("main_role.engine and main_role.voice must not be empty")
	}
	if err := validateParams(cfg.MainRole.Speed, cfg.MainRole.Pitch, cfg.MainRole.Volume); err != nil {
		return fmt.Errorf("main_role: %w", err)
	}
	switch cfg.Session.NumberMode {
	case "value", "digit":
	default:
		return errors.New("session.number_mode must be one of value|digit")
	}
	switch cfg.Session.DetectionTiming {
	case "before", "after":
	default:
		return errors.New("session.detection_timing must be one of before|after")
	}
	for _, ms := range []int{
		cfg.Session.NumberPauseMS,
		cfg.Session.ItemPauseMS,
		cfg.Session.ChineseSpacePauseMS,
		cfg.Session.SayAllPauseMS,
	} {
		if ms < 0 {
			return errors.New("session pause durations must be >= 0")
		}
	}
	if len(cfg.Engines) == 0 {
		return errors.New("engines must not be empty")
	}
	names := make(map[string]bool, len(cfg.Engines))
	mainEngineKnown := false
	for _, eng := range cfg.Engines {
		if eng.Name == "" {
			return errors.New("engines[].name must not be empty")
		}
		if names[eng.Name] {
			return fmt.Errorf("duplicate engine name %q", eng.Name)
		}
		names[eng.Name] = true
		switch eng.Mode {
		case "mock", "exec":
		default:
			return fmt.Errorf("engine %q: mode must be one of mock|exec", eng.Name)
		}
		if eng.Mode == "exec" && eng.Command == "" {
			return fmt.Errorf("engine %q: command must be set when mode=exec", eng.Name)
		}
		if eng.RateMin >= eng.RateMax || eng.PitchMin >= eng.PitchMax || eng.VolumeMin >= eng.VolumeMax {
			return fmt.Errorf("engine %q: native parameter ranges must have min < max", eng.Name)
		}
		if eng.Name == cfg.MainRole.Engine {
			mainEngineKnown = true
		}
	}
	if !mainEngineKnown {
		return fmt.Errorf("main_role.engine %q is not a configured engine", cfg.MainRole.Engine)
	}
	for tag, region := range cfg.Regions {
		if region.NoSelect {
			continue
		}
		if region.Engine == "" || region.Voice == "" {
			return fmt.Errorf("region %q: engine and voice must be set unless no_select", tag)
		}
		if err := validateParams(region.Speed, region.Pitch, region.Volume); err != nil {
			return fmt.Errorf("region %q: %w", tag, err)
		}
	}
	return nil
}

func validateParams(speed, pitch, volume int) error {
	for _, v := range []int{speed, pitch, volume} {
		if v < 0 || v > 100 {
			return errors.New("speed, pitch and volume must be in 0..100")
		}
	}
	return nil
}
