package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// TrackerConfig holds ward-tracker pipeline settings.
type TrackerConfig struct {
	WindowTitle         string
	DetectionInterval   time.Duration
	OverlayInterval     time.Duration
	DuplicateWindow     time.Duration
	ConfidenceThreshold float64
}

// KillstealConfig holds killsteal evaluator settings.
type KillstealConfig struct {
	CheckInterval        time.Duration
	GlobalCooldown       time.Duration
	EnableHotkey         string
	Hero                 string
	UseConsoleCommands   bool
	ConsoleCommandPrefix string
}

// AbilityConfig is one configured hero ability.
type AbilityConfig struct {
	Name     string  `json:"name" mapstructure:"name"`
	Key      string  `json:"key" mapstructure:"key"`
	Damage   float64 `json:"damage" mapstructure:"damage"`
	ManaCost float64 `json:"manaCost" mapstructure:"manaCost"`
	Cooldown float64 `json:"cooldown" mapstructure:"cooldown"`
}

// DetectorConfig holds the paths to the detection model assets.
// Missing assets abort startup before any loop runs.
type DetectorConfig struct {
	WeightsPath string
	ConfigPath  string
	ClassesPath string
}

// MemoryConfig holds in-memory/JSON history backend settings.
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite history backend settings.
type SQLiteConfig struct {
	DumpInterval time.Duration
	DumpPath     string
}

// StorageConfig selects and configures the history backend.
type StorageConfig struct {
	Type   string
	Memory MemoryConfig
	SQLite SQLiteConfig
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// Load reads configuration from the JSON file in configDir and sets
// default values. Callers treat a read error as "use defaults".
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./d2assistlogs")

	viper.SetDefault("tracker.windowTitle", "Dota 2")
	viper.SetDefault("tracker.detectionInterval", "1500ms")
	viper.SetDefault("tracker.overlayInterval", "500ms")
	viper.SetDefault("tracker.duplicateWindow", "2s")
	viper.SetDefault("tracker.confidenceThreshold", 0.5)

	viper.SetDefault("detector.weightsPath", "./models/yolov3.weights")
	viper.SetDefault("detector.configPath", "./models/yolov3.cfg")
	viper.SetDefault("detector.classesPath", "./models/classes.names")

	viper.SetDefault("killsteal.checkInterval", "500ms")
	viper.SetDefault("killsteal.globalCooldown", "3s")
	viper.SetDefault("killsteal.enableHotkey", "F8")
	viper.SetDefault("killsteal.hero", "npc_dota_hero_lina")
	viper.SetDefault("killsteal.useConsoleCommands", true)
	viper.SetDefault("killsteal.consoleCommandPrefix", "dota_execute")
	viper.SetDefault("killsteal.abilities.npc_dota_hero_lina", []map[string]any{
		{"name": "lina_dragon_slave", "key": "q", "damage": 280.0, "manaCost": 100.0, "cooldown": 10.0},
		{"name": "lina_light_strike_array", "key": "w", "damage": 250.0, "manaCost": 110.0, "cooldown": 10.0},
		{"name": "lina_laguna_blade", "key": "r", "damage": 850.0, "manaCost": 280.0, "cooldown": 60.0},
	})
	viper.SetDefault("killsteal.abilities.npc_dota_hero_lion", []map[string]any{
		{"name": "lion_impale", "key": "q", "damage": 260.0, "manaCost": 110.0, "cooldown": 12.0},
		{"name": "lion_finger_of_death", "key": "r", "damage": 800.0, "manaCost": 250.0, "cooldown": 100.0},
	})

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./sessions")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.sqlite.dumpPath", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "d2assist")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "d2assist-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "d2assist")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName("d2assist.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Save persists the current (merged) configuration to path, so tunables
// adjusted at runtime survive restarts.
func Save(path string) error {
	return viper.WriteConfigAs(path)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetTrackerConfig returns the ward-tracker settings.
func GetTrackerConfig() TrackerConfig {
	return TrackerConfig{
		WindowTitle:         viper.GetString("tracker.windowTitle"),
		DetectionInterval:   viper.GetDuration("tracker.detectionInterval"),
		OverlayInterval:     viper.GetDuration("tracker.overlayInterval"),
		DuplicateWindow:     viper.GetDuration("tracker.duplicateWindow"),
		ConfidenceThreshold: viper.GetFloat64("tracker.confidenceThreshold"),
	}
}

// GetKillstealConfig returns the killsteal evaluator settings.
func GetKillstealConfig() KillstealConfig {
	return KillstealConfig{
		CheckInterval:        viper.GetDuration("killsteal.checkInterval"),
		GlobalCooldown:       viper.GetDuration("killsteal.globalCooldown"),
		EnableHotkey:         viper.GetString("killsteal.enableHotkey"),
		Hero:                 viper.GetString("killsteal.hero"),
		UseConsoleCommands:   viper.GetBool("killsteal.useConsoleCommands"),
		ConsoleCommandPrefix: viper.GetString("killsteal.consoleCommandPrefix"),
	}
}

// GetHeroAbilities returns the configured ability table for a hero, in
// declaration order. Unknown heroes yield an empty slice.
func GetHeroAbilities(hero string) ([]AbilityConfig, error) {
	var abilities []AbilityConfig
	err := viper.UnmarshalKey("killsteal.abilities."+hero, &abilities)
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling abilities for %s: %w", hero, err)
	}
	return abilities, nil
}

// GetDetectorConfig returns the detector asset paths.
func GetDetectorConfig() DetectorConfig {
	return DetectorConfig{
		WeightsPath: viper.GetString("detector.weightsPath"),
		ConfigPath:  viper.GetString("detector.configPath"),
		ClassesPath: viper.GetString("detector.classesPath"),
	}
}

// GetStorageConfig returns the history storage settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}
