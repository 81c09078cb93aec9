package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileName is the file Load looks for in the config directory.
const ConfigFileName = "simcore.cfg.json"

// VehicleStatsConfig holds the base stats of one vehicle kind.
type VehicleStatsConfig struct {
	MaxDurability     int     `json:"maxDurability" mapstructure:"maxDurability"`
	Speed             float64 `json:"speed" mapstructure:"speed"`
	VisionRange       float64 `json:"visionRange" mapstructure:"visionRange"`
	GroundAttackRange float64 `json:"groundAttackRange" mapstructure:"groundAttackRange"`
	AerialAttackRange float64 `json:"aerialAttackRange" mapstructure:"aerialAttackRange"`
	GroundDamage      int     `json:"groundDamage" mapstructure:"groundDamage"`
	AerialDamage      int     `json:"aerialDamage" mapstructure:"aerialDamage"`
	GroundDefence     int     `json:"groundDefence" mapstructure:"groundDefence"`
	AerialDefence     int     `json:"aerialDefence" mapstructure:"aerialDefence"`
}

// RulesConfig holds the game constants the simulation core is parameterized by.
type RulesConfig struct {
	MapSize                   float64
	Eps                       float64
	VehicleRadius             float64
	AttackCooldownTicks       int
	RepairPoints              int
	RepairRange               float64
	NuclearStrikeRadius       float64
	NuclearStrikeMaxDamage    float64
	NuclearStrikeDelay        int
	SwampTerrainSpeedFactor   float64
	ForestTerrainSpeedFactor  float64
	ForestTerrainVisionFactor float64
	CloudWeatherSpeedFactor   float64
	CloudWeatherVisionFactor  float64
	RainWeatherSpeedFactor    float64
	RainWeatherVisionFactor   float64
	Vehicles                  map[string]VehicleStatsConfig
}

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage backend settings
type SQLiteConfig struct {
	DumpInterval time.Duration
	DumpDir      string
}

// WebsocketConfig holds streaming backend settings
type WebsocketConfig struct {
	URL    string
	Secret string
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	Type          string
	FlushInterval time.Duration
	Memory        MemoryConfig
	SQLite        SQLiteConfig
	Websocket     WebsocketConfig
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// InfluxConfig holds InfluxDB tick-metrics settings
type InfluxConfig struct {
	Enabled    bool
	URL        string
	Token      string
	Org        string
	Bucket     string
	BackupPath string
}

// APIConfig points at the run archive server that receives exports
type APIConfig struct {
	Enabled   bool
	ServerURL string
	APIKey    string
}

// MonitorConfig controls the status file written during a run
type MonitorConfig struct {
	Enabled  bool
	Interval time.Duration
}

// RecorderConfig controls what the runner records
type RecorderConfig struct {
	StateInterval int
	Tag           string
}

// vehicleDefaults are the per-kind stats of the reference engine.
var vehicleDefaults = map[string]VehicleStatsConfig{
	"arrv": {
		MaxDurability: 100, Speed: 0.4, VisionRange: 60,
		GroundDefence: 50, AerialDefence: 20,
	},
	"fighter": {
		MaxDurability: 100, Speed: 1.2, VisionRange: 120,
		AerialAttackRange: 20, AerialDamage: 100,
		GroundDefence: 70, AerialDefence: 70,
	},
	"helicopter": {
		MaxDurability: 100, Speed: 0.9, VisionRange: 100,
		GroundAttackRange: 20, AerialAttackRange: 18, GroundDamage: 100, AerialDamage: 80,
		GroundDefence: 40, AerialDefence: 40,
	},
	"ifv": {
		MaxDurability: 100, Speed: 0.4, VisionRange: 80,
		GroundAttackRange: 18, AerialAttackRange: 20, GroundDamage: 90, AerialDamage: 80,
		GroundDefence: 60, AerialDefence: 80,
	},
	"tank": {
		MaxDurability: 100, Speed: 0.3, VisionRange: 80,
		GroundAttackRange: 20, AerialAttackRange: 18, GroundDamage: 100, AerialDamage: 60,
		GroundDefence: 80, AerialDefence: 60,
	},
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./simlogs")

	d := DefaultRulesConfig()
	viper.SetDefault("rules.mapSize", d.MapSize)
	viper.SetDefault("rules.eps", d.Eps)
	viper.SetDefault("rules.vehicleRadius", d.VehicleRadius)
	viper.SetDefault("rules.attackCooldownTicks", d.AttackCooldownTicks)
	viper.SetDefault("rules.repairPoints", d.RepairPoints)
	viper.SetDefault("rules.repairRange", d.RepairRange)
	viper.SetDefault("rules.nuclearStrikeRadius", d.NuclearStrikeRadius)
	viper.SetDefault("rules.nuclearStrikeMaxDamage", d.NuclearStrikeMaxDamage)
	viper.SetDefault("rules.nuclearStrikeDelay", d.NuclearStrikeDelay)
	viper.SetDefault("rules.swampTerrainSpeedFactor", d.SwampTerrainSpeedFactor)
	viper.SetDefault("rules.forestTerrainSpeedFactor", d.ForestTerrainSpeedFactor)
	viper.SetDefault("rules.forestTerrainVisionFactor", d.ForestTerrainVisionFactor)
	viper.SetDefault("rules.cloudWeatherSpeedFactor", d.CloudWeatherSpeedFactor)
	viper.SetDefault("rules.cloudWeatherVisionFactor", d.CloudWeatherVisionFactor)
	viper.SetDefault("rules.rainWeatherSpeedFactor", d.RainWeatherSpeedFactor)
	viper.SetDefault("rules.rainWeatherVisionFactor", d.RainWeatherVisionFactor)
	for name, s := range vehicleDefaults {
		prefix := "rules.vehicles." + name + "."
		viper.SetDefault(prefix+"maxDurability", s.MaxDurability)
		viper.SetDefault(prefix+"speed", s.Speed)
		viper.SetDefault(prefix+"visionRange", s.VisionRange)
		viper.SetDefault(prefix+"groundAttackRange", s.GroundAttackRange)
		viper.SetDefault(prefix+"aerialAttackRange", s.AerialAttackRange)
		viper.SetDefault(prefix+"groundDamage", s.GroundDamage)
		viper.SetDefault(prefix+"aerialDamage", s.AerialDamage)
		viper.SetDefault(prefix+"groundDefence", s.GroundDefence)
		viper.SetDefault(prefix+"aerialDefence", s.AerialDefence)
	}

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.flushInterval", "2s")
	viper.SetDefault("storage.memory.outputDir", "./runs")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpInterval", "1m")
	viper.SetDefault("storage.sqlite.dumpDir", "./runs")
	viper.SetDefault("storage.websocket.url", "ws://localhost:5000/api/stream")
	viper.SetDefault("storage.websocket.secret", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "simcore")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.url", "http://localhost:8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "simcore")
	viper.SetDefault("influx.bucket", "sim_ticks")
	viper.SetDefault("influx.backupPath", "./simlogs/influx_backup.lp.gz")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "simcore")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")

	viper.SetDefault("monitor.enabled", true)
	viper.SetDefault("monitor.interval", "1s")

	viper.SetDefault("recorder.stateInterval", 1)
	viper.SetDefault("recorder.tag", "sim")
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetRulesConfig returns the game constants, including one entry per vehicle kind.
func GetRulesConfig() RulesConfig {
	cfg := RulesConfig{
		MapSize:                   viper.GetFloat64("rules.mapSize"),
		Eps:                       viper.GetFloat64("rules.eps"),
		VehicleRadius:             viper.GetFloat64("rules.vehicleRadius"),
		AttackCooldownTicks:       viper.GetInt("rules.attackCooldownTicks"),
		RepairPoints:              viper.GetInt("rules.repairPoints"),
		RepairRange:               viper.GetFloat64("rules.repairRange"),
		NuclearStrikeRadius:       viper.GetFloat64("rules.nuclearStrikeRadius"),
		NuclearStrikeMaxDamage:    viper.GetFloat64("rules.nuclearStrikeMaxDamage"),
		NuclearStrikeDelay:        viper.GetInt("rules.nuclearStrikeDelay"),
		SwampTerrainSpeedFactor:   viper.GetFloat64("rules.swampTerrainSpeedFactor"),
		ForestTerrainSpeedFactor:  viper.GetFloat64("rules.forestTerrainSpeedFactor"),
		ForestTerrainVisionFactor: viper.GetFloat64("rules.forestTerrainVisionFactor"),
		CloudWeatherSpeedFactor:   viper.GetFloat64("rules.cloudWeatherSpeedFactor"),
		CloudWeatherVisionFactor:  viper.GetFloat64("rules.cloudWeatherVisionFactor"),
		RainWeatherSpeedFactor:    viper.GetFloat64("rules.rainWeatherSpeedFactor"),
		RainWeatherVisionFactor:   viper.GetFloat64("rules.rainWeatherVisionFactor"),
		Vehicles:                  make(map[string]VehicleStatsConfig, len(vehicleDefaults)),
	}
	for name := range vehicleDefaults {
		prefix := "rules.vehicles." + name + "."
		cfg.Vehicles[name] = VehicleStatsConfig{
			MaxDurability:     viper.GetInt(prefix + "maxDurability"),
			Speed:             viper.GetFloat64(prefix + "speed"),
			VisionRange:       viper.GetFloat64(prefix + "visionRange"),
			GroundAttackRange: viper.GetFloat64(prefix + "groundAttackRange"),
			AerialAttackRange: viper.GetFloat64(prefix + "aerialAttackRange"),
			GroundDamage:      viper.GetInt(prefix + "groundDamage"),
			AerialDamage:      viper.GetInt(prefix + "aerialDamage"),
			GroundDefence:     viper.GetInt(prefix + "groundDefence"),
			AerialDefence:     viper.GetInt(prefix + "aerialDefence"),
		}
	}
	return cfg
}

// DefaultRulesConfig returns the reference engine constants without touching viper.
func DefaultRulesConfig() RulesConfig {
	cfg := RulesConfig{
		MapSize:                   1024,
		Eps:                       1e-7,
		VehicleRadius:             2,
		AttackCooldownTicks:       60,
		RepairPoints:              20,
		RepairRange:               10,
		NuclearStrikeRadius:       50,
		// damage per unit of distance inside the radius: 99 at the centre of a 50-unit strike
		NuclearStrikeMaxDamage:    99.0 / 50.0,
		NuclearStrikeDelay:        30,
		SwampTerrainSpeedFactor:   0.6,
		ForestTerrainSpeedFactor:  0.8,
		ForestTerrainVisionFactor: 0.8,
		CloudWeatherSpeedFactor:   0.8,
		CloudWeatherVisionFactor:  0.8,
		RainWeatherSpeedFactor:    0.6,
		RainWeatherVisionFactor:   0.6,
		Vehicles:                  make(map[string]VehicleStatsConfig, len(vehicleDefaults)),
	}
	for name, s := range vehicleDefaults {
		cfg.Vehicles[name] = s
	}
	return cfg
}

// GetStorageConfig returns the storage backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:          viper.GetString("storage.type"),
		FlushInterval: viper.GetDuration("storage.flushInterval"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
			DumpDir:      viper.GetString("storage.sqlite.dumpDir"),
		},
		Websocket: WebsocketConfig{
			URL:    viper.GetString("storage.websocket.url"),
			Secret: viper.GetString("storage.websocket.secret"),
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

// GetInfluxConfig returns the InfluxDB settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		URL:        viper.GetString("influx.url"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetAPIConfig returns the run archive server settings.
func GetAPIConfig() APIConfig {
	return APIConfig{
		Enabled:   viper.GetBool("api.enabled"),
		ServerURL: viper.GetString("api.serverUrl"),
		APIKey:    viper.GetString("api.apiKey"),
	}
}

// GetMonitorConfig returns the status monitor settings.
func GetMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Enabled:  viper.GetBool("monitor.enabled"),
		Interval: viper.GetDuration("monitor.interval"),
	}
}

// GetRecorderConfig returns the runner recording settings.
func GetRecorderConfig() RecorderConfig {
	interval := viper.GetInt("recorder.stateInterval")
	if interval < 1 {
		interval = 1
	}
	return RecorderConfig{
		StateInterval: interval,
		Tag:           viper.GetString("recorder.tag"),
	}
}
