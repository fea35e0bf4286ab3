package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Upload  UploadConfig  `mapstructure:"upload"`
	OCR     OCRConfig     `mapstructure:"ocr"`
	MRZ     MRZConfig     `mapstructure:"mrz"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

type ServerConfig struct {
	Host               string        `mapstructure:"host"`
	Port               string        `mapstructure:"port"`
	Debug              bool          `mapstructure:"debug"`
	Environment        string        `mapstructure:"environment"`
	MaxMultipartMemory int64         `mapstructure:"max_multipart_memory"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
}

// StorageConfig holds the filesystem locations shared by all requests.
type StorageConfig struct {
	UploadDir     string `mapstructure:"upload_dir"`
	EditDir       string `mapstructure:"edit_dir"`
	CountriesFile string `mapstructure:"countries_file"`
}

type UploadConfig struct {
	// KeepOnFailure leaves the saved upload on disk when a request fails.
	KeepOnFailure bool `mapstructure:"keep_on_failure"`
}

type OCRConfig struct {
	TessdataPrefix string        `mapstructure:"tessdata_prefix"`
	Language       string        `mapstructure:"language"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type MRZConfig struct {
	EngineMode int     `mapstructure:"engine_mode"`
	BandRatio  float64 `mapstructure:"band_ratio"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// LoadConfig reads defaults, an optional passport-reader.yaml and PASSPORT_*
// environment variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PASSPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("passport-reader")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/passport-reader")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the request pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("storage.upload_dir must not be empty")
	}
	if c.Storage.EditDir == "" {
		return fmt.Errorf("storage.edit_dir must not be empty")
	}
	if c.MRZ.BandRatio <= 0 || c.MRZ.BandRatio > 1 {
		return fmt.Errorf("mrz.band_ratio must be in (0, 1], got %v", c.MRZ.BandRatio)
	}
	if c.OCR.Timeout < 0 {
		return fmt.Errorf("ocr.timeout must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.debug", true)
	v.SetDefault("server.environment", EnvDevelopment)
	v.SetDefault("server.max_multipart_memory", int64(32<<20))
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)

	v.SetDefault("storage.upload_dir", "/uploads")
	v.SetDefault("storage.edit_dir", "/edit")
	v.SetDefault("storage.countries_file", "countries.json")

	v.SetDefault("upload.keep_on_failure", false)

	v.SetDefault("ocr.tessdata_prefix", "/usr/share/tesseract-ocr/5/tessdata/")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.timeout", 60*time.Second)

	v.SetDefault("mrz.engine_mode", 0)
	v.SetDefault("mrz.band_ratio", 0.4)

	v.SetDefault("cors.allowed_origins", []string{"*"})
}
