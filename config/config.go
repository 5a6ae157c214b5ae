// Ininicializing common application configuration
package config

import (
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Assets  AssetsConfig  `mapstructure:"assets"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Profile ProfileConfig `mapstructure:"profile"`
	Events  EventsConfig  `mapstructure:"events"`
	Render  RenderConfig  `mapstructure:"render"`
}

type ServerConfig struct {
	AppVersion   string `json:"appVersion"`
	Host         string `json:"host" validate:"required"`
	Port         string `json:"port" validate:"required"`
	Timeout      time.Duration
	Idle_timeout time.Duration
	Env          string `json:"environment"`
	Mode         string `mapstructure:"mode"`
}

type AssetsConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	ItemFolder     string `mapstructure:"item_folder"`
	FontURL        string `mapstructure:"font_url"`
	CategoriesFile string `mapstructure:"categories_file"`
	CategoryProbe  bool   `mapstructure:"category_probe"`
	Preload        bool   `mapstructure:"preload"`
}

// TemplateURL is the one mandatory asset of every render.
func (a AssetsConfig) TemplateURL() string {
	return a.BaseURL + "/template.png"
}

// ItemURL builds the overlay image URL for an item or avatar id.
func (a AssetsConfig) ItemURL(id string) string {
	folder := a.ItemFolder
	if folder == "" {
		folder = "FF%20ITEMS"
	}
	return a.BaseURL + "/" + folder + "/" + id + ".png"
}

type CacheConfig struct {
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
	StaticTTL  time.Duration `mapstructure:"static_ttl"`
}

type FetchConfig struct {
	Attempts     int           `mapstructure:"attempts"`
	Delay        time.Duration `mapstructure:"delay"`
	ImageTimeout time.Duration `mapstructure:"image_timeout"`
	FontTimeout  time.Duration `mapstructure:"font_timeout"`
}

type ProfileConfig struct {
	InfoURL        string           `mapstructure:"info_url"`
	Timeout        time.Duration    `mapstructure:"timeout"`
	AllowedRegions []string         `mapstructure:"allowed_regions"`
	Fallback       FallbackIdentity `mapstructure:"fallback"`
}

// FallbackIdentity is rendered when the player-info API stays down,
// keeping the endpoint available instead of failing the request.
type FallbackIdentity struct {
	AvatarID string   `mapstructure:"avatar_id"`
	Outfits  []string `mapstructure:"outfits"`
	Weapons  []string `mapstructure:"weapons"`
	Pets     []string `mapstructure:"pets"`
	Name     string   `mapstructure:"name"`
}

type EventsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

type RenderConfig struct {
	// RequestTimeout bounds one whole render; 0 disables the deadline.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	err := viperInstance.ReadInConfig()

	if err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		log.Fatalf("unable to decode config into struct, %v", err)
		return nil, err
	}
	return &c, nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
