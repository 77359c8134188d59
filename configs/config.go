package configs

import (
	"log"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config struct
type Config struct {
	App    `mapstructure:"app"`
	Ollama `mapstructure:"ollama"`
}

// App struct
type App struct {
	Debug bool   `mapstructure:"debug"`
	Env   string `mapstructure:"env"`
	Port  string `mapstructure:"port"`
}

// Ollama struct - upstream inference server settings
type Ollama struct {
	BaseURL      string  `mapstructure:"base_url"`
	Model        string  `mapstructure:"model"`
	Timeout      int     `mapstructure:"timeout"`
	SystemPrompt string  `mapstructure:"system_prompt"`
	Temperature  float64 `mapstructure:"temperature"`
	TopP         float64 `mapstructure:"top_p"`
}

var config Config

// InitViper func
func InitViper(path, env string) {
	getConfig(path, env)
}

// GetViper func
func GetViper() *Config {
	return &config
}

func getConfig(path, env string) {
	viper.SetConfigName("config")
	viper.AddConfigPath(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()
	err := viper.ReadInConfig()
	if err != nil {
		// Config file is optional; env vars and defaults cover everything
		log.Println("No config file found, using environment and defaults: ", err)
	}
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Println("Config file has changed: ", e.Name)
	})
	err = viper.Unmarshal(&config)
	if err != nil {
		log.Fatalln(err)
	}
}

func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.port", "3001")
	viper.SetDefault("ollama.base_url", "http://localhost:11434")
	viper.SetDefault("ollama.model", "gemma3:1b")
	viper.SetDefault("ollama.timeout", 120)
	viper.SetDefault("ollama.temperature", 0.7)
	viper.SetDefault("ollama.top_p", 0.9)
	viper.SetDefault("ollama.system_prompt", defaultSystemPrompt)
}

// defaultSystemPrompt is injected as the first message of every upstream
// conversation. Kept short so it costs few prompt tokens on small models.
const defaultSystemPrompt = "You are a helpful assistant. Format your responses in plain text. " +
	"Use short paragraphs. When the user references attached images you only see their " +
	"filenames and types, not the image contents; say so if asked about visual details."
