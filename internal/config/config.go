package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		URL string `mapstructure:"url"`
		// MapFile aponta para o databases.json com o mapa code -> DSN.
		MapFile string `mapstructure:"map_file"`
	} `mapstructure:"database"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	App struct {
		Name string `mapstructure:"name"`
		// RootEmpresa é o código da empresa raiz; cargo "admin" dentro dela
		// vira superadmin no momento da emissão do token.
		RootEmpresa   string `mapstructure:"root_empresa"`
		RootEmpresaID int    `mapstructure:"root_empresa_id"`
	} `mapstructure:"app"`
	JWT struct {
		SecretKey      string        `mapstructure:"secret_key"`
		AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	} `mapstructure:"jwt"`
	CORS struct {
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	} `mapstructure:"cors"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Mailer struct {
		Type string `mapstructure:"type"` // "log", "smtp" ou "ses"
	} `mapstructure:"mailer"`
	SMTP     SMTPConfig `mapstructure:"smtp"`
	SES      SESConfig  `mapstructure:"ses"`
	Frontend struct {
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"frontend"`
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	AuthType        string `mapstructure:"auth_type"` // "iam_role" ou "static_credentials"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	From            string `mapstructure:"from"`
}

var Cfg Config

// weakSecretKeys são segredos conhecidos de templates/exemplos que nunca
// podem chegar em produção.
var weakSecretKeys = []string{
	"sua-chave-secreta-super-segura-mude-isso-em-producao",
	"mudar-em-producao-gerar-com-openssl-rand-hex-32",
	"secret",
	"changeme",
}

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("jwt.secret_key", "SECRET_KEY")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using environment variables.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// --- Defaults ---
	if Cfg.Server.Port == "" {
		Cfg.Server.Port = ":8080"
	}
	if Cfg.App.Name == "" {
		Cfg.App.Name = "petshop-api"
	}
	if Cfg.App.RootEmpresa == "" {
		Cfg.App.RootEmpresa = "teste"
	}
	if Cfg.App.RootEmpresaID == 0 {
		Cfg.App.RootEmpresaID = 1
	}
	if Cfg.JWT.AccessTokenTTL == 0 {
		Cfg.JWT.AccessTokenTTL = time.Hour
	}
	if Cfg.Database.MapFile == "" {
		Cfg.Database.MapFile = "databases.json"
	}
	if Cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}

	if err := ValidateSecretKey(Cfg.JWT.SecretKey); err != nil {
		return err
	}

	log.Println("Config loaded successfully")
	return nil
}

// ValidateSecretKey rejeita segredos curtos ou de lista de exemplos.
// Falha aqui derruba o processo na inicialização.
func ValidateSecretKey(key string) error {
	if len(key) < 32 {
		return fmt.Errorf("jwt.secret_key must be at least 32 bytes, got %d (generate one with: openssl rand -hex 32)", len(key))
	}
	lower := strings.ToLower(key)
	for _, weak := range weakSecretKeys {
		if lower == weak {
			return fmt.Errorf("jwt.secret_key is a known placeholder value; generate a real secret with: openssl rand -hex 32")
		}
	}
	return nil
}
