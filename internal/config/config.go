package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr       string
	Port             string
	GinMode          string
	DatabaseDriver   string
	DatabasePath     string
	DatabaseDSN      string
	DatabaseLogLevel string
	StagingDir       string
	SessionSecret    string
	OwnerUserName    string
	OwnerPassword    string
	AllowedOrigins   []string
	Timezone         *time.Location
}

// LoginEnabled 配置了所有者账号时开启登录保护
func (c AppConfig) LoginEnabled() bool {
	return c.OwnerUserName != "" && c.OwnerPassword != ""
}

// Load 读取 .env、daytrack.yaml 与 DAYTRACK_* 环境变量，并为缺失项提供默认值。
func Load() AppConfig {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[config] ignore .env: %v", err)
	}

	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("[config] ignore config file: %v", err)
		}
	}

	return fromViper(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("daytrack")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DAYTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("listen_addr", "")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/daytrack.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("staging.dir", "data/json")
	v.SetDefault("session.secret", "daytrack-dev-secret")
	v.SetDefault("owner.username", "")
	v.SetDefault("owner.password", "")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("timezone", "")

	return v
}

func fromViper(v *viper.Viper) AppConfig {
	port := strings.TrimSpace(v.GetString("port"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(v.GetString("listen_addr"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	return AppConfig{
		ListenAddr:       listenAddr,
		Port:             port,
		GinMode:          strings.TrimSpace(v.GetString("gin_mode")),
		DatabaseDriver:   strings.TrimSpace(v.GetString("database.driver")),
		DatabasePath:     strings.TrimSpace(v.GetString("database.path")),
		DatabaseDSN:      strings.TrimSpace(v.GetString("database.dsn")),
		DatabaseLogLevel: strings.TrimSpace(v.GetString("database.log_level")),
		StagingDir:       strings.TrimSpace(v.GetString("staging.dir")),
		SessionSecret:    strings.TrimSpace(v.GetString("session.secret")),
		OwnerUserName:    strings.TrimSpace(v.GetString("owner.username")),
		OwnerPassword:    strings.TrimSpace(v.GetString("owner.password")),
		AllowedOrigins:   splitOrigins(v.GetStringSlice("cors.allowed_origins")),
		Timezone:         loadLocation(v.GetString("timezone")),
	}
}

// splitOrigins 兼容环境变量里用逗号分隔的写法
func splitOrigins(values []string) []string {
	origins := make([]string, 0, len(values))
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			trimmed := strings.TrimSpace(item)
			if trimmed == "" {
				continue
			}
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func loadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[config] unknown timezone %q, falling back to local: %v", name, err)
		return time.Local
	}
	return loc
}
