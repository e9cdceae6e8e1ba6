package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/xzhHas/contentflow/types"
)

const (
	// EnvBrokerURL 覆盖配置文件中的服务器地址
	EnvBrokerURL = "P2P_AMQP_URL"
	// EnvSettings 指定配置文件路径
	EnvSettings     = "CONTENTFLOW_SETTINGS"
	DefaultSettings = "contentflow.toml"
)

// Load 读取 TOML 配置文件；文件不存在时返回空 Config
func Load(path string) (types.Config, error) {
	var cfg types.Config
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("%w: %s: %v", types.ErrConfiguration, path, err)
	}
	return cfg, nil
}

// SettingsPath 依次取 explicit、$CONTENTFLOW_SETTINGS、默认路径
func SettingsPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvSettings); p != "" {
		return p
	}
	return DefaultSettings
}

// ResolveBrokerURL 依次从 explicit、$P2P_AMQP_URL、配置文件中取服务器地址
func ResolveBrokerURL(explicit, settingsPath string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if v := os.Getenv(EnvBrokerURL); v != "" {
		return v, nil
	}
	cfg, err := Load(SettingsPath(settingsPath))
	if err != nil {
		return "", err
	}
	if cfg.Broker.URL != "" {
		return cfg.Broker.URL, nil
	}
	return "", fmt.Errorf("%w: no broker address; set %s or [broker] url in %s",
		types.ErrConfiguration, EnvBrokerURL, SettingsPath(settingsPath))
}
