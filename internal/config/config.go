package config

import (
    "errors"
    "fmt"
    "os"
    "time"

    "github.com/spf13/viper"

    "github.com/jaminalder/tic-tac-gomoku/internal/domain"
)

// Config holds process settings read from an env file and the environment.
type Config struct {
    Addr      string        `mapstructure:"ADDR"`
    OuterSize int           `mapstructure:"OUTER_SIZE"`
    WinLength int           `mapstructure:"WIN_LENGTH"`
    Heartbeat time.Duration `mapstructure:"HEARTBEAT"`
    LogLevel  string        `mapstructure:"LOG_LEVEL"`
    Dev       bool          `mapstructure:"DEV"`
}

func setDefaults(v *viper.Viper) {
    rules := domain.DefaultConfig()
    v.SetDefault("ADDR", ":8080")
    v.SetDefault("OUTER_SIZE", rules.OuterSize)
    v.SetDefault("WIN_LENGTH", rules.WinLength)
    v.SetDefault("HEARTBEAT", 15*time.Second)
    v.SetDefault("LOG_LEVEL", "info")
    v.SetDefault("DEV", false)
}

// Setup loads cfgPath if it exists, then lets environment variables
// override it. A missing file is not an error.
func Setup(cfgPath string) (*Config, error) {
    v := viper.New()
    setDefaults(v)
    v.AutomaticEnv()

    if cfgPath != "" {
        _, err := os.Stat(cfgPath)
        switch {
        case err == nil:
            v.SetConfigFile(cfgPath)
            v.SetConfigType("env")
            if err := v.ReadInConfig(); err != nil {
                return nil, fmt.Errorf("read %s: %w", cfgPath, err)
            }
        case !errors.Is(err, os.ErrNotExist):
            return nil, err
        }
    }

    var cfg Config
    if err := v.Unmarshal(&cfg); err != nil {
        return nil, err
    }
    if _, err := cfg.Rules(); err != nil {
        return nil, err
    }
    return &cfg, nil
}

// Rules returns the board settings as a validated rules config.
func (c Config) Rules() (domain.Config, error) {
    rules := domain.Config{OuterSize: c.OuterSize, WinLength: c.WinLength}
    if err := rules.Validate(); err != nil {
        return domain.Config{}, err
    }
    return rules, nil
}
