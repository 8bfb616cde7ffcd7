package core

import (
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env              string `mapstructure:"env"`
		Build            string `mapstructure:"build"`
		Debug            bool   `mapstructure:"debug"`
		TestMode         bool   `mapstructure:"testMode"`
		AppName          string `mapstructure:"appName"`
		SecretKey        string `mapstructure:"secretKey"`
		DefaultFromAddr  string `mapstructure:"defaultFromEmail"`
		RollbarToken     string `mapstructure:"rollbarToken"`
		SendgridAPIKey   string `mapstructure:"sendgridApiKey"`
		Timezone         string `mapstructure:"timezone"`
		FrontendBaseURL  string `mapstructure:"frontendBaseUrl"`
		Server           ServerConfig
		Database         DatabaseConfig
		Admin            AdminConfig
		Library          LibraryConfig
		Log              LogConfig
		location         *time.Location
	}

	ServerConfig struct {
		Host                      string        `mapstructure:"host"`
		Port                      int           `mapstructure:"port"`
		DebugHost                 string        `mapstructure:"debugHost"`
		ReadTimeout               time.Duration `mapstructure:"readTimeout"`
		WriteTimeout              time.Duration `mapstructure:"writeTimeout"`
		ShutdownTimeout           time.Duration `mapstructure:"shutdownTimeout"`
		JWTExpirationDelta        time.Duration `mapstructure:"jwtExpirationDelta"`
		JWTRefreshExpirationDelta time.Duration `mapstructure:"jwtRefreshExpirationDelta"`
		DisableReqLogs            bool          `mapstructure:"disableReqLogs"`
	}

	DatabaseConfig struct {
		Engine        string `mapstructure:"engine"` // postgres | pgx | sqlite
		Host          string `mapstructure:"host"`
		Port          int    `mapstructure:"port"`
		Name          string `mapstructure:"name"`
		User          string `mapstructure:"user"`
		Password      string `mapstructure:"password"`
		AdminUser     string `mapstructure:"adminUser"`
		AdminPassword string `mapstructure:"adminPassword"`
		DisableTLS    bool   `mapstructure:"disableTLS"`
		Path          string `mapstructure:"path"` // sqlite only
		MaxOpenConns  int    `mapstructure:"maxOpenConns"`
		AutoCreate    bool   `mapstructure:"autoCreate"`
	}

	AdminConfig struct {
		Email        string `mapstructure:"email"`
		PasswordHash string `mapstructure:"passwordHash"`
	}

	LibraryConfig struct {
		FineRate   string        `mapstructure:"fineRate"`
		Currency   string        `mapstructure:"currency"`
		LoanPeriod time.Duration `mapstructure:"loanPeriod"`

		FineRatePerDay Money `mapstructure:"-"`
	}

	LogConfig struct {
		Level  string `mapstructure:"level"`
		Pretty bool   `mapstructure:"pretty"`
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "DEV")
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "School Management System")
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("defaultFromEmail", "School Office <noreply@localhost>")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("timezone", "Europe/London")
	v.SetDefault("frontendBaseUrl", "http://localhost:3000")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.debugHost", "0.0.0.0:4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 5*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 8*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "school")
	v.SetDefault("database.user", "school")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.path", "school.db")
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.autoCreate", false)

	v.SetDefault("admin.email", "admin@localhost")
	v.SetDefault("admin.passwordHash", "")

	v.SetDefault("library.fineRate", "0.50")
	v.SetDefault("library.currency", "GBP")
	v.SetDefault("library.loanPeriod", 14*24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// NewConfig reads the configuration for the current environment.
// ENV selects the environment: DEV (local; default), TEST, QA, PROD.
func NewConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	v.Set("env", env)
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}

	// load .env if it exists (ignore if it does not)
	confDir := os.Getenv("CONFIG_DIR")
	if confDir == "" {
		confDir = "config"
	}
	dotEnvPath := filepath.Join(confDir, ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := conf.init(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) init() error {
	rate, err := ParseMoney(c.Library.FineRate)
	if err != nil {
		return errors.Wrap(err, "parsing library.fineRate")
	}
	c.Library.FineRatePerDay = rate

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return errors.Wrapf(err, "loading timezone %q", c.Timezone)
	}
	c.location = loc
	return nil
}

// Location is the school's local timezone; "today" is always computed in it.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.DefaultFromAddr)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: c.DefaultFromAddr}
	}
	return *addr
}

// LoanDays is the default loan length in whole days.
func (c LibraryConfig) LoanDays() int {
	return int(c.LoanPeriod / (24 * time.Hour))
}

func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewTestConfig returns the configuration used by tests: sqlite, no request logs, fixed timezone.
func NewTestConfig() *Config {
	v := viper.New()
	setDefaults(v)
	v.Set("env", "TEST")
	v.Set("testMode", true)
	v.Set("debug", false)
	v.Set("timezone", "UTC")
	v.Set("database.engine", "sqlite")
	v.Set("server.disableReqLogs", true)
	v.Set("admin.email", "admin@school.test")

	conf := new(Config)
	_ = v.Unmarshal(conf)
	_ = conf.init()
	return conf
}
