package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host               string
		Port               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	BackendConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	RedisConfig struct {
		Address    string
		Password   string
		DB         int
		SessionTTL time.Duration
	}

	B2Config struct {
		KeyID  string
		AppKey string
		Bucket string
	}

	GradingConfig struct {
		MinGrade float64
		MaxGrade float64
	}

	SubmissionConfig struct {
		AllowLate bool
		// BodyLimit caps the size of a submission request, e.g. "10M".
		BodyLimit string
	}

	Config struct {
		Debug           bool
		TestMode        bool
		Env             string
		Build           string
		AppName         string
		SecretKey       string
		FrontendBaseURL string
		DefaultFrom     mail.Address
		RollbarToken    string
		SendgridApiKey  string
		LogFile         string
		BoltPath        string
		WorkDir         string

		Server     ServerConfig
		Backend    BackendConfig
		Database   DatabaseConfig
		Redis      RedisConfig
		B2         B2Config
		Grading    GradingConfig
		Submission SubmissionConfig
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// NewConfig reads the configuration from defaults, an optional `config/.env.<env>` file
// and the environment (prefixed by the env name, e.g. `DEV_SERVER_PORT`).
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "Courses")
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("defaultFromName", "Courses")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("logFile", "")
	v.SetDefault("boltPath", "")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.debugHost", "0.0.0.0:4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 12*time.Hour)

	v.SetDefault("backend.baseURL", "http://localhost:8080")
	v.SetDefault("backend.timeout", 5*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "courses")
	v.SetDefault("database.user", "courses")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.sessionTTL", 12*time.Hour)

	v.SetDefault("b2.keyID", "")
	v.SetDefault("b2.appKey", "")
	v.SetDefault("b2.bucket", "")

	v.SetDefault("grading.minGrade", 0.0)
	v.SetDefault("grading.maxGrade", 100.0)
	v.SetDefault("submission.allowLate", true)
	v.SetDefault("submission.bodyLimit", "10M")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetDefault("testMode", env == "TEST")
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		Env:             env,
		Build:           v.GetString("build"),
		AppName:         v.GetString("appName"),
		SecretKey:       v.GetString("secretKey"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		DefaultFrom:     mail.Address{Name: v.GetString("defaultFromName"), Address: v.GetString("defaultFromEmail")},
		RollbarToken:    v.GetString("rollbarToken"),
		SendgridApiKey:  v.GetString("sendgridApiKey"),
		LogFile:         v.GetString("logFile"),
		BoltPath:        v.GetString("boltPath"),
		WorkDir:         wd,
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Port:               v.GetString("server.port"),
			DebugHost:          v.GetString("server.debugHost"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
		},
		Backend: BackendConfig{
			BaseURL: v.GetString("backend.baseURL"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Redis: RedisConfig{
			Address:    v.GetString("redis.address"),
			Password:   v.GetString("redis.password"),
			DB:         v.GetInt("redis.db"),
			SessionTTL: v.GetDuration("redis.sessionTTL"),
		},
		B2: B2Config{
			KeyID:  v.GetString("b2.keyID"),
			AppKey: v.GetString("b2.appKey"),
			Bucket: v.GetString("b2.bucket"),
		},
		Grading: GradingConfig{
			MinGrade: v.GetFloat64("grading.minGrade"),
			MaxGrade: v.GetFloat64("grading.maxGrade"),
		},
		Submission: SubmissionConfig{
			AllowLate: v.GetBool("submission.allowLate"),
			BodyLimit: v.GetString("submission.bodyLimit"),
		},
	}
	if conf.Grading.MinGrade > conf.Grading.MaxGrade {
		log.Fatal(fmt.Sprintf("config: grading.minGrade (%v) > grading.maxGrade (%v)", conf.Grading.MinGrade, conf.Grading.MaxGrade))
	}
	return conf
}

// NewTestConfig returns the configuration used by tests: no external services, TEST mode.
func NewTestConfig() *Config {
	return &Config{
		Debug:       true,
		TestMode:    true,
		Env:         "TEST",
		Build:       "test",
		AppName:     "Courses",
		SecretKey:   "test-secret",
		DefaultFrom: mail.Address{Name: "Courses", Address: "noreply@localhost"},
		Server: ServerConfig{
			JWTExpirationDelta: time.Hour,
			ShutdownTimeout:    time.Second,
		},
		Backend:    BackendConfig{Timeout: 5 * time.Second},
		Redis:      RedisConfig{SessionTTL: time.Hour},
		Grading:    GradingConfig{MinGrade: 0, MaxGrade: 100},
		Submission: SubmissionConfig{AllowLate: true, BodyLimit: "1M"},
	}
}
