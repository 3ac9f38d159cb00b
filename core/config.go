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

type Config struct {
	AppName          string
	Env              string // DEV (default), TEST, QA, PROD
	Build            string
	Debug            bool
	TestMode         bool
	WorkDir          string
	SecretKey        []byte
	FrontendBaseURL  string
	DefaultFromEmail mail.Address

	SendgridApiKey string
	RollbarToken   string

	Server struct {
		Host                      string
		Address                   string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		SessionTTL                time.Duration
		PasswordResetTimeoutDelta time.Duration
	}

	Store struct {
		Engine  string // jsonfile (default) | postgres | inmem
		DataDir string // jsonfile engine only
	}

	Database struct {
		Engine     string
		Name       string
		User       string
		Password   string
		Host       string
		Port       string
		DisableTLS bool
	}

	Redis struct {
		Addr     string // empty: in-memory session registry
		Password string
		DB       int
	}

	Grading struct {
		MaxTotal      int
		MaxPerSubject int
		Scale         string // ordered "grade:min" pairs, highest first
	}
}

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Gradeboard")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "8gp$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy-poq5wer")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddress", ":5001")
	v.SetDefault("serverDebugHost", "localhost:4000")
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("sessionTTL", 24*time.Hour)
	v.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	v.SetDefault("storeEngine", "jsonfile")
	v.SetDefault("storeDataDir", filepath.Join(Getwd(), "assets", "data"))
	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseName", "gradeboard")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("redisAddr", "")
	v.SetDefault("redisDB", 0)
	v.SetDefault("gradingMaxTotal", 500)
	v.SetDefault("gradingMaxPerSubject", 100)
	v.SetDefault("gradingScale", "A+:90,A:80,B:70,C:60,D:40,F:0")

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		AppName:          v.GetString("appName"),
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		WorkDir:          Getwd(),
		SecretKey:        []byte(v.GetString("secretKey")),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
	}
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.Address = v.GetString("serverAddress")
	conf.Server.DebugHost = v.GetString("serverDebugHost")
	conf.Server.ShutdownTimeout = v.GetDuration("shutdownTimeout")
	conf.Server.JWTExpirationDelta = v.GetDuration("jwtExpirationDelta")
	conf.Server.SessionTTL = v.GetDuration("sessionTTL")
	conf.Server.PasswordResetTimeoutDelta = v.GetDuration("passwordResetTimeoutDelta")
	conf.Store.Engine = v.GetString("storeEngine")
	conf.Store.DataDir = v.GetString("storeDataDir")
	conf.Database.Engine = v.GetString("databaseEngine")
	conf.Database.Name = v.GetString("databaseName")
	conf.Database.User = v.GetString("databaseUser")
	conf.Database.Password = v.GetString("databasePassword")
	conf.Database.Host = v.GetString("databaseHost")
	conf.Database.Port = v.GetString("databasePort")
	conf.Database.DisableTLS = v.GetBool("databaseDisableTLS")
	conf.Redis.Addr = v.GetString("redisAddr")
	conf.Redis.Password = v.GetString("redisPassword")
	conf.Redis.DB = v.GetInt("redisDB")
	conf.Grading.MaxTotal = v.GetInt("gradingMaxTotal")
	conf.Grading.MaxPerSubject = v.GetInt("gradingMaxPerSubject")
	conf.Grading.Scale = v.GetString("gradingScale")
	return conf
}

func (conf *Config) DatabaseAddress() string {
	return fmt.Sprintf("%s:%s", conf.Database.Host, conf.Database.Port)
}
