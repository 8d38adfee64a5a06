package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMySQL = "mysql"
)

type Config struct {
	DataDir      string
	StoreBackend string
	RedisAddr    string
	MySQLDSN     string
	AMQPURL      string
	HTTPAddr     string
	GRPCAddr     string
	LogLevel     string
	LogFormat    string
}

// Load reads an optional .env file from the working directory, then the
// environment. Unset variables take their defaults.
func Load() (Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}

	cfg := Config{
		DataDir:      getenv("DATA_DIR", "."),
		StoreBackend: getenv("STORE_BACKEND", BackendFile),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
		MySQLDSN:     getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/delivery?parseTime=true"),
		AMQPURL:      os.Getenv("AMQP_URL"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		GRPCAddr:     getenv("GRPC_ADDR", ":50051"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFormat:    getenv("LOG_FORMAT", "console"),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendFile, BackendRedis, BackendMySQL:
		return nil
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
