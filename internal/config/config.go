package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば最優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	JWTSecret string // JWT署名シークレット

	GoEnv string // dev/prod

	KafkaBrokers string // 空ならイベント送信しない

	OrderStatusPolicy string // open / terminal

	ScheduleTimezone *time.Location
	RestDays         []time.Weekday
}

const (
	PolicyOpen     = "open"
	PolicyTerminal = "terminal"
)

// .envがあれば読み込む（既にある環境変数は上書きしない）
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env", "../.env"}
	}
	for _, p := range paths {
		err := godotenv.Load(p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("godotenv.Load[%s]: %w", p, err)
		}
	}
	return nil
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port:            getenv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		PostgresSSLMode: getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv:        getenv("GO_ENV", "dev"),
		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),

		OrderStatusPolicy: strings.ToLower(getenv("ORDER_STATUS_POLICY", PolicyOpen)),
	}

	//DATABASE_URLが無いときだけPOSTGRES_*を必須にする
	if cfg.DatabaseURL == "" {
		pgPort, err := mustAtoi("POSTGRES_PORT")
		if err != nil {
			return Config{}, err
		}
		cfg.PostgresPort = pgPort
		cfg.PostgresUser = os.Getenv("POSTGRES_USER")
		cfg.PostgresPassword = os.Getenv("POSTGRES_PASSWORD")
		cfg.PostgresDB = os.Getenv("POSTGRES_DB")
		cfg.PostgresHost = os.Getenv("POSTGRES_HOST")

		if cfg.PostgresUser == "" {
			return Config{}, fmt.Errorf("POSTGRES_USER is required")
		}
		if cfg.PostgresPassword == "" {
			return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if cfg.PostgresDB == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
		if cfg.PostgresHost == "" {
			return Config{}, fmt.Errorf("POSTGRES_HOST is required")
		}
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.OrderStatusPolicy {
	case PolicyOpen, PolicyTerminal:
	default:
		return Config{}, fmt.Errorf("ORDER_STATUS_POLICY must be %q or %q", PolicyOpen, PolicyTerminal)
	}

	loc, err := time.LoadLocation(getenv("SCHEDULE_TIMEZONE", "Africa/Cairo"))
	if err != nil {
		return Config{}, fmt.Errorf("SCHEDULE_TIMEZONE: %w", err)
	}
	cfg.ScheduleTimezone = loc

	restDays, err := ParseWeekdays(getenv("SCHEDULE_REST_DAYS", "Fri,Sat"))
	if err != nil {
		return Config{}, fmt.Errorf("SCHEDULE_REST_DAYS: %w", err)
	}
	cfg.RestDays = restDays

	return cfg, nil
}

// gorm用のDSN
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// "Fri,Sat" のような曜日リストを読む
func ParseWeekdays(s string) ([]time.Weekday, error) {
	var out []time.Weekday
	seen := map[time.Weekday]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if len(part) > 3 {
			part = part[:3]
		}
		wd, ok := weekdayNames[part]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		if !seen[wd] {
			seen[wd] = true
			out = append(out, wd)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one weekday is required")
	}
	return out, nil
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
