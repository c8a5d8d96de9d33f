package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	SMTP       SMTPConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	// Timezone is the local zone of the site where the RFID readers are
	// installed. Firmware timestamps arrive without a zone offset and are
	// interpreted in this zone; the daily cutoff is evaluated in it too.
	Timezone string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// AttendanceConfig holds the knobs for the daily cleanup sweep and the
// low-attendance audit.
type AttendanceConfig struct {
	// CleanupHour is the local hour (0-23) at which incomplete sessions
	// for the current day are discarded.
	CleanupHour int
	// AuditHour is the local hour at which the low-attendance check runs.
	AuditHour int
	// MinDailyHours is the threshold below which a user is flagged.
	MinDailyHours float64
	// AdminEmails receives the aggregate low-attendance report.
	AdminEmails []string
}

func Load() (*Config, error) {
	// .env is optional; deployments may set the environment directly.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendee"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "3000"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("APP_TIMEZONE", "Asia/Kolkata"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "24h"),
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("EMAIL_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMAIL_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("EMAIL_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("EMAIL_USER", ""),
		Password: getEnv("EMAIL_PASS", ""),
		From:     getEnv("EMAIL_FROM", getEnv("EMAIL_USER", "")),
		FromName: getEnv("EMAIL_FROM_NAME", "Attendee System"),
	}

	// Attendance configuration
	cleanupHour, err := strconv.Atoi(getEnv("ATTENDANCE_CLEANUP_HOUR", "22"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_CLEANUP_HOUR: %w", err)
	}
	auditHour, err := strconv.Atoi(getEnv("ATTENDANCE_AUDIT_HOUR", "23"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_AUDIT_HOUR: %w", err)
	}
	minHours, err := strconv.ParseFloat(getEnv("ATTENDANCE_MIN_DAILY_HOURS", "2.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_MIN_DAILY_HOURS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		CleanupHour:   cleanupHour,
		AuditHour:     auditHour,
		MinDailyHours: minHours,
		AdminEmails:   getEnvSlice("ADMIN_EMAILS"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.CleanupHour < 0 || c.Attendance.CleanupHour > 23 {
		return fmt.Errorf("ATTENDANCE_CLEANUP_HOUR must be between 0 and 23")
	}
	if c.Attendance.AuditHour < 0 || c.Attendance.AuditHour > 23 {
		return fmt.Errorf("ATTENDANCE_AUDIT_HOUR must be between 0 and 23")
	}
	if c.Attendance.MinDailyHours <= 0 {
		return fmt.Errorf("ATTENDANCE_MIN_DAILY_HOURS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
