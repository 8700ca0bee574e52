package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Document  DocumentConfig
	Company   CompanyConfig
	Printer   PrinterConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name      string
	Env       string
	Port      string
	PublicURL string
	LogLevel  string
	// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-* headers are
	// honored. Empty trusts no proxy.
	TrustedProxies []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type AuthConfig struct {
	AdminPassword string
	JWTSecret     string
	TokenExpiry   time.Duration
}

// DocumentConfig points at the assets the delivery-note renderer needs.
type DocumentConfig struct {
	FontDir  string
	LogoFile string
	LogoPath string
	Timezone string
}

// CompanyConfig is the letterhead printed on every delivery note.
type CompanyConfig struct {
	Name    string
	Street  string
	City    string
	Country string
	Phone   string
	Email   string
	Website string
}

type PrinterConfig struct {
	Type      string
	Format    string
	USBPath   string
	Address   string
	SlipWidth int
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests      int
	Duration      int
	LoginRequests int
	LoginDuration int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "cactus-admin-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_PUBLIC_URL", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "cactus")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Europe/Berlin")
	viper.SetDefault("ADMIN_PASSWORD", "cactus-admin")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("DOCUMENT_FONT_DIR", "./public/fonts")
	viper.SetDefault("DOCUMENT_LOGO_FILE", "./public/cactus-logo.png")
	viper.SetDefault("DOCUMENT_LOGO_PATH", "/cactus-logo.png")
	viper.SetDefault("DOCUMENT_TIMEZONE", "Europe/Berlin")
	viper.SetDefault("COMPANY_NAME", "Cactus Großhandel")
	viper.SetDefault("COMPANY_STREET", "Holzeckstraße 1")
	viper.SetDefault("COMPANY_CITY", "78224 Singen (Hohentwiel)")
	viper.SetDefault("COMPANY_COUNTRY", "Deutschland")
	viper.SetDefault("COMPANY_PHONE", "+49 15568 538598")
	viper.SetDefault("COMPANY_EMAIL", "info@cactusgrosshandel.com")
	viper.SetDefault("COMPANY_WEBSITE", "www.cactusgrosshandel.com")
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_FORMAT", "pdf")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_SLIP_WIDTH", 48)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 60)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("RATE_LIMIT_LOGIN_REQUESTS", 5)
	viper.SetDefault("RATE_LIMIT_LOGIN_DURATION", 60)
	viper.SetDefault("TRUSTED_PROXIES", "")

	return &Config{
		App: AppConfig{
			Name:      viper.GetString("APP_NAME"),
			Env:       viper.GetString("APP_ENV"),
			Port:      viper.GetString("APP_PORT"),
			PublicURL: viper.GetString("APP_PUBLIC_URL"),
			LogLevel:  viper.GetString("LOG_LEVEL"),

			TrustedProxies: list("TRUSTED_PROXIES"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Auth: AuthConfig{
			AdminPassword: viper.GetString("ADMIN_PASSWORD"),
			JWTSecret:     viper.GetString("JWT_SECRET"),
			TokenExpiry:   time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Document: DocumentConfig{
			FontDir:  viper.GetString("DOCUMENT_FONT_DIR"),
			LogoFile: viper.GetString("DOCUMENT_LOGO_FILE"),
			LogoPath: viper.GetString("DOCUMENT_LOGO_PATH"),
			Timezone: viper.GetString("DOCUMENT_TIMEZONE"),
		},
		Company: CompanyConfig{
			Name:    viper.GetString("COMPANY_NAME"),
			Street:  viper.GetString("COMPANY_STREET"),
			City:    viper.GetString("COMPANY_CITY"),
			Country: viper.GetString("COMPANY_COUNTRY"),
			Phone:   viper.GetString("COMPANY_PHONE"),
			Email:   viper.GetString("COMPANY_EMAIL"),
			Website: viper.GetString("COMPANY_WEBSITE"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			Format:    viper.GetString("PRINTER_FORMAT"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			SlipWidth: viper.GetInt("PRINTER_SLIP_WIDTH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: list("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: list("CORS_ALLOWED_METHODS"),
			AllowedHeaders: list("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests:      viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration:      viper.GetInt("RATE_LIMIT_DURATION"),
			LoginRequests: viper.GetInt("RATE_LIMIT_LOGIN_REQUESTS"),
			LoginDuration: viper.GetInt("RATE_LIMIT_LOGIN_DURATION"),
		},
	}
}

// list reads a comma or space separated value.
func list(key string) []string {
	out := []string{}
	for _, v := range viper.GetStringSlice(key) {
		out = append(out, strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' '
		})...)
	}
	return out
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
