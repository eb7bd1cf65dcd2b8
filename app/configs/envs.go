package configs

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type ENV struct {
	AppEnv string
	AppURL string
	Port   string

	DBDriver   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	AppAuthKey      string
	AppEncKey       string
	JWTSecret       string
	CSRFEnabled     bool
	AllowedOrigins  []string
	StorefrontOrder string

	PaymentGateway    string
	PaymentCurrency   string
	SSLCommerzStoreID string
	SSLCommerzPass    string
	SSLCommerzSandbox bool
	SSLCommerzBaseURL string

	MidtransServerKey  string
	MidtransClientKey  string
	MidtransProduction bool

	RabbitMQURL   string
	OrderExchange string

	EmailHost     string
	EmailPort     string
	EmailUsername string
	EmailPassword string
	EmailFrom     string
}

func LoadEnv() ENV {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		AppEnv: getEnv("APP_ENV", "development"),
		AppURL: strings.TrimRight(getEnv("APP_URL", "http://localhost:8000"), "/"),
		Port:   getEnv("APP_PORT", ":8000"),

		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "foodie"),
		DBPort:     getEnv("DB_PORT", "3306"),

		AppAuthKey:      os.Getenv("APP_AUTH_KEY"),
		AppEncKey:       os.Getenv("APP_ENC_KEY"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		CSRFEnabled:     getEnvBool("CSRF_ENABLED", true),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		StorefrontOrder: getEnv("STOREFRONT_ORDER_URL", "https://foodie-delight-frontend.vercel.app/order.html"),

		PaymentGateway:    getEnv("PAYMENT_GATEWAY", "sslcommerz"),
		PaymentCurrency:   getEnv("PAYMENT_CURRENCY", "BDT"),
		SSLCommerzStoreID: os.Getenv("SSLCOMMERZ_STORE_ID"),
		SSLCommerzPass:    os.Getenv("SSLCOMMERZ_STORE_PASS"),
		SSLCommerzSandbox: getEnvBool("SSLCOMMERZ_SANDBOX", true),
		SSLCommerzBaseURL: os.Getenv("SSLCOMMERZ_BASE_URL"),

		MidtransServerKey:  os.Getenv("MIDTRANS_SERVER_KEY"),
		MidtransClientKey:  os.Getenv("MIDTRANS_CLIENT_KEY"),
		MidtransProduction: getEnvBool("MIDTRANS_PRODUCTION", false),

		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		OrderExchange: getEnv("ORDER_EXCHANGE", "orders_exchange"),

		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailPort:     getEnv("EMAIL_PORT", "587"),
		EmailUsername: os.Getenv("EMAIL_USERNAME"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     getEnv("EMAIL_FROM", os.Getenv("EMAIL_USERNAME")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("LoadEnv: invalid boolean for %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
