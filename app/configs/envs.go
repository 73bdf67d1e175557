package configs

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ENV struct {
	Port   string
	AppEnv string
	AppURL string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret string
	JWTTTL    time.Duration

	PaymentGateway       string
	GatewayTimeout       time.Duration
	GatewayCurrency      string
	SSLCommerzStoreID    string
	SSLCommerzStorePass  string
	SSLCommerzIsSandbox  bool
	SSLCommerzVerifySign bool
	MidtransServerKey    string
	MidtransClientKey    string
	MidtransIsProduction bool

	EmailHost     string
	EmailPort     string
	EmailUsername string
	EmailPassword string
	EmailFrom     string

	InfobipBaseURL string
	InfobipAPIKey  string
	InfobipSender  string

	NotifyQueue   string
	NotifyWorkers int
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_URL", "http://127.0.0.1:8000")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("JWT_TTL_MINUTES", 100)
	v.SetDefault("PAYMENT_GATEWAY", "sslcommerz")
	v.SetDefault("GATEWAY_TIMEOUT_SECONDS", 15)
	v.SetDefault("GATEWAY_CURRENCY", "BDT")
	v.SetDefault("SSLCOMMERZ_IS_SANDBOX", true)
	v.SetDefault("EMAIL_PORT", "587")
	v.SetDefault("NOTIFY_QUEUE", "memory")
	v.SetDefault("NOTIFY_WORKERS", 2)
	v.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("MINIO_BUCKET", "momentum")
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	emailFrom := v.GetString("EMAIL_FROM")
	if emailFrom == "" {
		emailFrom = v.GetString("EMAIL_USERNAME")
	}

	return ENV{
		Port:                 v.GetString("APP_PORT"),
		AppEnv:               v.GetString("APP_ENV"),
		AppURL:               strings.TrimRight(v.GetString("APP_URL"), "/"),
		DBHost:               v.GetString("DB_HOST"),
		DBUser:               v.GetString("DB_USER"),
		DBPassword:           v.GetString("DB_PASSWORD"),
		DBName:               v.GetString("DB_NAME"),
		DBPort:               v.GetString("DB_PORT"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTTTL:               time.Duration(v.GetInt("JWT_TTL_MINUTES")) * time.Minute,
		PaymentGateway:       strings.ToLower(v.GetString("PAYMENT_GATEWAY")),
		GatewayTimeout:       time.Duration(v.GetInt("GATEWAY_TIMEOUT_SECONDS")) * time.Second,
		GatewayCurrency:      v.GetString("GATEWAY_CURRENCY"),
		SSLCommerzStoreID:    v.GetString("SSLCOMMERZ_STORE_ID"),
		SSLCommerzStorePass:  v.GetString("SSLCOMMERZ_STORE_PASS"),
		SSLCommerzIsSandbox:  v.GetBool("SSLCOMMERZ_IS_SANDBOX"),
		SSLCommerzVerifySign: v.GetBool("SSLCOMMERZ_VERIFY_SIGN"),
		MidtransServerKey:    v.GetString("MIDTRANS_SERVER_KEY"),
		MidtransClientKey:    v.GetString("MIDTRANS_CLIENT_KEY"),
		MidtransIsProduction: v.GetBool("MIDTRANS_IS_PRODUCTION"),
		EmailHost:            v.GetString("EMAIL_HOST"),
		EmailPort:            v.GetString("EMAIL_PORT"),
		EmailUsername:        v.GetString("EMAIL_USERNAME"),
		EmailPassword:        v.GetString("EMAIL_PASSWORD"),
		EmailFrom:            emailFrom,
		InfobipBaseURL:       v.GetString("INFOBIP_BASE_URL"),
		InfobipAPIKey:        v.GetString("INFOBIP_API_KEY"),
		InfobipSender:        v.GetString("INFOBIP_SENDER"),
		NotifyQueue:          strings.ToLower(v.GetString("NOTIFY_QUEUE")),
		NotifyWorkers:        v.GetInt("NOTIFY_WORKERS"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisDB:              v.GetInt("REDIS_DB"),
		MinioEndpoint:        v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:       v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:       v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:          v.GetString("MINIO_BUCKET"),
		MinioUseSSL:          v.GetBool("MINIO_USE_SSL"),
		MinioPublicURL:       minioPublicURL(v),
	}

}

func minioPublicURL(v *viper.Viper) string {
	if u := v.GetString("MINIO_PUBLIC_URL"); u != "" {
		return strings.TrimRight(u, "/")
	}
	scheme := "http"
	if v.GetBool("MINIO_USE_SSL") {
		scheme = "https"
	}
	return scheme + "://" + v.GetString("MINIO_ENDPOINT")
}

func (e ENV) IsProduction() bool {
	return strings.EqualFold(e.AppEnv, "production")
}
