package configs

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func NewMidtransSnapClient(env ENV) *snap.Client {
	var client snap.Client
	environment := midtrans.Sandbox
	if env.MidtransIsProduction {
		environment = midtrans.Production
	}
	client.New(env.MidtransServerKey, environment)
	return &client
}

func NewGatewayHTTPClient(env ENV) *http.Client {
	return &http.Client{Timeout: env.GatewayTimeout}
}

func NewRedisClient(env ENV) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})
}

func NewMinioClient(env ENV) (*minio.Client, error) {
	return minio.New(env.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(env.MinioAccessKey, env.MinioSecretKey, ""),
		Secure: env.MinioUseSSL,
	})
}
