package cmd

import (
	"context"
	"fmt"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/configs"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/handlers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/handlers/admin"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/repositories"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/routes"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/services"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/utils/renderer"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type container struct {
	router  *mux.Router
	cleanup []func()
}

func (c *container) Close() {
	for i := len(c.cleanup) - 1; i >= 0; i-- {
		c.cleanup[i]()
	}
}

func newEmailSender(env configs.ENV) services.EmailSender {
	if env.EmailHost == "" {
		return nil
	}
	return services.NewMailer(services.MailConfig{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
	})
}

func newSMSSender(env configs.ENV) services.SMSSender {
	if env.InfobipBaseURL == "" || env.InfobipAPIKey == "" {
		return nil
	}
	return services.NewInfobipSMS(services.InfobipConfig{
		BaseURL: env.InfobipBaseURL,
		APIKey:  env.InfobipAPIKey,
		Sender:  env.InfobipSender,
	}, configs.NewGatewayHTTPClient(env))
}

func newDeliverer(env configs.ENV, log *zap.Logger) *services.Deliverer {
	return services.NewDeliverer(newSMSSender(env), newEmailSender(env), log)
}

func newGateway(env configs.ENV) (services.PaymentGateway, error) {
	switch env.PaymentGateway {
	case "", "sslcommerz":
		return services.NewSSLCommerzGateway(services.SSLCommerzConfig{
			StoreID:   env.SSLCommerzStoreID,
			StorePass: env.SSLCommerzStorePass,
			IsSandbox: env.SSLCommerzIsSandbox,
		}, configs.NewGatewayHTTPClient(env)), nil
	case "midtrans":
		return services.NewMidtransGateway(configs.NewMidtransSnapClient(env)), nil
	default:
		return nil, fmt.Errorf("unknown PAYMENT_GATEWAY %q", env.PaymentGateway)
	}
}

// newNotifier returns the notifier and a function that releases it.
func newNotifier(env configs.ENV, log *zap.Logger) (services.Notifier, func(), error) {
	switch env.NotifyQueue {
	case "", "memory":
		n := services.NewAsyncNotifier(newDeliverer(env, log), env.NotifyWorkers, 100, log)
		return n, n.Close, nil
	case "redis":
		client := configs.NewRedisClient(env)
		return services.NewRedisQueue(client, services.DefaultNotifyQueueKey, log), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown NOTIFY_QUEUE %q", env.NotifyQueue)
	}
}

func newBlobStore(ctx context.Context, env configs.ENV, log *zap.Logger) services.BlobStore {
	if env.MinioEndpoint == "" {
		log.Warn("MINIO_ENDPOINT not set, uploads are disabled")
		return nil
	}
	client, err := configs.NewMinioClient(env)
	if err != nil {
		log.Error("failed to create minio client, uploads are disabled", zap.Error(err))
		return nil
	}
	store := services.NewMinioStore(client, env.MinioBucket, env.MinioPublicURL)
	if err := store.EnsureBucket(ctx); err != nil {
		log.Warn("bucket check failed", zap.String("bucket", env.MinioBucket), zap.Error(err))
	}
	return store
}

func buildContainer(ctx context.Context, env configs.ENV, db *gorm.DB, log *zap.Logger) (*container, error) {
	c := &container{}

	userRepo := repositories.NewUserRepository(db)
	brandRepo := repositories.NewBrandRepository(db)
	productRepo := repositories.NewProductRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	orderItemRepo := repositories.NewOrderItemRepository(db)
	billRepo := repositories.NewBillRepository(db)

	gateway, err := newGateway(env)
	if err != nil {
		return nil, err
	}
	notifier, closeNotifier, err := newNotifier(env, log)
	if err != nil {
		return nil, err
	}
	c.cleanup = append(c.cleanup, closeNotifier)

	stock := services.NewStockEngine(productRepo, orderItemRepo, log)
	authSvc := services.NewAuthService(userRepo, newEmailSender(env), env.JWTSecret, env.JWTTTL, env.AppURL, log)
	accountSvc := services.NewAccountService(userRepo, log)
	catalogSvc := services.NewCatalogService(brandRepo, productRepo, log)
	orderSvc := services.NewOrderService(db, productRepo, orderRepo, orderItemRepo, billRepo, brandRepo, stock, env.AppURL, log)
	paymentSvc := services.NewPaymentService(db, orderRepo, billRepo, userRepo, stock, gateway, notifier, services.PaymentConfig{
		BaseURL:  env.AppURL,
		Currency: env.GatewayCurrency,
		Timeout:  env.GatewayTimeout,
	}, log)
	searchSvc := services.NewSearchService(productRepo, services.KeywordParser{}, services.KeywordRanker{}, log)
	uploadSvc := services.NewUploadService(newBlobStore(ctx, env, log), productRepo, log)

	var verify handlers.WebhookVerifier
	if env.SSLCommerzVerifySign {
		verify = handlers.SSLCommerzVerifier(env.SSLCommerzStorePass)
	}

	rnd := renderer.New(!env.IsProduction())
	v := validator.New()

	c.router = routes.NewRouter(routes.Handlers{
		Auth:    handlers.NewAuthHandler(rnd, authSvc, v, log),
		Profile: handlers.NewProfileHandler(rnd, accountSvc, v, log),
		Catalog: handlers.NewCatalogHandler(rnd, catalogSvc, v, log),
		Orders:  handlers.NewOrderHandler(rnd, orderSvc, v, log),
		Payment: handlers.NewPaymentHandler(rnd, paymentSvc, v, verify, log),
		Search:  handlers.NewSearchHandler(rnd, searchSvc, log),
		Upload:  handlers.NewUploadHandler(rnd, uploadSvc, log),
		Admin:   admin.NewAdminHandler(rnd, v, accountSvc, catalogSvc, orderSvc, log),
	}, authSvc, rnd, log)

	return c, nil
}

func newWorker(env configs.ENV, log *zap.Logger) (*services.RedisQueue, *redis.Client) {
	client := configs.NewRedisClient(env)
	return services.NewRedisQueue(client, services.DefaultNotifyQueueKey, log), client
}
