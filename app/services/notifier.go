package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PaymentNotification is a fully formed confirmation message. Delivering it
// needs no database access.
type PaymentNotification struct {
	OrderID      uint   `json:"order_id"`
	BuyerName    string `json:"buyer_name"`
	BuyerPhone   string `json:"buyer_phone"`
	ArtisanName  string `json:"artisan_name"`
	ArtisanEmail string `json:"artisan_email"`
	Amount       string `json:"amount"`
}

func (n PaymentNotification) SMSText() string {
	return fmt.Sprintf("Dear %s, your order has been confirmed. Thanks for shopping with us.", n.BuyerName)
}

// Notifier hands confirmations off for delivery. It never reports errors to
// the caller; failures are logged.
type Notifier interface {
	Notify(ctx context.Context, n PaymentNotification)
}

type Deliverer struct {
	sms  SMSSender
	mail EmailSender
	log  *zap.Logger
}

func NewDeliverer(sms SMSSender, mail EmailSender, log *zap.Logger) *Deliverer {
	return &Deliverer{sms: sms, mail: mail, log: log}
}

// Deliver sends the buyer SMS and the artisan email concurrently. One failing
// channel does not cancel the other; the first error is returned.
func (d *Deliverer) Deliver(ctx context.Context, n PaymentNotification) error {
	var g errgroup.Group

	if n.BuyerPhone != "" && d.sms != nil {
		g.Go(func() error {
			if err := d.sms.SendSMS(ctx, n.BuyerPhone, n.SMSText()); err != nil {
				d.log.Error("buyer sms failed", zap.Uint("order_id", n.OrderID), zap.Error(err))
				return err
			}
			return nil
		})
	}
	if n.ArtisanEmail != "" && d.mail != nil {
		g.Go(func() error {
			body := BuildNewOrderEmailBody(n.ArtisanName, n.BuyerName, n.OrderID, n.Amount)
			if err := d.mail.SendHTMLEmail(n.ArtisanEmail, "New Order Received", body); err != nil {
				d.log.Error("artisan email failed", zap.Uint("order_id", n.OrderID), zap.Error(err))
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

type AsyncNotifier struct {
	deliverer *Deliverer
	jobs      chan PaymentNotification
	timeout   time.Duration
	log       *zap.Logger
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewAsyncNotifier(deliverer *Deliverer, workers, buffer int, log *zap.Logger) *AsyncNotifier {
	if workers < 1 {
		workers = 1
	}
	if buffer < 1 {
		buffer = 64
	}
	n := &AsyncNotifier{
		deliverer: deliverer,
		jobs:      make(chan PaymentNotification, buffer),
		timeout:   30 * time.Second,
		log:       log,
	}
	n.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go n.work()
	}
	return n
}

func (n *AsyncNotifier) work() {
	defer n.wg.Done()
	for job := range n.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		if err := n.deliverer.Deliver(ctx, job); err != nil {
			n.log.Warn("notification delivery incomplete", zap.Uint("order_id", job.OrderID), zap.Error(err))
		}
		cancel()
	}
}

// Notify enqueues without blocking; a full queue drops the message.
func (n *AsyncNotifier) Notify(_ context.Context, job PaymentNotification) {
	select {
	case n.jobs <- job:
	default:
		n.log.Warn("notification queue full, dropping message", zap.Uint("order_id", job.OrderID))
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (n *AsyncNotifier) Close() {
	n.closeOnce.Do(func() {
		close(n.jobs)
	})
	n.wg.Wait()
}

const DefaultNotifyQueueKey = "momentum:notifications"

type RedisQueue struct {
	client *redis.Client
	key    string
	log    *zap.Logger
}

func NewRedisQueue(client *redis.Client, key string, log *zap.Logger) *RedisQueue {
	if key == "" {
		key = DefaultNotifyQueueKey
	}
	return &RedisQueue{client: client, key: key, log: log}
}

func (q *RedisQueue) Notify(ctx context.Context, job PaymentNotification) {
	payload, err := json.Marshal(job)
	if err != nil {
		q.log.Error("failed to encode notification", zap.Uint("order_id", job.OrderID), zap.Error(err))
		return
	}

	// Detached from the request so a finished response does not cancel the push.
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := q.client.LPush(pushCtx, q.key, payload).Err(); err != nil {
		q.log.Error("failed to enqueue notification", zap.Uint("order_id", job.OrderID), zap.Error(err))
	}
}

// Consume pops messages until ctx is cancelled and delivers each one.
func (q *RedisQueue) Consume(ctx context.Context, deliverer *Deliverer) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		res, err := q.client.BRPop(ctx, 5*time.Second, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			q.log.Error("failed to pop notification", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		if len(res) != 2 {
			continue
		}

		var job PaymentNotification
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			q.log.Error("dropping malformed notification", zap.String("payload", res[1]), zap.Error(err))
			continue
		}

		deliverCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if err := deliverer.Deliver(deliverCtx, job); err != nil {
			q.log.Warn("notification delivery incomplete", zap.Uint("order_id", job.OrderID), zap.Error(err))
		}
		cancel()
	}
}
