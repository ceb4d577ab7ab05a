package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suPer8Hu/chat-studio/internal/activity"
	"github.com/suPer8Hu/chat-studio/internal/config"
	"github.com/suPer8Hu/chat-studio/internal/db"
	"github.com/suPer8Hu/chat-studio/internal/observability"
	"github.com/suPer8Hu/chat-studio/internal/store/rabbitmq"
)

const (
	maxRetries   = 3
	retryDelay   = 5 * time.Second
	retryHeader  = "x-retry-count"
	recordBudget = 10 * time.Second
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		observability.Logger().Fatal("load config", "err", err)
	}
	logger := observability.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		logger.Info("no .env file found, using environment variables")
	}
	if cfg.RabbitURL == "" {
		logger.Fatal("RABBIT_URL is required for the worker")
	}

	// sqlite unless the log store itself lives in mysql
	driver := "sqlite"
	if cfg.LogStore == "mysql" {
		driver = "mysql"
	}
	gdb, err := db.Open(driver, cfg.DBDSN)
	if err != nil {
		logger.Fatal("open database", "err", err)
	}
	rec, err := activity.NewRecorder(gdb)
	if err != nil {
		logger.Fatal("migrate activity", "err", err)
	}

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		logger.Fatal("rabbit dial", "err", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("rabbit channel", "err", err)
	}
	defer ch.Close()

	if err := rabbitmq.DeclareQueues(ch, cfg.RabbitQueue); err != nil {
		logger.Fatal("queue declare", "err", err)
	}

	//  strict concurrency control
	concurrency := cfg.WorkerConcurrency
	if err := ch.Qos(concurrency, 0, false); err != nil {
		logger.Fatal("qos", "err", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatal("consume", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("worker started", "queue", cfg.RabbitQueue, "concurrency", concurrency)

	w := &worker{rec: rec, ch: ch, queue: cfg.RabbitQueue, log: logger}

	// worker pool
	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				w.handle(ctx, workerID, d)
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				logger.Warn("delivery channel closed")
				close(jobs)
				wg.Wait()
				return
			}
			jobs <- d
		}
	}
}

type worker struct {
	mu    sync.Mutex // amqp channel publishes
	rec   *activity.Recorder
	ch    *amqp.Channel
	queue string
	log   *log.Logger
}

func (w *worker) handle(ctx context.Context, workerID int, d amqp.Delivery) {
	log := w.log.With("worker", workerID, "message_id", d.MessageId)

	ev, err := rabbitmq.DecodeEvent(d.Body)
	if err != nil || ev.SessionID == "" {
		log.Warn("bad message", "err", err)
		_ = d.Nack(false, false)
		return
	}

	start := time.Now()
	rctx, cancel := context.WithTimeout(ctx, recordBudget)
	err = w.rec.Record(rctx, ev)
	cancel()
	if err == nil {
		if err := d.Ack(false); err != nil {
			log.Error("ack failed", "err", err)
		}
		return
	}

	attempt := retryCount(d.Headers)
	log.Warn("record failed", "session_id", ev.SessionID, "attempt", attempt, "cost", time.Since(start), "err", err)
	if attempt >= maxRetries {
		_ = d.Nack(false, false) // to DLQ
		return
	}
	if err := w.retry(ctx, d, attempt+1); err != nil {
		log.Error("schedule retry failed", "err", err)
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

// retry republishes d on the retry queue, whose TTL dead-letters it back
// to the main queue.
func (w *worker) retry(ctx context.Context, d amqp.Delivery, attempt int) error {
	headers := amqp.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers[retryHeader] = int32(attempt)

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ch.PublishWithContext(ctx, "", w.queue+".retry", false, false, amqp.Publishing{
		ContentType:  d.ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    d.MessageId,
		Type:         d.Type,
		Headers:      headers,
		Body:         d.Body,
		Timestamp:    d.Timestamp,
		Expiration:   strconv.FormatInt(retryDelay.Milliseconds(), 10),
	})
}

func retryCount(h amqp.Table) int {
	switch v := h[retryHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
