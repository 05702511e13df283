package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/config"
	"github.com/bosk-dev/work-hours/backend/internal/logging"
	"github.com/bosk-dev/work-hours/backend/internal/notify"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"
)

func main() {
	/**********************************************
	 * Configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		logger.Warn("invalid log settings, using defaults", "error", err)
	}
	slog.SetDefault(logger)

	if cfg.RabbitMQ.DSN == "" {
		logger.Error("RABBITMQ_DSN is required by the notifier")
		os.Exit(1)
	}

	/**********************************************
	 * Mail client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("failed to create mail client", "error", err)
		return
	}
	defer client.Close()

	dialCtx, dialCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer dialCancel()
	if err := client.DialWithContext(dialCtx); err != nil {
		logger.Error("failed to connect to mail server", "host", cfg.Email.SMTP.Host, "error", err)
		return
	}

	from := cfg.Email.From
	if from == "" {
		from = cfg.Email.SMTP.Username
	}
	worker := &notify.Worker{
		Composer: &notify.Composer{
			From:         from,
			Recipients:   cfg.Email.Recipients,
			DashboardURL: cfg.Email.DashboardURL,
		},
		Sender: client,
		Logger: logger,
	}

	/**********************************************
	 * RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", "error", err)
		return
	}
	defer ch.Close()

	q, err := notify.DeclareQueue(ch, cfg.RabbitMQ.Queue)
	if err != nil {
		logger.Error("failed to declare queue", "queue", cfg.RabbitMQ.Queue, "error", err)
		return
	}

	msgs, err := ch.Consume(
		q.Name,
		"",    // consumer tag assigned by the broker
		false, // manual ack
		false, // exclusive
		false, // no local
		false, // no wait
		nil,
	)
	if err != nil {
		logger.Error("failed to consume queue", "queue", q.Name, "error", err)
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("delivery channel closed")
					sigChan <- syscall.SIGTERM
					return
				}

				switch worker.Handle(ctx, msg.Body) {
				case notify.Ack:
					_ = msg.Ack(false)
				case notify.Reject:
					_ = msg.Nack(false, false)
				default:
					_ = msg.Nack(false, true)
				}
			}
		}
	}()

	logger.Info("waiting for form events", "queue", q.Name)
	<-sigChan

	logger.Info("shutting down notifier")
	cancel()
	wg.Wait()
	logger.Info("notifier stopped")
}
