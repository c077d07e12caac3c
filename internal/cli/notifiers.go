package cli

import (
	"masrofi/internal/amqp"
	"masrofi/internal/config"
	"masrofi/internal/log"
	"masrofi/internal/notify"
)

// Outbound builds the notifier for fired alerts and scheduled reminders.
// With AMQP configured they are queued for the worker; otherwise they are
// mailed directly when SMTP is set. Everything is logged as well. The
// returned client is nil when AMQP is disabled or unreachable.
func Outbound(cfg *config.Config, logger *log.Logger) (notify.Notifier, *amqp.Client) {
	out := notify.Multi{notify.NewLogNotifier()}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without queue", log.FieldError, err)
		} else {
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
			return append(out, client), client
		}
	}

	if cfg.EmailEnabled() {
		out = append(out, emailNotifier(cfg))
		logger.Info("Email notifications enabled", "smtp_host", cfg.SMTPHost)
	}
	return out, nil
}

// Delivery builds the notifier the worker hands queued messages to.
func Delivery(cfg *config.Config) notify.Notifier {
	if cfg.EmailEnabled() {
		return notify.Multi{notify.NewLogNotifier(), emailNotifier(cfg)}
	}
	return notify.NewLogNotifier()
}

func emailNotifier(cfg *config.Config) *notify.EmailNotifier {
	return notify.NewEmailNotifier(notify.EmailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.NotifyEmailFrom,
		To:       notify.SplitAddresses(cfg.NotifyEmailTo),
	})
}
