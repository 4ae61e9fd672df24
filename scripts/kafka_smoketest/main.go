package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	infra_eventbus "github.com/amirasaad/cpfledger/infra/eventbus"
	"github.com/amirasaad/cpfledger/pkg/config"
	"github.com/amirasaad/cpfledger/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// RunSmokeTest publishes a ledger event through the Kafka event bus and reads
// it back from its topic to verify a local cluster end to end.
func RunSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := config.GetEnv("BROKERS", "localhost:9092")
	groupID := config.GetEnv("GROUP_ID", "cpfledger-smoketest")
	prefix := config.GetEnv("TOPIC_PREFIX", "cpfledger.smoketest")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := infra_eventbus.DefaultKafkaEventBusConfig()
	cfg.TopicPrefix = prefix
	bus, err := infra_eventbus.NewWithKafka(ctx, brokers, logger, cfg)
	if err != nil {
		logger.Error("connect failed", "error", err)
		return err
	}
	defer func() { _ = bus.Close() }()

	sent := events.DepositMade{
		AccountEvent: events.AccountEvent{
			AccountID: uuid.New(),
			CPF:       "00000000000",
			Timestamp: time.Now().UTC(),
		},
		Description: "smoke test",
		Amount:      decimal.NewFromInt(1),
		Balance:     decimal.NewFromInt(1),
	}
	if err := bus.Emit(ctx, sent); err != nil {
		logger.Error("emit failed", "error", err)
		return err
	}
	topic := infra_eventbus.TopicName(prefix, events.EventTypeDepositMade)
	logger.Info("produced", "topic", topic, "account_id", sent.AccountID)

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     strings.Split(brokers, ","),
		GroupID:     groupID,
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
	})
	defer func() { _ = r.Close() }()

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			logger.Error("fetch failed", "topic", topic, "error", err)
			return err
		}
		_ = r.CommitMessages(ctx, msg)

		decoded, err := infra_eventbus.DecodeEnvelope(msg.Value)
		if err != nil {
			return fmt.Errorf("decode %s: %w", topic, err)
		}
		got, ok := decoded.(*events.DepositMade)
		if !ok || got.AccountID != sent.AccountID {
			// left over from an earlier run
			continue
		}
		logger.Info("consumed", "topic", topic, "key", string(msg.Key), "amount", got.Amount.String())
		break
	}

	logger.Info("kafka smoke test passed")
	return nil
}

func main() {
	if err := RunSmokeTest(); err != nil {
		os.Exit(1)
	}
}
