package config

import (
	"fmt"
	"strings"
	"time"
)

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[cpfledger]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// URL returns the base URL clients use to reach the server.
func (s *Server) URL() string { return fmt.Sprintf("%s://%s", s.Scheme, s.Addr()) }

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Ledger holds settings of the statement engine.
type Ledger struct {
	// Timezone is the IANA zone in which transaction days are compared.
	Timezone string `envconfig:"TIMEZONE" default:"UTC"`
}

// Location resolves Timezone.
func (l *Ledger) Location() (*time.Location, error) {
	if l == nil || strings.TrimSpace(l.Timezone) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("ledger timezone %q: %w", l.Timezone, err)
	}
	return loc, nil
}

type Kafka struct {
	Brokers      string        `envconfig:"BROKERS" default:"localhost:9092"`
	TopicPrefix  string        `envconfig:"TOPIC_PREFIX" default:"cpfledger.events"`
	SASLUsername string        `envconfig:"SASL_USERNAME"`
	SASLPassword string        `envconfig:"SASL_PASSWORD"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
}

// Redis configures the Redis Streams event bus.
type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	StreamPrefix string        `envconfig:"STREAM_PREFIX" default:"cpfledger"`
	Group        string        `envconfig:"GROUP" default:"cpfledger"`
	Block        time.Duration `envconfig:"BLOCK" default:"5s"`
}

const (
	EventBusDriverMemory = "memory"
	EventBusDriverKafka  = "kafka"
	EventBusDriverRedis  = "redis"
)

type EventBus struct {
	Driver string `envconfig:"DRIVER" default:"memory"`
	Kafka  *Kafka `envconfig:"KAFKA"`
	Redis  *Redis `envconfig:"REDIS"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	Ledger    *Ledger    `envconfig:"LEDGER"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	EventBus  *EventBus  `envconfig:"EVENTBUS"`
}

// Validate checks the values envconfig cannot express as tags.
func (a *App) Validate() error {
	if _, err := a.Ledger.Location(); err != nil {
		return err
	}
	switch a.EventBus.Driver {
	case EventBusDriverMemory, EventBusDriverKafka, EventBusDriverRedis:
	default:
		return fmt.Errorf("unknown event bus driver %q", a.EventBus.Driver)
	}
	if a.RateLimit.MaxRequests < 0 {
		return fmt.Errorf("rate limit max requests must not be negative")
	}
	return nil
}
