package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"STORE_BACKEND", "STORE_TIMEOUT", "CACHE_TTL", "HTTP_PORT", "PG_MAX_OPEN_CONNS", "RABBITMQ_URI", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StoreBackend != BackendPostgres {
		t.Errorf("expected postgres backend, got %q", cfg.StoreBackend)
	}
	if cfg.StoreTimeout != 10*time.Second || cfg.CacheTTL != 5*time.Minute {
		t.Errorf("unexpected durations: %v %v", cfg.StoreTimeout, cfg.CacheTTL)
	}
	if cfg.PgMaxOpenConns != 10 || cfg.HttpPort != "8084" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.RabbitUri != "" || cfg.RedisAddr != "" {
		t.Errorf("expected optional integrations disabled, got %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "dynamodb")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("DYNAMO_TABLE", "skus-dev")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("OUTBOX_BATCH_SIZE", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StoreBackend != BackendDynamoDB || cfg.DynamoTable != "skus-dev" {
		t.Errorf("unexpected backend config: %+v", cfg)
	}
	if cfg.StoreTimeout != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", cfg.StoreTimeout)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("expected redis db 3, got %d", cfg.RedisDB)
	}
	if cfg.OutboxBatchSize != 100 {
		t.Errorf("expected invalid int to fall back to 100, got %d", cfg.OutboxBatchSize)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown backend", "STORE_BACKEND", "mongodb"},
		{"bad timeout", "STORE_TIMEOUT", "soon"},
		{"negative ttl", "CACHE_TTL", "-1s"},
		{"zero ttl", "CACHE_TTL", "0s"},
		{"zero timeout", "STORE_TIMEOUT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}
