package redis

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap/zaptest"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/config"
)

func settingsFor(t *testing.T, mr *miniredis.Miniredis) config.RedisSettings {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("parse miniredis port: %v", err)
	}
	return config.RedisSettings{Host: mr.Host(), Port: port}
}

func TestNewClientHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), settingsFor(t, mr), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	defer client.Close()

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}

	mr.Close()
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatalf("expected health check to fail once redis is gone")
	}
}

func TestNewClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	settings := settingsFor(t, mr)
	mr.Close()

	if _, err := NewClient(context.Background(), settings, nil); err == nil {
		t.Fatalf("expected error for unreachable redis")
	}
}

func TestOptionsTLS(t *testing.T) {
	opts := Options(config.RedisSettings{Host: "cache", Port: 6380, TLSEnabled: true})
	if opts.Addr != "cache:6380" {
		t.Fatalf("unexpected addr %s", opts.Addr)
	}
	if opts.TLSConfig == nil {
		t.Fatalf("expected TLS config when enabled")
	}
}
