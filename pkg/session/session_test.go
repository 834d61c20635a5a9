package session

import (
	"testing"
	"time"

	"github.com/easonai/armorytune/pkg/config"
)

func TestNewClientTimeoutInMinutes(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	sess, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := time.Duration(cfg.DefaultSettings.Timeout) * time.Minute
	if sess.Client.Timeout != want {
		t.Errorf("client timeout = %v, want %v (timeout config is in minutes)", sess.Client.Timeout, want)
	}
}

func TestNewClientTimeoutExplicit(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.DefaultSettings.Timeout = 5

	sess, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if sess.Client.Timeout != 5*time.Minute {
		t.Errorf("client timeout = %v, want 5m", sess.Client.Timeout)
	}
}
