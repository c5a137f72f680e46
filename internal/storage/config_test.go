package storage

import (
	"os"
	"testing"
)

func TestLoadDynamoConfigDefaults(t *testing.T) {
	os.Clearenv()

	cfg := LoadDynamoConfig()
	if cfg.Mode != DynamoModeNone {
		t.Errorf("mode = %s, want none", cfg.Mode)
	}
	if cfg.CallRecordsTable != "hotline-call-records" {
		t.Errorf("call records table = %s", cfg.CallRecordsTable)
	}
	if cfg.AgentDailyTable != "hotline-agent-daily-stats" {
		t.Errorf("agent daily table = %s", cfg.AgentDailyTable)
	}
}

func TestLoadDynamoConfigInvalidModeFallsBack(t *testing.T) {
	os.Clearenv()
	os.Setenv("DYNAMO_MODE", "bogus")

	cfg := LoadDynamoConfig()
	if cfg.Mode != DynamoModeNone {
		t.Errorf("mode = %s, want none for invalid value", cfg.Mode)
	}
}

func TestLoadDynamoConfigLocal(t *testing.T) {
	os.Clearenv()
	os.Setenv("DYNAMO_MODE", "local")
	os.Setenv("DYNAMO_ENDPOINT", "http://localhost:9999")

	cfg := LoadDynamoConfig()
	if cfg.Mode != DynamoModeLocal {
		t.Errorf("mode = %s, want local", cfg.Mode)
	}
	if cfg.Endpoint != "http://localhost:9999" {
		t.Errorf("endpoint = %s", cfg.Endpoint)
	}
}
