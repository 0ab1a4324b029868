package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Name != "shiftfill" {
		t.Errorf("App.Name = %s", cfg.App.Name)
	}
	if cfg.App.Port != 7031 {
		t.Errorf("App.Port = %d", cfg.App.Port)
	}
	if cfg.Engine.Solver != "branch_and_bound" {
		t.Errorf("Engine.Solver = %s", cfg.Engine.Solver)
	}
	if cfg.Dataset.Source != "csv" {
		t.Errorf("Dataset.Source = %s", cfg.Dataset.Source)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("ENGINE_SOLVER", "greedy")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != 8080 {
		t.Errorf("App.Port = %d, want 8080", cfg.App.Port)
	}
	if cfg.Engine.Solver != "greedy" {
		t.Errorf("Engine.Solver = %s, want greedy", cfg.Engine.Solver)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("ENGINE_SOLVER", "simulated_annealing")

	if _, err := Load(); err == nil {
		t.Error("非法求解器取值应校验失败")
	}
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db.local", Port: 5432, User: "u", Password: "p", Name: "shiftfill", SSLMode: "disable",
	}
	want := "host=db.local port=5432 user=u password=p dbname=shiftfill sslmode=disable"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %s", got)
	}
}
