package main

import (
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal("Expectation: Error should be nil, Received:", err)
	}
	if cfg.PrincipalHeader != "X-Chatfox-User" {
		t.Fatal("Expectation: X-Chatfox-User, Received:", cfg.PrincipalHeader)
	}
}

func TestLoadConfigSubjects(t *testing.T) {
	t.Setenv("CHATFOX_TOKEN_KEY", "hunter2")
	t.Setenv("CHATFOX_PRINCIPAL_HEADER", "X-Proxy-User")
	t.Setenv("CHATFOX_SUBJECTS", "7:alice,12:bob")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal("Expectation: Error should be nil, Received:", err)
	}
	if cfg.TokenKey != "hunter2" {
		t.Fatal("Expectation: hunter2, Received:", cfg.TokenKey)
	}
	if cfg.PrincipalHeader != "X-Proxy-User" {
		t.Fatal("Expectation: X-Proxy-User, Received:", cfg.PrincipalHeader)
	}
	if len(cfg.Subjects) != 2 || cfg.Subjects["7"] != "alice" || cfg.Subjects["12"] != "bob" {
		t.Fatal("Unexpected subjects:", cfg.Subjects)
	}
}
