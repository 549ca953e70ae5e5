package logging

import "testing"

func TestNew_Defaults(t *testing.T) {
	logger, err := New(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("hello")
	if err := Sync(logger); err != nil {
		t.Errorf("sync: %v", err)
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	if _, err := New(Config{Level: "debug", Format: "console"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(Config{Level: "shouting"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_BadFormat(t *testing.T) {
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
