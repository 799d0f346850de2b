package observability

import "testing"

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(Config{Level: "verbose"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := New(Config{Encoding: "xml"}); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}

func TestNewDefaults(t *testing.T) {
	logger, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Printf("smoke %d", 1)
	logger.Errorf("smoke %d", 2)
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Printf("ignored")
	l.Errorf("ignored")
	if err := l.Sync(); err != nil {
		t.Fatalf("Sync on nil: %v", err)
	}
}
