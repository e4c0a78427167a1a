package data

import (
	"context"
	"os"
	"testing"
)

func TestNewPoolIsShared(t *testing.T) {
	if os.Getenv("TEST_DB_CONN") == "" {
		t.Skip("TEST_DB_CONN not set")
	}

	first, err := NewPool(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewPool(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("NewPool should hand out the same pool")
	}
}
