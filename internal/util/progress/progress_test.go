package progress

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewDisabled(t *testing.T) {
	if bar := New(10, "accounts", false); bar != nil {
		t.Error("New() with enabled=false should return nil")
	}
	if bar := New(0, "accounts", true); bar != nil {
		t.Error("New() with max=0 should return nil")
	}
}

func TestAddNilBar(t *testing.T) {
	// must not panic
	Add(nil, 1, zerolog.Nop())
}
