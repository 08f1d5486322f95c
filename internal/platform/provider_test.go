package platform

import (
	"errors"
	"testing"
	"time"
)

func TestNewProvider_UnsupportedPlatform(t *testing.T) {
	// Temporarily clear the provider func to simulate unsupported platform
	orig := NewProviderFunc
	NewProviderFunc = nil
	defer func() { NewProviderFunc = orig }()

	_, err := NewProvider(ProviderOptions{})
	if err == nil {
		t.Fatal("expected error on unsupported platform")
	}
	if err != ErrUnsupported {
		t.Errorf("expected ErrUnsupported, got: %v", err)
	}
}

func TestNewProvider_PassesOptions(t *testing.T) {
	orig := NewProviderFunc
	defer func() { NewProviderFunc = orig }()

	var got ProviderOptions
	NewProviderFunc = func(opts ProviderOptions) (*Provider, error) {
		got = opts
		return &Provider{}, nil
	}

	want := ProviderOptions{Button: MouseMiddle, Modifier: "Mod4", FrameInterval: 16 * time.Millisecond}
	if _, err := NewProvider(want); err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestNewProvider_PropagatesError(t *testing.T) {
	orig := NewProviderFunc
	defer func() { NewProviderFunc = orig }()

	boom := errors.New("no display")
	NewProviderFunc = func(ProviderOptions) (*Provider, error) { return nil, boom }

	if _, err := NewProvider(ProviderOptions{}); !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
}
