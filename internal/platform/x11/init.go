//go:build linux

package x11

import "github.com/mj1618/desktop-throw/internal/platform"

func init() {
	platform.NewProviderFunc = func(opts platform.ProviderOptions) (*platform.Provider, error) {
		host, err := NewHost()
		if err != nil {
			return nil, err
		}
		return &platform.Provider{
			Host:   host,
			Events: NewDragEvents(host, opts),
		}, nil
	}
}
