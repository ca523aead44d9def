package appium

import "github.com/mj1618/element-inspector/internal/platform"

func init() {
	platform.NewProviderFunc = func(opts platform.ProviderOptions) (*platform.Provider, error) {
		var clientOpts []Option
		if opts.Session != "" {
			clientOpts = append(clientOpts, WithSession(opts.Session))
		}
		if opts.Logger != nil {
			clientOpts = append(clientOpts, WithLogger(opts.Logger))
		}
		client := New(opts.URL, clientOpts...)
		if opts.Timeout > 0 {
			client.httpClient.Timeout = opts.Timeout
		}
		return &platform.Provider{
			Source:         client,
			Finder:         client,
			ElementsFinder: client,
			Screenshotter:  client,
		}, nil
	}
}
