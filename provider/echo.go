package provider

import "context"

func init() {
	RegisterProvider("echo", ProviderRegistration{
		Constructor: func(Settings) Provider { return EchoProvider{} },
	})
}

// EchoProvider replies with the message itself. It needs no network and is
// meant for trying the console locally.
type EchoProvider struct{}

func (EchoProvider) Chat(_ context.Context, message string) (string, error) {
	return message, nil
}
