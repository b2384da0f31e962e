// Command proconbridged emulates a Nintendo Switch Pro Controller and
// bridges it to a host over either Bluetooth Classic HID or a USB HID
// gadget device.
package main

import (
	"os"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	"github.com/dio-wtf/proconbridge/internal/logging"
	"github.com/dio-wtf/proconbridge/transport/config"
)

func main() {
	var cli config.CLI

	configPath := os.Getenv("PROCONBRIDGE_CONFIG")
	opts := []kong.Option{
		kong.Name("proconbridged"),
		kong.Description("Nintendo Switch Pro Controller emulation bridge"),
		kong.UsageOnError(),
	}
	if configPath != "" {
		opts = append(opts, kong.Configuration(kongyaml.Loader, configPath))
	}

	ctx := kong.Parse(&cli, opts...)
	if err := ctx.Run(&cli); err != nil {
		logging.Fatalf("proconbridged: %v", err)
	}
}
