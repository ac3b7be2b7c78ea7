// Package cli exposes the wallet scanner as a command-line application.
package cli

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/profile"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/scan"
)

// Run initializes and executes the wallet-scanner CLI application.
//
// It registers all available commands:
//
//   - `scan`: Scans wallet addresses given as arguments.
//   - `scanfile`: Scans wallet addresses read from a file.
//   - `cacheclear`: Drops cached oldest-transaction facts.
//   - `source`, `min`, `window`: Configure the active profile.
//   - `preset`: Manages the funding-source preset book.
//   - `show`: Prints the active profile settings.
func Run(ctx context.Context, scanSvc scan.Service, profSvc profile.Service) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "wallet-scanner",
		Description:           "Finds wallets whose first on-chain activity was a large transfer from a configured funding source.",
		Usage:                 "wallet-scanner [command] [flags]",
		Commands: []*cli.Command{
			scanCommand(scanSvc, profSvc),
			scanFileCommand(scanSvc, profSvc),
			clearCacheCommand(scanSvc),
			setSourceCommand(profSvc),
			setMinAmountCommand(profSvc),
			setWindowCommand(profSvc),
			presetCommand(profSvc),
			showProfileCommand(profSvc),
		},
	}

	return app.Run(ctx, os.Args)
}
