package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/scan"
)

// clearCacheCommand returns a CLI command that drops cached
// oldest-transaction facts, either for specific wallets or entirely.
//
// Usage examples:
//
//	wallet-scanner cacheclear --all
//	wallet-scanner cacheclear 7fUAJdStEuGbc3sM84cKRL6yYaaSstyLSU4ve5oovLS7
func clearCacheCommand(scanSvc scan.Service) *cli.Command {
	return &cli.Command{
		Name:        "cacheclear",
		Description: "Drop cached oldest-transaction facts so the next scan re-fetches wallet history.",
		Usage:       "Clears the fact cache for the given wallets, or everything with --all.",
		ArgsUsage:   "[wallet...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Clear every cached fact",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("all") {
				if err := scanSvc.InvalidateAll(ctx); err != nil {
					return err
				}

				fmt.Println("Cache cleared.")
				return nil
			}

			wallets := ParseWalletList(strings.Join(c.Args().Slice(), "\n"))
			if len(wallets) == 0 {
				return fmt.Errorf("pass wallet addresses or --all")
			}

			removed, err := scanSvc.InvalidateWallets(ctx, wallets)
			if err != nil {
				return err
			}

			fmt.Printf("Removed %d cached entr(y/ies).\n", removed)
			return nil
		},
	}
}
