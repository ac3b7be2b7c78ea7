package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/profile"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/scan"
)

// scanFlags are shared by the scan commands and override the profile's stored
// settings for a single run.
func scanFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "source",
			Usage: "Funding source to test against: a preset name or a wallet address (overrides the profile)",
		},
		&cli.FloatFlag{
			Name:  "min",
			Usage: "Minimum funding amount in SOL (overrides the profile)",
		},
		&cli.FloatFlag{
			Name:  "window",
			Usage: "Scan window in hours (overrides the profile)",
		},
	}
}

// buildParams merges the profile's settings with per-run flag overrides into
// the criteria a scan runs with.
func buildParams(ctx context.Context, profSvc profile.Service, c *cli.Command) (scan.ScanParams, error) {
	settings, err := profSvc.Current(ctx)
	if err != nil {
		return scan.ScanParams{}, err
	}

	source := settings.Source
	if v := c.String("source"); v != "" {
		source, err = profSvc.ResolveSource(ctx, v)
		if err != nil {
			return scan.ScanParams{}, err
		}
	}
	if source == "" {
		return scan.ScanParams{}, profile.ErrNoSource
	}

	minSOL := settings.MinSOL
	if v := c.Float("min"); v > 0 {
		minSOL = v
	}

	windowHours := settings.WindowHours
	if v := c.Float("window"); v > 0 {
		windowHours = v
	}

	return scan.ScanParams{
		Source:      source,
		MinLamports: uint64(minSOL * float64(scan.LamportsPerSOL)),
		Window:      time.Duration(windowHours * float64(time.Hour)),
	}, nil
}

// scanCommand returns a CLI command that scans the wallet addresses given as
// arguments.
//
// Usage example:
//
//	wallet-scanner scan --source kucoin 7fUAJdStEuGbc3sM84cKRL6yYaaSstyLSU4ve5oovLS7
func scanCommand(scanSvc scan.Service, profSvc profile.Service) *cli.Command {
	return &cli.Command{
		Name:        "scan",
		Description: "Scan one or more wallet addresses against the configured funding source.",
		Usage:       "Scans the wallets given as arguments. Addresses may also be pasted as a single separated list.",
		ArgsUsage:   "<wallet> [wallet...]",
		Flags:       scanFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			wallets := ParseWalletList(strings.Join(c.Args().Slice(), "\n"))
			if len(wallets) == 0 {
				return fmt.Errorf("at least one wallet address is required")
			}

			return runScan(ctx, scanSvc, profSvc, c, wallets)
		},
	}
}

// scanFileCommand returns a CLI command that scans wallet addresses read from
// a file, or from stdin when the path is "-".
//
// Usage example:
//
//	wallet-scanner scanfile wallets.txt
func scanFileCommand(scanSvc scan.Service, profSvc profile.Service) *cli.Command {
	return &cli.Command{
		Name:        "scanfile",
		Description: "Scan wallet addresses listed in a file, separated by newlines, commas or semicolons.",
		Usage:       "Scans every wallet address found in the given file.",
		ArgsUsage:   "<path>",
		Flags:       scanFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("a wallet list file is required")
			}

			var (
				raw []byte
				err error
			)
			if path == "-" {
				raw, err = io.ReadAll(os.Stdin)
			} else {
				raw, err = os.ReadFile(path)
			}
			if err != nil {
				return fmt.Errorf("reading wallet list: %w", err)
			}

			wallets := ParseWalletList(string(raw))
			if len(wallets) == 0 {
				return fmt.Errorf("no wallet addresses found in %s", path)
			}

			return runScan(ctx, scanSvc, profSvc, c, wallets)
		},
	}
}

func runScan(ctx context.Context, scanSvc scan.Service, profSvc profile.Service, c *cli.Command, wallets []string) error {
	params, err := buildParams(ctx, profSvc, c)
	if err != nil {
		return err
	}

	report, err := scanSvc.ScanBatch(ctx, wallets, params)
	if err != nil {
		return err
	}

	renderReport(os.Stdout, params, report)
	return nil
}

func toSOL(lamports uint64) float64 {
	return float64(lamports) / float64(scan.LamportsPerSOL)
}

// renderReport prints a human-readable scan summary.
func renderReport(w io.Writer, params scan.ScanParams, report scan.Report) {
	fmt.Fprintf(w, "Scanned %d wallet(s) against %s (min %.2f SOL, window %s)\n",
		report.ScannedCount, params.Source, toSOL(params.MinLamports), params.Window)

	if report.Stopped {
		fmt.Fprintf(w, "Scan stopped early: %s\n", report.StopReason)
	}

	if report.TotalMatches == 0 {
		fmt.Fprintln(w, "No matches.")
		return
	}

	fmt.Fprintf(w, "%d match(es)", report.TotalMatches)
	if report.TotalMatches > len(report.Hits) {
		fmt.Fprintf(w, ", showing top %d", len(report.Hits))
	}
	fmt.Fprintln(w, ":")

	for i, hit := range report.Hits {
		fmt.Fprintf(w, "%2d. %s  funded %.4f SOL  balance %.4f SOL  tx %s\n",
			i+1, hit.Wallet, toSOL(hit.FundedLamports), toSOL(hit.BalanceLamports), hit.Signature)
	}
}
