package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/profile"
)

// setSourceCommand returns a CLI command that sets the profile's funding
// source to a preset name or a raw address.
//
// Usage example:
//
//	wallet-scanner source kucoin
func setSourceCommand(profSvc profile.Service) *cli.Command {
	return &cli.Command{
		Name:        "source",
		Description: "Set the funding source wallets are tested against. Accepts a preset name or an address.",
		Usage:       "Sets the profile's funding source.",
		ArgsUsage:   "<preset|address>",
		Action: func(ctx context.Context, c *cli.Command) error {
			value := c.Args().First()
			if value == "" {
				return fmt.Errorf("a preset name or address is required")
			}

			address, err := profSvc.SetSource(ctx, value)
			if err != nil {
				return err
			}

			fmt.Printf("Source set to %s\n", address)
			return nil
		},
	}
}

// setMinAmountCommand returns a CLI command that sets the profile's minimum
// funding amount, in SOL.
func setMinAmountCommand(profSvc profile.Service) *cli.Command {
	return &cli.Command{
		Name:        "min",
		Description: "Set the minimum funding amount, in SOL, for a transfer to count as a match.",
		Usage:       "Sets the profile's minimum funding amount.",
		ArgsUsage:   "<sol>",
		Action: func(ctx context.Context, c *cli.Command) error {
			value, err := parseFloatArg(c, "a minimum amount in SOL")
			if err != nil {
				return err
			}

			if err := profSvc.SetMinAmount(ctx, value); err != nil {
				return err
			}

			fmt.Printf("Minimum amount set to %v SOL\n", value)
			return nil
		},
	}
}

// setWindowCommand returns a CLI command that sets the profile's scan window,
// in hours.
func setWindowCommand(profSvc profile.Service) *cli.Command {
	return &cli.Command{
		Name:        "window",
		Description: "Set how far back, in hours, the funding transaction may lie (1 to 168).",
		Usage:       "Sets the profile's scan window.",
		ArgsUsage:   "<hours>",
		Action: func(ctx context.Context, c *cli.Command) error {
			value, err := parseFloatArg(c, "a window in hours")
			if err != nil {
				return err
			}

			if err := profSvc.SetWindow(ctx, value); err != nil {
				return err
			}

			fmt.Printf("Window set to %v hour(s)\n", value)
			return nil
		},
	}
}

func parseFloatArg(c *cli.Command, what string) (float64, error) {
	raw := c.Args().First()
	if raw == "" {
		return 0, fmt.Errorf("%s is required", what)
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}

	return value, nil
}

// presetCommand returns the preset management command group.
//
// Usage examples:
//
//	wallet-scanner preset add myexchange 7fUAJdStEuGbc3sM84cKRL6yYaaSstyLSU4ve5oovLS7
//	wallet-scanner preset del myexchange
//	wallet-scanner preset list
func presetCommand(profSvc profile.Service) *cli.Command {
	return &cli.Command{
		Name:        "preset",
		Description: "Manage named funding-source presets.",
		Usage:       "wallet-scanner preset [add|del|list]",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Adds or replaces a preset.",
				ArgsUsage: "<name> <address>",
				Action: func(ctx context.Context, c *cli.Command) error {
					name, address := c.Args().Get(0), c.Args().Get(1)
					if name == "" || address == "" {
						return fmt.Errorf("a preset name and an address are required")
					}

					if err := profSvc.AddPreset(ctx, name, address); err != nil {
						return err
					}

					fmt.Printf("Preset %s -> %s\n", name, address)
					return nil
				},
			},
			{
				Name:      "del",
				Usage:     "Deletes a user-defined preset.",
				ArgsUsage: "<name>",
				Action: func(ctx context.Context, c *cli.Command) error {
					name := c.Args().First()
					if name == "" {
						return fmt.Errorf("a preset name is required")
					}

					if err := profSvc.DeletePreset(ctx, name); err != nil {
						return err
					}

					fmt.Printf("Preset %s removed\n", name)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "Lists all presets, built-in and user-defined.",
				Action: func(ctx context.Context, c *cli.Command) error {
					presets, err := profSvc.ListPresets(ctx)
					if err != nil {
						return err
					}

					names := make([]string, 0, len(presets))
					for name := range presets {
						names = append(names, name)
					}
					sort.Strings(names)

					for _, name := range names {
						fmt.Printf("%-20s %s\n", name, presets[name])
					}
					return nil
				},
			},
		},
	}
}

// showProfileCommand returns a CLI command that prints the active profile
// settings with defaults applied.
func showProfileCommand(profSvc profile.Service) *cli.Command {
	return &cli.Command{
		Name:        "show",
		Description: "Print the active profile settings.",
		Usage:       "Shows the configured source, minimum amount and window.",
		Action: func(ctx context.Context, c *cli.Command) error {
			settings, err := profSvc.Current(ctx)
			if err != nil {
				return err
			}

			source := settings.Source
			if source == "" {
				source = "(not set)"
			}

			fmt.Printf("source: %s\n", source)
			fmt.Printf("min:    %v SOL\n", settings.MinSOL)
			fmt.Printf("window: %v hour(s)\n", settings.WindowHours)
			return nil
		},
	}
}
