package app

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bobasettings/bobasettings/internal/seed"
	"github.com/bobasettings/bobasettings/internal/settings"
)

func init() { //nolint: gochecknoinits
	settingsListCmd.Flags().BoolVar(&listRegistered, "registered", false, "Describe every registered property instead of the stored records")
	settingsImportCmd.Flags().BoolVar(&importMissingOnly, "missing-only", false, "Keep values that are already stored")

	settingsCmd.AddCommand(
		settingsListCmd,
		settingsGetCmd,
		settingsSetCmd,
		settingsDeleteCmd,
		settingsImportCmd,
		settingsExportCmd,
	)

	rootCmd.AddCommand(settingsCmd)
}

var (
	listRegistered    bool
	importMissingOnly bool

	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Manage the stored key/value records",
	}

	settingsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List the stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSettings(cmd.Context(), func(svc *settings.Service) error {
				if listRegistered {
					descriptors, err := svc.GetAllRegisteredSettings(cmd.Context())
					if err != nil {
						return err
					}

					return printJSON(cmd.OutOrStdout(), descriptors)
				}

				all, err := svc.GetAllSettings(cmd.Context())
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), all)
			})
		},
	}

	settingsGetCmd = &cobra.Command{
		Use:   "get <key>",
		Short: "Print the first record stored under key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(cmd.Context(), func(svc *settings.Service) error {
				rec, err := svc.GetSetting(cmd.Context(), args[0])
				if err != nil {
					return errors.Wrap(err, args[0])
				}

				return printJSON(cmd.OutOrStdout(), rec)
			})
		},
	}

	settingsSetCmd = &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store value under key",
		Args:  cobra.ExactArgs(2), //nolint: mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(cmd.Context(), func(svc *settings.Service) error {
				return svc.SetSetting(cmd.Context(), args[0], args[1])
			})
		},
	}

	settingsDeleteCmd = &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete the record with id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid id %q", args[0])
			}

			return withSettings(cmd.Context(), func(svc *settings.Service) error {
				return svc.DeleteSettingByID(cmd.Context(), id)
			})
		},
	}

	settingsImportCmd = &cobra.Command{
		Use:   "import <file>",
		Short: "Import a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(cmd.Context(), func(svc *settings.Service) error {
				res, err := seed.ImportFile(cmd.Context(), svc, args[0], importMissingOnly)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d written, %d skipped\n", res.Written, res.Skipped)

				return err
			})
		},
	}

	settingsExportCmd = &cobra.Command{
		Use:   "export [file]",
		Short: "Export every record as YAML, to stdout without file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(cmd.Context(), func(svc *settings.Service) error {
				f, err := seed.Export(cmd.Context(), svc)
				if err != nil {
					return err
				}

				if len(args) == 1 {
					return seed.WriteFile(args[0], f)
				}

				return seed.Write(cmd.OutOrStdout(), f)
			})
		},
	}
)
