package app

import (
	"github.com/spf13/cobra"

	"github.com/bobasettings/bobasettings/internal/settings"
)

func init() { //nolint: gochecknoinits
	groupsCmd.AddCommand(groupsListCmd, groupsShowCmd, groupsResetCmd)

	rootCmd.AddCommand(groupsCmd)
}

// groupInfo is the list output of a registered group.
type groupInfo struct {
	Name       string   `json:"name"`
	Properties []string `json:"properties"`
}

var (
	groupsCmd = &cobra.Command{
		Use:   "groups",
		Short: "Inspect and reset typed settings groups",
	}

	groupsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List the registered groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSettings(cmd.Context(), func(svc *settings.Service) error {
				out := []groupInfo{}
				for _, g := range svc.Registry().Discover(nil, false) {
					info := groupInfo{Name: g.Name(), Properties: []string{}}
					for _, p := range g.Properties() {
						info.Properties = append(info.Properties, p.Name())
					}
					out = append(out, info)
				}

				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}

	groupsShowCmd = &cobra.Command{
		Use:   "show <name>",
		Short: "Print the loaded group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(cmd.Context(), func(svc *settings.Service) error {
				v, err := svc.LoadGroup(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), v)
			})
		},
	}

	groupsResetCmd = &cobra.Command{
		Use:   "reset <name>",
		Short: "Delete every stored property of the group, restoring its defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(cmd.Context(), func(svc *settings.Service) error {
				return svc.DeleteGroupByName(cmd.Context(), args[0])
			})
		},
	}
)
