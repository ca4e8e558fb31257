package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rl1809/stockroom/internal/core/service"
)

// NewItemsCommand creates the items command.
func NewItemsCommand(rootOpts *RootOptions) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List items with outstanding and available counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(ctx context.Context, s *service.Session, _ *service.InventoryService) error {
				if err := s.Dispatch(ctx, service.SearchItems{Query: query}); err != nil {
					return err
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Items(s.Items(), rootOpts)
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by name or location")
	return cmd
}

// NewIssuedCommand creates the issued command.
func NewIssuedCommand(rootOpts *RootOptions) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "issued",
		Short: "List issuance records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(ctx context.Context, s *service.Session, _ *service.InventoryService) error {
				if err := s.Dispatch(ctx, service.SearchIssuances{Query: query}); err != nil {
					return err
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Issuances(s.Issuances())
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by item name or recipient")
	return cmd
}

// NewOutstandingCommand creates the outstanding command.
func NewOutstandingCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "outstanding",
		Short: "Show quantities still out per item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(_ context.Context, _ *service.Session, svc *service.InventoryService) error {
				names := make(map[string]string)
				for _, it := range svc.Cache().Items() {
					names[it.ID] = it.Name
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Outstanding(svc.Outstanding(), names)
			})
		},
	}
}
