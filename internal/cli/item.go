package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rl1809/stockroom/internal/core/service"
)

type itemFlags struct {
	name     string
	quantity string
	location string
}

func (f *itemFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "item name")
	cmd.Flags().StringVar(&f.quantity, "quantity", "1", "quantity in stock")
	cmd.Flags().StringVar(&f.location, "location", "", "storage location")
}

// apply copies the flags that were set on the command line into the draft.
func (f *itemFlags) apply(cmd *cobra.Command, d *service.ItemDraft) {
	if cmd.Flags().Changed("name") {
		d.Name = f.name
	}
	if cmd.Flags().Changed("quantity") {
		d.Quantity = f.quantity
	}
	if cmd.Flags().Changed("location") {
		d.Location = f.location
	}
}

// NewItemCommand creates the item command group.
func NewItemCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add, edit or delete an item",
	}
	cmd.AddCommand(newItemAddCommand(rootOpts))
	cmd.AddCommand(newItemEditCommand(rootOpts))
	cmd.AddCommand(newItemDeleteCommand(rootOpts))
	return cmd
}

func newItemAddCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &itemFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(ctx context.Context, s *service.Session, _ *service.InventoryService) error {
				if err := s.Dispatch(ctx, service.OpenAddItem{}); err != nil {
					return err
				}
				form := s.ItemForm()
				flags.apply(cmd, &form.Draft)

				item, err := form.Submit(ctx)
				if err != nil {
					return err
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Created(item.ID)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newItemEditCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &itemFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an item; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(ctx context.Context, s *service.Session, _ *service.InventoryService) error {
				if err := s.Dispatch(ctx, service.EditItem{ID: args[0]}); err != nil {
					return err
				}
				form := s.ItemForm()
				flags.apply(cmd, &form.Draft)

				item, err := form.Submit(ctx)
				if err != nil {
					return err
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Created(item.ID)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newItemDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item; its issuance records are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(ctx context.Context, s *service.Session, _ *service.InventoryService) error {
				return s.Dispatch(ctx, service.DeleteItem{ID: args[0]})
			})
		},
	}
}
