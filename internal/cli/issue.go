package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

type issueFlags struct {
	itemID     string
	issuedTo   string
	issuedAt   string
	quantity   string
	returned   string
	returnDate string
}

func (f *issueFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.itemID, "item", "", "item id")
	cmd.Flags().StringVar(&f.issuedTo, "to", "", "recipient")
	cmd.Flags().StringVar(&f.issuedAt, "date", "", "issue date ("+domain.DateLayout+"), default today")
	cmd.Flags().StringVar(&f.quantity, "quantity", "", "quantity issued")
	cmd.Flags().StringVar(&f.returned, "returned", "0", "quantity returned")
	cmd.Flags().StringVar(&f.returnDate, "return-date", "", "return date ("+domain.DateLayout+")")
}

func (f *issueFlags) apply(cmd *cobra.Command, d *service.IssuanceDraft) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("item", &d.ItemID, f.itemID)
	set("to", &d.IssuedTo, f.issuedTo)
	set("date", &d.IssuedAt, f.issuedAt)
	set("quantity", &d.QuantityIssued, f.quantity)
	set("returned", &d.ReturnQuantity, f.returned)
	set("return-date", &d.ReturnDate, f.returnDate)
}

// NewIssueCommand creates the issue command group.
func NewIssueCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Record, edit or delete an issuance",
	}
	cmd.AddCommand(newIssueAddCommand(rootOpts))
	cmd.AddCommand(newIssueEditCommand(rootOpts))
	cmd.AddCommand(newIssueDeleteCommand(rootOpts))
	return cmd
}

func newIssueAddCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &issueFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record items issued to someone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(ctx context.Context, s *service.Session, _ *service.InventoryService) error {
				if err := s.Dispatch(ctx, service.OpenAddIssuance{}); err != nil {
					return err
				}
				form := s.IssuanceForm()
				form.Draft.IssuedAt = domain.DateOf(rootOpts.now()).String()
				flags.apply(cmd, &form.Draft)

				rec, err := form.Submit(ctx)
				if err != nil {
					return err
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Created(rec.ID)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newIssueEditCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &issueFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an issuance; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(ctx context.Context, s *service.Session, _ *service.InventoryService) error {
				if err := s.Dispatch(ctx, service.EditIssuance{ID: args[0]}); err != nil {
					return err
				}
				form := s.IssuanceForm()
				flags.apply(cmd, &form.Draft)

				rec, err := form.Submit(ctx)
				if err != nil {
					return err
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Created(rec.ID)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newIssueDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an issuance record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(ctx context.Context, s *service.Session, _ *service.InventoryService) error {
				return s.Dispatch(ctx, service.DeleteIssuance{ID: args[0]})
			})
		},
	}
}
