package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rl1809/stockroom/internal/adapter/backend"
	"github.com/rl1809/stockroom/internal/adapter/notify"
	"github.com/rl1809/stockroom/internal/config"
	"github.com/rl1809/stockroom/internal/core/service"
	"github.com/rl1809/stockroom/internal/port"
)

// OpenFunc opens the record store a command runs against.
type OpenFunc func(ctx context.Context, cfg config.Config) (port.RecordStore, func() error, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Backend string
	Format  string // "json" | "text"

	open OpenFunc
	now  func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the stockctl command tree. A nil open uses the
// configured backend.
func NewRootCommand(open OpenFunc) *cobra.Command {
	if open == nil {
		open = backend.Open
	}
	opts := &RootOptions{open: open, now: time.Now}

	cmd := &cobra.Command{
		Use:   "stockctl",
		Short: "Track stock items and what has been issued",
		Long: `stockctl lists, adds, edits and deletes stock items and issuance
records in the configured record store (STOCKROOM_BACKEND).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "record store backend (overrides STOCKROOM_BACKEND)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewItemsCommand(opts))
	cmd.AddCommand(NewIssuedCommand(opts))
	cmd.AddCommand(NewOutstandingCommand(opts))
	cmd.AddCommand(NewItemCommand(opts))
	cmd.AddCommand(NewIssueCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))

	return cmd
}

// withSession opens the store, loads the cache and runs fn against a fresh
// session. Notifications go to the command's stderr.
func (o *RootOptions) withSession(cmd *cobra.Command, fn func(ctx context.Context, s *service.Session, svc *service.InventoryService) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.Backend != "" {
		cfg.Backend = o.Backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	store, closeStore, err := o.open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := service.NewInventoryService(store, nil, notify.NewWriterNotifier(cmd.ErrOrStderr()))
	if err := svc.Load(ctx); err != nil {
		return err
	}
	return fn(ctx, service.NewSession(svc), svc)
}

// Reported reports whether err was already shown to the user as a
// notification.
func Reported(err error) bool {
	var (
		ve *service.ValidationError
		se *port.StoreError
		te *port.TransportError
	)
	return errors.As(err, &ve) || errors.As(err, &se) || errors.As(err, &te)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
