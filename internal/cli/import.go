package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rl1809/stockroom/internal/core/service"
)

// SeedFile is the YAML layout read by the import command. An issuance's
// item_id may name the key of an item in the same file.
type SeedFile struct {
	Items  []SeedItem              `yaml:"items"`
	Issued []service.IssuanceDraft `yaml:"issued"`
}

type SeedItem struct {
	Key               string `yaml:"key"`
	service.ItemDraft `yaml:",inline"`
}

// ImportResult counts the records created by an import.
type ImportResult struct {
	Items  int `json:"items"`
	Issued int `json:"issued"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create items and issuances from a YAML seed file",
		Long: `Create items and issuances from a YAML seed file.

Records are submitted one at a time through the same forms as item add and
issue add. The import stops at the first record that fails; records created
before it are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := readSeedFile(args[0])
			if err != nil {
				return err
			}
			return rootOpts.withSession(cmd, func(ctx context.Context, s *service.Session, _ *service.InventoryService) error {
				res, err := runImport(ctx, s, seed)
				if err != nil {
					return err
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				if out.Format == "json" {
					return out.json(res)
				}
				_, err = fmt.Fprintf(out.Writer, "imported %d items, %d issuances\n", res.Items, res.Issued)
				return err
			})
		},
	}
}

func readSeedFile(path string) (SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return SeedFile{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return seed, nil
}

func runImport(ctx context.Context, s *service.Session, seed SeedFile) (ImportResult, error) {
	var res ImportResult
	keys := make(map[string]string, len(seed.Items))

	for i, it := range seed.Items {
		if err := s.Dispatch(ctx, service.OpenAddItem{}); err != nil {
			return res, err
		}
		form := s.ItemForm()
		if it.Quantity == "" {
			it.Quantity = form.Draft.Quantity
		}
		form.Draft = it.ItemDraft

		created, err := form.Submit(ctx)
		if err != nil {
			form.Cancel()
			return res, fmt.Errorf("items[%d]: %w", i, err)
		}
		if it.Key != "" {
			keys[it.Key] = created.ID
		}
		res.Items++
	}

	for i, d := range seed.Issued {
		if id, ok := keys[d.ItemID]; ok {
			d.ItemID = id
		}
		if err := s.Dispatch(ctx, service.OpenAddIssuance{}); err != nil {
			return res, err
		}
		form := s.IssuanceForm()
		if d.ReturnQuantity == "" {
			d.ReturnQuantity = form.Draft.ReturnQuantity
		}
		form.Draft = d

		if _, err := form.Submit(ctx); err != nil {
			form.Cancel()
			return res, fmt.Errorf("issued[%d]: %w", i, err)
		}
		res.Issued++
	}
	return res, nil
}
