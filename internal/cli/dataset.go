package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/factlens/internal/factstore"
	"github.com/ppiankov/factlens/internal/model"
)

// datasetCmd represents the dataset command
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect and convert knowledge graph files",
}

var datasetCheckCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Validate a dataset and print its contents summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore(args[0])
		if err != nil {
			return err
		}
		st := store.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d entities, %d facts, %d sources\n", args[0], st.Entities, st.Facts, st.Sources)
		return nil
	},
}

var datasetExportCmd = &cobra.Command{
	Use:   "export <in> <out.db>",
	Short: "Validate a JSON or YAML dataset and write it as SQLite",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out := args[0], args[1]
		if factstore.FormatFromPath(out) != factstore.FormatSQLite {
			return fmt.Errorf("output must end in .db, .sqlite or .sqlite3: %s", out)
		}

		ds, err := factstore.ReadDataset(cmd.Context(), in)
		if err != nil {
			return err
		}
		// Refuse to export a dataset that would not load
		if _, err := factstore.New(ds, tierOption()); err != nil {
			return err
		}
		if err := factstore.ExportSQLite(cmd.Context(), ds, out); err != nil {
			return fmt.Errorf("export: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%d entities, %d facts, %d sources)\n", out, len(ds.Entities), len(ds.Facts), len(ds.Sources))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.AddCommand(datasetCheckCmd)
	datasetCmd.AddCommand(datasetExportCmd)
}

func loadStore(path string) (*factstore.Store, error) {
	return factstore.Load(path, tierOption())
}

// tierOption classifies undeclared source tiers with the configured authority lists
func tierOption() factstore.Option {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		cfg = model.DefaultConfig()
	}
	return factstore.WithTierClassifier(factstore.NewTierClassifier(&cfg.Authority))
}
