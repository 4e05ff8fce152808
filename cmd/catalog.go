package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgvariant/internal/catalog"
	"github.com/AnyUserName/imgvariant/internal/store"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the image type catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <catalog.yaml>",
	Short: "Import types, profiles and links from a YAML file into the record store",
	Long: `Validates the file, then upserts every type and profile and adds every
link. Links already present keep their position.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

func init() {
	catalogCmd.AddCommand(catalogImportCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, err := catalog.FileSource{Path: args[0]}.Load(ctx)
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := store.Import(ctx, st, c); err != nil {
		return fmt.Errorf("import catalog: %w", err)
	}

	ix := catalog.Build(c, logger)
	fmt.Printf("  %s imported %d types, %d profiles, %d links\n",
		okMark, len(c.Types), len(c.Profiles), len(c.Links))
	if n := ix.Dropped(); n > 0 {
		fmt.Printf("  %s %d link(s) point to a missing type or profile and will be ignored\n", warnMark, n)
	}
	return nil
}
