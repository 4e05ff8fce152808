package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgvariant/internal/catalog"
	"github.com/AnyUserName/imgvariant/internal/profile"
	"github.com/AnyUserName/imgvariant/internal/store"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List image types and their linked profiles",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

func runTypes(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var st store.Store
	if cfg.Catalog.Driver == "store" {
		var err error
		if st, err = openStore(ctx); err != nil {
			return err
		}
		defer st.Close()
	}

	snap, err := openCatalog(ctx, st)
	if err != nil {
		return err
	}
	ix := snap.Current()

	table := newTable(nil)
	table.Header([]string{"ID", "Name", "File", "Size", "Profiles"})
	_ = table.Bulk(typeRows(ix))
	_ = table.Render()

	if n := ix.Dropped(); n > 0 {
		fmt.Printf("\n  %s %d catalog link(s) point to a missing type or profile\n", warnMark, n)
	}
	return nil
}

func typeRows(ix *catalog.Index) [][]string {
	rows := make([][]string, 0, len(ix.Types()))
	for _, t := range ix.Types() {
		names := make([]string, 0, len(t.Profiles))
		for _, p := range t.Profiles {
			name := fmt.Sprintf("%s.%s", p.Name, p.FileType)
			if p.Pregenerate {
				name += "*"
			}
			names = append(names, name)
		}
		rows = append(rows, []string{
			t.ID,
			bold(t.Name),
			string(t.FileType),
			describeDimensions(t.Dimensions),
			strings.Join(names, ", "),
		})
	}
	return rows
}

// describeDimensions renders the set fields, e.g. "256x256" or "max 1600w ar 4".
func describeDimensions(d profile.Dimensions) string {
	var parts []string
	switch {
	case d.Width > 0 && d.Height > 0:
		parts = append(parts, fmt.Sprintf("%dx%d", d.Width, d.Height))
	case d.Width > 0:
		parts = append(parts, fmt.Sprintf("%dw", d.Width))
	case d.Height > 0:
		parts = append(parts, fmt.Sprintf("%dh", d.Height))
	}
	if d.MaxWidth > 0 || d.MaxHeight > 0 {
		bound := "max"
		if d.MaxWidth > 0 {
			bound += fmt.Sprintf(" %dw", d.MaxWidth)
		}
		if d.MaxHeight > 0 {
			bound += fmt.Sprintf(" %dh", d.MaxHeight)
		}
		parts = append(parts, bound)
	}
	if d.AspectRatio > 0 {
		parts = append(parts, fmt.Sprintf("ar %g", d.AspectRatio))
	}
	if len(parts) == 0 {
		return "source"
	}
	return strings.Join(parts, " ")
}
