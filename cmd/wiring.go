package cmd

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/AnyUserName/imgvariant/internal/catalog"
	"github.com/AnyUserName/imgvariant/internal/fault"
	"github.com/AnyUserName/imgvariant/internal/store"
	"github.com/AnyUserName/imgvariant/internal/store/postgres"
	"github.com/AnyUserName/imgvariant/internal/store/sqlite"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
	warnMark = color.New(color.FgYellow).Sprint("⚠")
	bold     = color.New(color.Bold).SprintFunc()
)

// openStore opens the record store selected by store.driver.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return sqlite.Open(ctx, cfg.Store.DSN)
	case "postgres":
		return postgres.Open(ctx, cfg.Store.DSN)
	case "":
		return nil, fault.Configuration("open store", "no record store configured")
	default:
		return nil, fault.Configuration("open store", "unknown store driver %q", cfg.Store.Driver)
	}
}

// openCatalog loads the catalog snapshot. st may be nil when the catalog
// comes from a file.
func openCatalog(ctx context.Context, st store.Store) (*catalog.Snapshot, error) {
	var src catalog.Source
	switch cfg.Catalog.Driver {
	case "store":
		if st == nil {
			return nil, fault.Configuration("open catalog", "catalog.driver=store needs a record store")
		}
		src = st
	default:
		src = catalog.FileSource{Path: cfg.Catalog.Path}
	}

	snap := catalog.NewSnapshot(src, cfg.Catalog.RefreshInterval, logger)
	if err := snap.Refresh(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

// newTable returns a borderless table in the altctl style.
func newTable(w io.Writer) *tablewriter.Table {
	if w == nil {
		w = os.Stdout
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}
