package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgvariant/internal/codec"
	"github.com/AnyUserName/imgvariant/internal/encoder"
	"github.com/AnyUserName/imgvariant/internal/locator"
	"github.com/AnyUserName/imgvariant/internal/manifest"
	"github.com/AnyUserName/imgvariant/internal/pipeline"
	"github.com/AnyUserName/imgvariant/internal/plan"
	"github.com/AnyUserName/imgvariant/internal/producer"
	"github.com/AnyUserName/imgvariant/internal/storage"
	"github.com/AnyUserName/imgvariant/internal/upload"
)

var (
	produceType     string
	produceCrop     string
	produceName     string
	produceOriginal string
	produceSession  map[string]string
	produceManifest string
	produceWorkers  int
)

var produceCmd = &cobra.Command{
	Use:   "produce <file_or_dir>",
	Short: "Store images and produce the variants of their image type",
	Long: `Creates an image record for every file, then stores the primary variant
of the image type and every pregenerated profile linked to it.

Variant keys follow [path/]fileName-imageId[-profileName].fileType.`,
	Args: cobra.ExactArgs(1),
	RunE: runProduce,
}

func init() {
	produceCmd.Flags().StringVarP(&produceType, "type", "t", "", "image type id or name (required)")
	produceCmd.Flags().StringVar(&produceCrop, "crop", "", "crop rectangle x,y,width,height applied before resizing")
	produceCmd.Flags().StringVarP(&produceName, "name", "n", "", "image name (default: derived from the file name)")
	produceCmd.Flags().StringVar(&produceOriginal, "original", "", "id of the image this upload replaces")
	produceCmd.Flags().StringToStringVar(&produceSession, "session", nil, "session properties used to resolve the upload path (k=v)")
	produceCmd.Flags().StringVarP(&produceManifest, "manifest", "m", "", "write a manifest to this path")
	produceCmd.Flags().IntVarP(&produceWorkers, "workers", "w", 0, "parallel workers (0 = config or NumCPU)")
	_ = produceCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(produceCmd)
}

func runProduce(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	start := time.Now()

	crop, err := parseCrop(produceCrop)
	if err != nil {
		return err
	}

	workers := cfg.Workers
	if produceWorkers > 0 {
		workers = produceWorkers
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	snap, err := openCatalog(ctx, st)
	if err != nil {
		return err
	}
	// reload the catalog while long batches run
	go snap.Run(ctx)

	sink, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}

	registry := encoder.NewRegistry()
	logger.Debug().Str("encoders", registry.String()).Msg("encoders probed")

	pixels := codec.NewImaging(registry)
	prod := producer.New(pixels, sink, workers, logger)
	up := upload.New(snap, st, pixels, prod, locator.PathResolver{Base: cfg.Base, Properties: cfg.PathProperties}, logger)

	var encoders []string
	for _, f := range registry.Available() {
		encoders = append(encoders, string(f))
	}

	p := pipeline.New(pipeline.Config{
		Input:      args[0],
		Type:       produceType,
		ImageName:  produceName,
		OriginalID: produceOriginal,
		Crop:       crop,
		Session:    produceSession,
		Workers:    workers,
		Host:       cfg.Host,
		Encoders:   encoders,
		Storage:    sink.Describe(),
	}, up, logger)

	m, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if produceManifest != "" {
		if err := manifest.WriteJSON(m, produceManifest); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
	}

	printProduceSummary(m, time.Since(start))
	return nil
}

// parseCrop reads "x,y,width,height". Missing trailing values are zero,
// which means unset for width and height.
func parseCrop(s string) (*plan.CropRequest, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) > 4 {
		return nil, fmt.Errorf("invalid crop %q: want x,y,width,height", s)
	}
	var v [4]float64
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid crop %q: %w", s, err)
		}
		v[i] = f
	}
	if v[2] < 0 || v[3] < 0 {
		return nil, fmt.Errorf("invalid crop %q: width and height must not be negative", s)
	}
	return &plan.CropRequest{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

func printProduceSummary(m *manifest.Manifest, elapsed time.Duration) {
	keys := make([]string, 0, len(m.Images))
	for k := range m.Images {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		img := m.Images[k]
		rows = append(rows, []string{
			k,
			img.ID,
			fmt.Sprintf("%dx%d %s", img.Primary.Width, img.Primary.Height, img.Primary.Format),
			strconv.Itoa(len(img.Extras)),
		})
	}
	table := newTable(nil)
	table.Header([]string{"Source", "ID", "Primary", "Extras"})
	_ = table.Bulk(rows)
	_ = table.Render()

	fmt.Println()
	fmt.Printf("  %s %d images, %d variants in %s\n", okMark,
		m.Stats.TotalImages, m.Stats.TotalVariants, elapsed.Round(time.Millisecond))
	if produceManifest != "" {
		fmt.Printf("  Manifest: %s\n", filepath.Clean(produceManifest))
	}
}
