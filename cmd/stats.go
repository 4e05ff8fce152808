package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgvariant/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <dir_or_manifest>",
	Short: "Display statistics for a manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.DefaultFileName)
	}

	m, err := manifest.Read(path)
	if err != nil {
		return err
	}
	printStats(m)
	return nil
}

type bucket struct {
	count int
	bytes int64
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	if m.Host != "" {
		fmt.Printf("  Host:             %s\n", m.Host)
	}
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", m.BuildInfo.Workers)
		if m.BuildInfo.Storage != "" {
			fmt.Printf("  Storage:          %s\n", m.BuildInfo.Storage)
		}
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total images:     %d\n", s.TotalImages)
	fmt.Printf("  Total variants:   %d (%d reused)\n", s.TotalVariants, s.Reused)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Output ratio:     %.1f%% of input\n", ratio)
	}
	fmt.Println()

	byFormat, byProfile := breakdown(m)

	fmt.Println(bold("  Format breakdown"))
	printBuckets(byFormat, []string{"webp", "jpeg", "png"})
	fmt.Println()

	fmt.Println(bold("  Profile breakdown"))
	printBuckets(byProfile, nil)

	var warnings []string
	for key, img := range m.Images {
		if img.Primary.Path == "" {
			warnings = append(warnings, fmt.Sprintf("image %q has no primary variant", key))
		}
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    %s %s\n", warnMark, w)
		}
	}
	fmt.Println()
}

// breakdown groups variants by format and by profile name. The primary
// variants are grouped under "(primary)".
func breakdown(m *manifest.Manifest) (byFormat, byProfile map[string]bucket) {
	byFormat = map[string]bucket{}
	byProfile = map[string]bucket{}
	for _, img := range m.Images {
		for _, v := range img.All() {
			b := byFormat[v.Format]
			b.count++
			b.bytes += v.Size
			byFormat[v.Format] = b

			name := v.Profile
			if name == "" {
				name = "(primary)"
			}
			b = byProfile[name]
			b.count++
			b.bytes += v.Size
			byProfile[name] = b
		}
	}
	return byFormat, byProfile
}

// printBuckets prints order first, then the remaining keys sorted.
func printBuckets(buckets map[string]bucket, order []string) {
	var keys []string
	seen := map[string]bool{}
	for _, k := range order {
		if _, ok := buckets[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range buckets {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, strconv.Itoa(buckets[k].count), formatBytes(buckets[k].bytes)})
	}
	table := newTable(nil)
	table.Header([]string{"Name", "Files", "Bytes"})
	_ = table.Bulk(rows)
	_ = table.Render()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
