package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgvariant/internal/hasher"
	"github.com/AnyUserName/imgvariant/internal/manifest"
)

var validateDir string

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a manifest and check the stored variants",
	Long: `Checks the manifest fields and stats. With local storage every variant
is also checked on disk: it must exist and match the recorded size and hash.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateDir, "dir", "", "storage directory holding the variants (default: storage.dir for local storage)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	m, err := manifest.Read(args[0])
	if err != nil {
		return err
	}

	baseDir := validateDir
	if baseDir == "" && cfg.Storage.Driver == "local" {
		baseDir = cfg.Storage.Dir
	}
	if baseDir == "" {
		logger.Info().Msg("no local storage directory, skipping file checks")
	}

	errs := validateManifest(m, baseDir)
	if len(errs) == 0 {
		fmt.Printf("  %s Manifest is valid\n", okMark)
		fmt.Printf("  %s %d images, %d variants\n", okMark, m.Stats.TotalImages, m.Stats.TotalVariants)
		return nil
	}

	fmt.Printf("  %s Manifest has %d error(s):\n", failMark, len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

// validateManifest returns every problem found. Disk checks run only when
// baseDir is set.
func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	keys := make([]string, 0, len(m.Images))
	for k := range m.Images {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seenPaths := map[string]string{}
	variantCount := 0
	for _, key := range keys {
		img := m.Images[key]
		if img.ID == "" {
			errs = append(errs, fmt.Sprintf("image %q: missing id", key))
		}
		if img.Original.Width <= 0 || img.Original.Height <= 0 {
			errs = append(errs, fmt.Sprintf("image %q: invalid original dimensions %dx%d",
				key, img.Original.Width, img.Original.Height))
		}
		if img.Primary.Profile != "" {
			errs = append(errs, fmt.Sprintf("image %q: primary variant carries profile %q", key, img.Primary.Profile))
		}

		for i, v := range img.All() {
			variantCount++
			label := fmt.Sprintf("image %q variant[%d]", key, i)

			if v.Format == "" {
				errs = append(errs, label+": empty format")
			}
			if v.Width <= 0 || v.Height <= 0 {
				errs = append(errs, fmt.Sprintf("%s: invalid dimensions %dx%d", label, v.Width, v.Height))
			}
			if v.Hash == "" {
				errs = append(errs, label+": missing hash")
			}
			if v.Path == "" {
				errs = append(errs, label+": missing path")
				continue
			}

			if other, dup := seenPaths[v.Path]; dup {
				errs = append(errs, fmt.Sprintf("%s: path %q also used by image %q", label, v.Path, other))
			}
			seenPaths[v.Path] = key

			if baseDir == "" {
				continue
			}
			errs = append(errs, checkFile(label, filepath.Join(baseDir, filepath.FromSlash(v.Path)), v)...)
		}
	}

	if m.Stats.TotalImages != len(m.Images) {
		errs = append(errs, fmt.Sprintf("stats.total_images mismatch: %d != %d", m.Stats.TotalImages, len(m.Images)))
	}
	if m.Stats.TotalVariants != variantCount {
		errs = append(errs, fmt.Sprintf("stats.total_variants mismatch: %d != %d", m.Stats.TotalVariants, variantCount))
	}

	return errs
}

func checkFile(label, path string, v manifest.Variant) []string {
	info, err := os.Stat(path)
	if err != nil {
		return []string{fmt.Sprintf("%s: file not found: %s", label, v.Path)}
	}
	if v.Size > 0 && info.Size() != v.Size {
		return []string{fmt.Sprintf("%s: size mismatch: manifest=%d, disk=%d", label, v.Size, info.Size())}
	}
	sum, err := hasher.SumFile(path)
	if err != nil {
		return []string{fmt.Sprintf("%s: hash %s: %v", label, v.Path, err)}
	}
	if v.Hash != "" && sum != v.Hash {
		return []string{fmt.Sprintf("%s: hash mismatch: manifest=%s, disk=%s", label, v.Hash, sum)}
	}
	return nil
}
