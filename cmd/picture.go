package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgvariant/internal/locator"
	"github.com/AnyUserName/imgvariant/internal/picture"
)

var (
	pictureWidth  int
	pictureHeight int
)

var pictureCmd = &cobra.Command{
	Use:   "picture <image_id>",
	Short: "Resolve the sources of a stored image for a display size",
	Long: `Prints the <picture> sources of an image as JSON: the chosen variant,
the original, and webp alternates when the chosen profile has one.

Without --width and --height the first linked profile is used.`,
	Args: cobra.ExactArgs(1),
	RunE: runPicture,
}

func init() {
	pictureCmd.Flags().IntVar(&pictureWidth, "width", 0, "display width in pixels")
	pictureCmd.Flags().IntVar(&pictureHeight, "height", 0, "display height in pixels")
	rootCmd.AddCommand(pictureCmd)
}

func runPicture(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	img, err := st.GetImage(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get image: %w", err)
	}

	snap, err := openCatalog(ctx, st)
	if err != nil {
		return err
	}

	pic := picture.NewBuilder(snap, locator.Locator{Host: cfg.Host}).Build(img, pictureWidth, pictureHeight)
	logger.Debug().
		Str("id", img.ID).
		Stringer("match", pic.Match).
		Str("profile", pic.Profile).
		Msg("picture resolved")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(pic)
}
