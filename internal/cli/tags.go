package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/gqlextract/internal/document"
	"github.com/mvp-joe/gqlextract/internal/extract/tags"
)

// tagsCmd represents the tags command
var tagsCmd = &cobra.Command{
	Use:   "tags <file>",
	Short: "Run only the syntax-tree tag finder on a file",
	Long: `Parse a file with tree-sitter and print the GraphQL templates the tag
finder locates, whatever extraction strategy its extension would normally use.
Useful for comparing the tag finder with the default extraction of a
JavaScript or TypeScript file.`,
	Args: cobra.ExactArgs(1),
	RunE: runTags,
}

var tagsTree bool

func init() {
	tagsCmd.Flags().BoolVar(&tagsTree, "tree", false, "print the syntax tree instead of templates")
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if tagsTree {
		return tags.Dump(cmd.Context(), cmd.OutOrStdout(), string(content), document.Ext(path))
	}

	finder := tags.New(cfg.Tags.Names...)
	templates, err := finder.Find(cmd.Context(), string(content), document.Ext(path), path, logger)
	if err != nil {
		return err
	}

	fragments := make([]document.Fragment, 0, len(templates))
	for _, t := range templates {
		fragments = append(fragments, document.Fragment{Text: t.Template, Range: t.Range})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(fragments)
}
