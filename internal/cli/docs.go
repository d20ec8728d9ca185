package cli

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	builtindocs "github.com/aidanlsb/bib/docs"
	"github.com/aidanlsb/bib/internal/ui"
)

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Browse documentation bundled with the binary",
	Long: `Browse long-form documentation bundled into the bib binary.
Without arguments the available topics are listed.

For command-level usage, use 'bib help <command>'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, err := listDocTopics()
		if err != nil {
			return handleError(ErrInternal, err, "Rebuild bib so bundled docs are available")
		}

		if len(args) == 0 {
			if isJSONOutput() {
				outputSuccess(topics, &Meta{Count: len(topics)})
				return nil
			}
			fmt.Println(ui.Header("Topics:"))
			for _, t := range topics {
				fmt.Println("  " + t)
			}
			fmt.Println()
			fmt.Println(ui.Hint("Read one with 'bib docs <topic>'"))
			return nil
		}

		topic := strings.TrimSuffix(args[0], ".md")
		data, err := fs.ReadFile(builtindocs.FS, path.Join("guide", topic+".md"))
		if err != nil {
			return handleErrorMsg(ErrInvalidInput,
				fmt.Sprintf("unknown topic %q (have: %s)", topic, strings.Join(topics, ", ")), "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{"topic": topic, "content": string(data)}, nil)
			return nil
		}

		display := ui.NewDisplayContext()
		if !display.IsTTY {
			fmt.Print(string(data))
			return nil
		}
		rendered, err := ui.RenderMarkdown(string(data), display.AvailableWidth(ui.MarkdownRenderMargin))
		if err != nil {
			fmt.Print(string(data))
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func listDocTopics() ([]string, error) {
	entries, err := fs.ReadDir(builtindocs.FS, "guide")
	if err != nil {
		return nil, err
	}
	topics := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		topics = append(topics, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(topics)
	return topics, nil
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
