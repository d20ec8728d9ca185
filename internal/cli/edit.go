package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <key>",
	Short: "Open a reference page in your editor",
	Long: `Opens the reference page for a citation key in your configured editor.

The editor is determined by (in order):
  1. The 'editor' setting in ~/.config/bib/config.toml
  2. The $EDITOR environment variable`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		relPath := pageRelPath(key)
		absPath := pageAbsPath(relPath)

		if _, err := os.Stat(absPath); err != nil {
			if os.IsNotExist(err) {
				return handleErrorMsg(ErrPageNotFound,
					fmt.Sprintf("no reference page for key %q", key),
					"Keys are listed in the index's reference column")
			}
			return handleError(ErrFileReadError, err, "")
		}

		if isJSONOutput() {
			opened := openInEditor(absPath)
			outputSuccess(map[string]interface{}{
				"page":   relPath,
				"opened": opened,
				"editor": cfg.GetEditor(),
			}, nil)
			return nil
		}

		if openInEditor(absPath) {
			fmt.Printf("Opening %s\n", relPath)
		} else {
			fmt.Printf("File: %s\n", relPath)
			fmt.Println("(Set 'editor' in ~/.config/bib/config.toml or $EDITOR to open automatically)")
		}
		return nil
	},
}

// openInEditor starts the configured editor on a file, non-blocking. An
// editor value containing spaces (e.g. "open -a Cursor") runs via the shell.
func openInEditor(filePath string) bool {
	editor := cfg.GetEditor()
	if editor == "" {
		return false
	}

	var c *exec.Cmd
	if strings.Contains(editor, " ") {
		c = exec.Command("sh", "-c", editor+" "+shellQuote(filePath))
	} else {
		c = exec.Command(editor, filePath)
	}
	if err := c.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to open editor %q: %v\n", editor, err)
		return false
	}
	return true
}

// shellQuote quotes a string for safe use in shell commands.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}

func init() {
	rootCmd.AddCommand(editCmd)
}
