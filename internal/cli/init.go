package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/bib/internal/config"
	"github.com/aidanlsb/bib/internal/mdtable"
	"github.com/aidanlsb/bib/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a new bibliography repository",
	Long: `Creates a new bibliography repository at the given path (default ".").

Creates:
  - .bib/settings.yaml  (index and page shapes)
  - index.md            (the reference index, one empty table)
  - references/         (one markdown page per reference)
  - .gitignore          (ignores the lookup cache)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}

		if _, err := os.Stat(filepath.Join(path, config.SettingsFile)); err == nil {
			return handleErrorMsg(ErrRepoExists,
				fmt.Sprintf("bib repository already exists at %s", path), "")
		}

		if err := os.MkdirAll(path, 0755); err != nil {
			return handleError(ErrFileWriteError,
				fmt.Errorf("failed to create repository directory: %w", err), "")
		}

		if err := config.WriteDefaultSettings(path); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		settings := config.DefaultSettings()

		indexPath := settings.IndexPath(path)
		indexStatus := "created"
		if _, err := os.Stat(indexPath); err == nil {
			// An existing index is kept; adopting a hand-written file is the
			// normal way to bring a repository under bib.
			indexStatus = "kept"
		} else if _, err := mdtable.Create(indexPath, settings.IndexTemplate()); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if err := os.MkdirAll(settings.ReferenceDir(path), 0755); err != nil {
			return handleError(ErrFileWriteError,
				fmt.Errorf("failed to create references directory: %w", err), "")
		}

		if err := ensureGitignore(path); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{
				"path":  path,
				"index": settings.Index.Path,
			}, nil)
			return nil
		}

		fmt.Println(ui.Success("Created " + config.SettingsFile))
		if indexStatus == "created" {
			fmt.Println(ui.Success("Created " + settings.Index.Path))
		} else {
			fmt.Println("• " + settings.Index.Path + " already exists (kept)")
		}
		fmt.Println(ui.Success("Created " + settings.Reference.Path + "/"))
		fmt.Println()
		fmt.Println("Initialized bib repository. Add a paper with 'bib add <title>'.")
		return nil
	},
}

// ensureGitignore adds the cache entry; settings stay tracked so the repo's
// markdown shapes travel with it.
func ensureGitignore(path string) error {
	gitignorePath := filepath.Join(path, ".gitignore")
	entry := config.BibDir + "/cache.db"

	existing := ""
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existing = string(data)
	}
	if existing != "" {
		for _, line := range []string{entry, config.BibDir + "/"} {
			if containsLine(existing, line) {
				return nil
			}
		}
	}

	content := existing
	if content != "" && content[len(content)-1] != '\n' {
		content += "\n"
	}
	content += "# bib lookup cache (derived, rebuilt on demand)\n" + entry + "\n"
	if err := os.WriteFile(gitignorePath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return nil
}

func containsLine(content, line string) bool {
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(initCmd)
}
