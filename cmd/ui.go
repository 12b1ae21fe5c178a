package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jupiter-swap/pkg/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive swap screen",
	Long: `Open the full screen swap form: wallet status on the left, token
selectors, amount and best route on the right. Quotes refresh whenever a
field changes.

Diagnostics go to a log file so they do not garble the screen
(log.file, or jupiter-swap.log in the temp directory).

Keys:
  tab / shift+tab   move between fields
  ← →               change the selected token
  r                 refresh the quote
  enter             press the focused button
  ctrl+o / ctrl+x   connect / disconnect the wallet
  q, ctrl+c         quit`,
	Run: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd, filepath.Join(os.TempDir(), "jupiter-swap.log"))
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	// Pressing "Swap Best Route" is the approval, no extra prompt
	err = ui.Run(cmd.Context(), ui.Deps{
		Env:         a.cfg.Env,
		Quotes:      a.jup,
		LoadCatalog: a.loadCatalog,
		Adapter:     a.adapter(nil),
		Submitter:   a.submitter(),
		Options:     a.formOptions(),
		Log:         a.log,
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}
