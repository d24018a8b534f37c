// ABOUTME: CLI commands for daily log entries.
// ABOUTME: Provides add, get, edit, nuke, and rm subcommands over the entry service.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2389-research/daily/internal/editor"
	"github.com/2389-research/daily/internal/models"
	"github.com/2389-research/daily/internal/storage"
	"github.com/2389-research/daily/internal/tui"
)

var addCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Add one or more entries",
	Long: `Add entries for the chosen date. Each -m starts a new entry made of the
words that follow it, so "add -m fixed the bug -m wrote docs" adds two entries.
Words given before the first -m are joined into one more entry.`,
	RunE: runAdd,
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Show entries",
	Long: `Show the entries for the chosen date. When that date has none, the most
recent date with entries in the last 30 days is shown instead.`,
	Args: cobra.NoArgs,
	RunE: runGet,
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit entries in your editor",
	Long: `Edit entries for the chosen date.

With the file backend the whole day opens in your editor; saving an empty file
deletes the day. With the sqlite backend one entry is edited: choose it with
--id or from a picker, and pass -m to replace its text without an editor.`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

var nukeCmd = &cobra.Command{
	Use:   "nuke",
	Short: "Delete all entries for a date",
	Args:  cobra.NoArgs,
	RunE:  runNuke,
}

var rmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Delete one entry (sqlite backend)",
	Args:  cobra.NoArgs,
	RunE:  runRm,
}

// Flags
var (
	addMessages *messageFlag
	addTag      string
	getIDs      bool
	editID      int64
	editMessage string
	nukeYes     bool
	rmID        int64
	rmYes       bool
)

// Interactive collaborators, replaced in tests.
var (
	newLauncher = func() editor.Launcher {
		configured := ""
		if globalConfig != nil {
			configured = globalConfig.Editor
		}
		return editor.NewCommand(editor.Resolve(configured))
	}
	newConfirmer = func(cmd *cobra.Command) tui.Confirmer {
		return tui.NewConfirmer(os.Stdin, cmd.OutOrStdout())
	}
	pickEntry = func(cmd *cobra.Command, title string, entries []models.Entry) (models.Entry, bool, error) {
		if !tui.IsTerminal(os.Stdin) {
			return models.Entry{}, false, fmt.Errorf("several entries match, pass --id (see daily get --ids)")
		}
		return tui.PickEntry(os.Stdin, cmd.OutOrStdout(), title, entries)
	}
)

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(nukeCmd)
	rootCmd.AddCommand(rmCmd)

	addMessages = newMessageFlag(addCmd.Flags())
	addCmd.Flags().VarP(addMessages, "message", "m", "entry text, repeat for more entries")
	addCmd.Flags().StringVar(&addTag, "tag", "", "tag for the entries (sqlite backend)")

	getCmd.Flags().BoolVar(&getIDs, "ids", false, "list entry ids (sqlite backend)")

	editCmd.Flags().Int64Var(&editID, "id", 0, "entry id to edit (sqlite backend)")
	editCmd.Flags().StringVarP(&editMessage, "message", "m", "", "replacement text, skips the editor (sqlite backend)")

	nukeCmd.Flags().BoolVar(&nukeYes, "yes", false, "skip the confirmation prompt")

	rmCmd.Flags().Int64Var(&rmID, "id", 0, "entry id to delete")
	rmCmd.Flags().BoolVar(&rmYes, "yes", false, "skip the confirmation prompt")
}

func runAdd(cmd *cobra.Command, args []string) error {
	texts := addMessages.Messages(args)

	out := cmd.OutOrStdout()
	if len(texts) == 0 {
		renderWarnings(out, []string{"Nothing to add, pass -m <text>"})
		return nil
	}

	var warnings []string
	for i, text := range texts {
		result, err := globalService.AddTaggedEntry(globalDate, text, addTag)
		if err != nil {
			return err
		}
		if i == 0 {
			warnings = result.Warnings
		}
	}
	globalLogger.Debug("added entries", "date", globalDate.String(), "count", len(texts))
	renderWarnings(out, warnings)
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if getIDs {
		entries, err := globalService.EntryIDs(globalDate)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			renderWarnings(out, []string{fmt.Sprintf("No entry for %s", globalDate)})
			return nil
		}
		renderEntries(out, entries)
		return nil
	}

	result, err := globalService.GetEntry(globalDate)
	if err != nil {
		return err
	}
	renderResult(out, result)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	backend := globalService.Backend()

	if _, err := storage.AsFileEditable(backend); err == nil {
		if cmd.Flags().Changed("id") || cmd.Flags().Changed("message") {
			return &storage.UnsupportedOperationError{Op: "edit --id/-m", Backend: storage.Kind(backend)}
		}
		result, err := globalService.EditEntry(globalDate, newLauncher())
		if err != nil {
			return err
		}
		renderResult(out, result)
		return nil
	}

	id, ok, err := selectEntry(cmd, editID, "Edit which entry?")
	if err != nil || !ok {
		return err
	}

	if cmd.Flags().Changed("message") {
		if strings.TrimSpace(editMessage) == "" {
			renderWarnings(out, []string{"Empty message given, use daily rm to delete an entry"})
			return nil
		}
		if err := globalService.EditEntryByID(id, editMessage); err != nil {
			return err
		}
		entry, err := globalService.EntryByID(id)
		if err != nil {
			return err
		}
		result, err := globalService.GetEntry(entry.Date)
		if err != nil {
			return err
		}
		renderResult(out, result)
		return nil
	}

	result, err := globalService.EditEntryInEditor(id, newLauncher())
	if err != nil {
		return err
	}
	renderResult(out, result)
	return nil
}

func runNuke(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	has, err := globalService.HasEntry(globalDate)
	if err != nil {
		return err
	}
	if !has {
		renderWarnings(out, []string{fmt.Sprintf("No entries to delete for %s", globalDate)})
		return nil
	}

	// An unreadable day can still be deleted.
	result, err := globalService.GetEntry(globalDate)
	if err != nil {
		globalLogger.Debug("could not show entries before nuke", "date", globalDate.String(), "error", err)
		renderWarnings(out, []string{fmt.Sprintf("Could not show entries for %s: %v", globalDate, err)})
	} else {
		renderResult(out, result)
	}

	if !nukeYes {
		prompt := warningStyle.Render(fmt.Sprintf("Do you want to delete all entries for %s?", globalDate))
		ok, err := newConfirmer(cmd).Confirm(prompt)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Nothing deleted.")
			return nil
		}
	}

	removed, err := globalService.NukeEntries(globalDate)
	if err != nil {
		return err
	}
	if !removed {
		renderWarnings(out, []string{fmt.Sprintf("No entries to delete for %s", globalDate)})
		return nil
	}
	renderSuccess(out, "Deleted all entries for %s", globalDate)
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	id, ok, err := selectEntry(cmd, rmID, "Delete which entry?")
	if err != nil || !ok {
		return err
	}

	if !rmYes {
		entry, err := globalService.EntryByID(id)
		if err != nil {
			return err
		}
		prompt := warningStyle.Render(fmt.Sprintf("Do you want to delete entry %s?", entry.Line()))
		ok, err := newConfirmer(cmd).Confirm(prompt)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Nothing deleted.")
			return nil
		}
	}

	removed, err := globalService.DeleteEntryByID(id)
	if err != nil {
		return err
	}
	if !removed {
		renderWarnings(out, []string{fmt.Sprintf("No entry with id %d", id)})
		return nil
	}
	renderSuccess(out, "Deleted entry %d", id)
	return nil
}

// selectEntry returns the entry id given by flag, or picks one of the resolved
// date's entries. ok is false when there is nothing to act on.
func selectEntry(cmd *cobra.Command, flagID int64, title string) (int64, bool, error) {
	if flagID > 0 {
		return flagID, true, nil
	}

	entries, err := globalService.EntryIDs(globalDate)
	if err != nil {
		return 0, false, err
	}
	switch len(entries) {
	case 0:
		renderWarnings(cmd.OutOrStdout(), []string{fmt.Sprintf("No entry for %s", globalDate)})
		return 0, false, nil
	case 1:
		return entries[0].ID, true, nil
	}

	entry, ok, err := pickEntry(cmd, title, entries)
	if err != nil || !ok {
		return 0, false, err
	}
	return entry.ID, true, nil
}
