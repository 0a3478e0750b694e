package cmd

import (
	"fmt"
	"os"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var verbCmd = &cobra.Command{
	Use:   "verb",
	Short: "Manage known verbs used by reminders",
}

var verbAddCmd = &cobra.Command{
	Use:   "add <verb>",
	Short: "Add a verb",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerbAdd,
}

var verbListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List verbs",
	Args:    cobra.NoArgs,
	RunE:    runVerbList,
}

var verbRmCmd = &cobra.Command{
	Use:   "rm <verb|id>",
	Short: "Remove a verb",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerbRm,
}

func init() {
	verbCmd.AddCommand(verbAddCmd)
	verbCmd.AddCommand(verbListCmd)
	verbCmd.AddCommand(verbRmCmd)
}

func runVerbAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store := mustVocab(ctx)
	defer store.Close()

	v, err := store.AddVerb(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added verb %q (%s)\n", v.Verb, shortID(v.ID))
	return nil
}

func runVerbList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store := mustVocab(ctx)
	defer store.Close()

	verbs, err := store.ListVerbs(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if len(verbs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No verbs yet.")
		return nil
	}
	table := uitable.New()
	table.AddRow("ID", "VERB")
	for _, v := range verbs {
		table.AddRow(shortID(v.ID), v.Verb)
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
	return nil
}

func runVerbRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store := mustVocab(ctx)
	defer store.Close()

	verbs, err := store.ListVerbs(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	v, err := matchVerb(verbs, args[0])
	if err != nil {
		return err
	}
	if err := store.DeleteVerb(ctx, v.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed verb %q\n", v.Verb)
	return nil
}
