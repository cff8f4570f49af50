package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/hwhelper/internal/store"
)

const dateLayout = "2006-01-02"

var conceptsCmd = &cobra.Command{
	Use:     "concepts",
	Aliases: []string{"concept"},
	Short:   "Track the concepts taught at school",
}

var conceptsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a concept for --subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		c := store.Concept{}
		c.Topic, _ = f.GetString("topic")
		c.Type, _ = f.GetString("type")
		c.DateStart, _ = f.GetString("date")
		c.DateEnd, _ = f.GetString("end")
		c.Notes, _ = f.GetString("notes")
		if c.DateStart == "" {
			c.DateStart = time.Now().Format(dateLayout)
		}
		for _, d := range []string{c.DateStart, c.DateEnd} {
			if err := checkDate(d); err != nil {
				return err
			}
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			c.Subject = e.cfg.Subject
			id, err := e.store.Concepts().Add(ctx, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added concept %d: %s (%s)\n", id, c.Topic, c.Subject)
			return nil
		})
	},
}

var conceptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List concepts, newest first or within a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		limit, _ := cmd.Flags().GetInt("limit")
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			list, err := listConcepts(ctx, e.store.Concepts(), from, to, limit)
			if err != nil {
				return err
			}
			printConcepts(cmd.OutOrStdout(), list)
			return nil
		})
	},
}

var conceptsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a concept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid concept id %q", args[0])
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			if err := e.store.Concepts().Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted concept %d\n", id)
			return nil
		})
	},
}

var conceptsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export concepts in a date range to PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			list, err := e.store.Concepts().ListRange(ctx, from, to)
			if err != nil {
				return err
			}
			path, err := e.exporter().Concepts(list)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		})
	},
}

func listConcepts(ctx context.Context, repo store.ConceptRepo, from, to string, limit int) ([]store.Concept, error) {
	if from == "" && to == "" {
		return repo.Recent(ctx, limit)
	}
	for _, d := range []string{from, to} {
		if err := checkDate(d); err != nil {
			return nil, err
		}
	}
	return repo.ListRange(ctx, from, to)
}

func checkDate(d string) error {
	if d == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, d); err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", d)
	}
	return nil
}

func printConcepts(w io.Writer, list []store.Concept) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No concepts recorded.")
		return
	}
	fmt.Fprintf(w, "%-5s  %-10s  %-10s  %-10s  %-28s  %s\n", "ID", "Start", "End", "Subject", "Topic", "Type")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	for _, c := range list {
		fmt.Fprintf(w, "%-5d  %-10s  %-10s  %-10s  %-28s  %s\n",
			c.ID, c.DateStart, c.DateEnd, truncate(c.Subject, 10), truncate(c.Topic, 28), c.Type)
		if c.Notes != "" {
			fmt.Fprintf(w, "       %s\n", c.Notes)
		}
	}
}

func init() {
	af := conceptsAddCmd.Flags()
	af.String("topic", "", "Topic taught")
	af.String("type", "", "Kind of concept (e.g. grammar, vocabulary, other)")
	af.String("date", "", "Start date YYYY-MM-DD (default: today)")
	af.String("end", "", "End date YYYY-MM-DD (default: start date)")
	af.String("notes", "", "Free-form notes")
	_ = conceptsAddCmd.MarkFlagRequired("topic")

	for _, c := range []*cobra.Command{conceptsListCmd, conceptsExportCmd} {
		c.Flags().String("from", "", "First date YYYY-MM-DD")
		c.Flags().String("to", "", "Last date YYYY-MM-DD")
	}
	conceptsListCmd.Flags().IntP("limit", "n", 30, "Number of recent concepts when no range is given")

	conceptsCmd.AddCommand(conceptsAddCmd, conceptsListCmd, conceptsDeleteCmd, conceptsExportCmd)
}
