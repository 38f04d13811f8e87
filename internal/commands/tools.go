package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orcli-org/orcli/pkg/types"
)

// NewToolsCmd groups tool listing, description and invocation.
func NewToolsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List, describe and run tools",
	}
	cmd.AddCommand(newToolsListCmd(app))
	cmd.AddCommand(newToolsDescribeCmd(app))
	cmd.AddCommand(newToolsRunCmd(app))
	return cmd
}

func newToolsListCmd(app *App) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			grouped := app.Registry.Categories()
			categories := make([]string, 0, len(grouped))
			for cat := range grouped {
				categories = append(categories, cat)
			}
			sort.Strings(categories)

			for _, cat := range categories {
				if category != "" && cat != category {
					continue
				}
				fmt.Printf("%s:\n", cat)
				for _, t := range grouped[cat] {
					fmt.Printf("  %-14s %s\n", t.Name, t.Description)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only show tools in this category")
	return cmd
}

func newToolsDescribeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <name>",
		Short: "Show a tool's parameters and example",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := app.Registry.Describe(args[0])
			if err != nil {
				return err
			}
			return printJSON(desc)
		},
	}
}

func newToolsRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run <name> [key=value ...]",
		Short: "Invoke a tool with key=value arguments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs, err := parseArgs(args[1:])
			if err != nil {
				return err
			}

			result := app.Dispatcher.Invoke(cmd.Context(), args[0], toolArgs)
			if err := printJSON(result); err != nil {
				return err
			}
			if !result.Success {
				os.Exit(1)
			}
			return nil
		},
	}
}

// parseArgs turns key=value pairs into typed arguments. Values that
// parse as booleans, integers or JSON keep their type; everything else
// stays a string.
func parseArgs(pairs []string) (types.Args, error) {
	args := types.Args{}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("argument %q is not key=value", pair)
		}
		args[key] = parseValue(value)
	}
	return args, nil
}

func parseValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		var v any
		if json.Unmarshal([]byte(s), &v) == nil {
			return v
		}
	}
	return s
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
