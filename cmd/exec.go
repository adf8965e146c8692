package cmd

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/dqs/internal/application/search"
	"github.com/zjrosen/dqs/internal/presentation"
)

var (
	execPositional bool
	urlName        string
	urlOperations  bool
)

var execCmd = &cobra.Command{
	Use:   "exec NAME [KEY=VALUE...]",
	Short: "Execute a serialization with keyed or positional parameters",
	Long: `Execute a registered serialization and print the matching people.

Parameters are KEY=VALUE pairs. Keys may be written bare, with "$" or with
"__"; the bare form wins when both are given. With --positional every
argument after NAME is a value, matched to placeholders in declaration order.

Examples:
  dqs exec people-search param=ann
  dqs exec people-except lookup=gender value=male
  dqs exec people-by-name-and-gender --positional an female`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, rest := args[0], args[1:]
		return runSearch(cmd, func(svc *search.Service) (*search.Result, error) {
			if execPositional {
				values := make([]any, len(rest))
				for i, v := range rest {
					values[i] = v
				}
				return svc.ExecuteValues(cmd.Context(), name, values)
			}
			params, err := parseKeyValues(rest)
			if err != nil {
				return nil, err
			}
			return svc.Execute(cmd.Context(), name, params)
		})
	},
}

var urlCmd = &cobra.Command{
	Use:   "url PATH",
	Short: "Execute a serialization encoded as a URL path",
	Long: `Execute a serialization from a URL path.

By default the first segment names the serialization and the rest are
positional values. With --name every segment is a value. With --ops the path
is an operation path: NAME/-OPERATION/KEY-VALUE/...

Examples:
  dqs url people-by-gender/female
  dqs url --name people-by-gender female
  dqs url --ops people-by-name-and-gender/-filter/name-an/-filter/gender-f`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, func(svc *search.Service) (*search.Result, error) {
			if urlOperations {
				return svc.ExecuteOperationPath(cmd.Context(), args[0])
			}
			return svc.ExecutePath(cmd.Context(), args[0], urlName)
		})
	},
}

var jsonCmd = &cobra.Command{
	Use:   "json [FILE]",
	Short: "Execute a serialization described by a JSON document",
	Long: `Execute a JSON document of the form

  {"name": "people-search", "stack": [{"name": "filter", "args": {"$param": "ann"}}]}

read from FILE, or from stdin when FILE is omitted or "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if len(args) == 0 || args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}
		return runSearch(cmd, func(svc *search.Service) (*search.Result, error) {
			return svc.ExecuteJSON(cmd.Context(), data)
		})
	},
}

var requestCmd = &cobra.Command{
	Use:   "request QUERY",
	Short: "Execute a serialization from form-encoded request values",
	Long: `Execute a form-encoded request. The serialization name is read from the
configured name field (request.name_field, default "name").

Examples:
  dqs request 'name=people-search&param=ann'
  dqs request 'name=people-in&ids=1&ids=3'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := url.ParseQuery(args[0])
		if err != nil {
			return fmt.Errorf("parsing request: %w", err)
		}
		return runSearch(cmd, func(svc *search.Service) (*search.Result, error) {
			return svc.ExecuteRequest(cmd.Context(), values)
		})
	},
}

func init() {
	execCmd.Flags().BoolVarP(&execPositional, "positional", "p", false, "treat arguments after NAME as positional values")
	urlCmd.Flags().StringVarP(&urlName, "name", "n", "", "serialization name; every path segment becomes a value")
	urlCmd.Flags().BoolVar(&urlOperations, "ops", false, "decode an operation path (NAME/-OP/KEY-VALUE)")
	rootCmd.AddCommand(execCmd, urlCmd, jsonCmd, requestCmd)
}

// runSearch opens the application, runs fn and prints its result.
func runSearch(cmd *cobra.Command, fn func(*search.Service) (*search.Result, error)) error {
	app, err := openApplication(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	result, err := fn(app.search)
	if err != nil {
		return err
	}
	return presentation.NewFormatter(cmd.OutOrStdout()).FormatResult(toResultDTO(result))
}

// parseKeyValues turns KEY=VALUE arguments into parameters. A repeated key
// collects its values into a list.
func parseKeyValues(args []string) (map[string]any, error) {
	params := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected KEY=VALUE, got %q", arg)
		}
		switch prev := params[key].(type) {
		case nil:
			params[key] = value
		case string:
			params[key] = []string{prev, value}
		case []string:
			params[key] = append(prev, value)
		}
	}
	return params, nil
}
