package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/dqs/internal/application/search"
	"github.com/zjrosen/dqs/internal/log"
	"github.com/zjrosen/dqs/internal/presentation"
)

var batchCmd = &cobra.Command{
	Use:   "batch [FILE]",
	Short: "Execute many serializations in one process",
	Long: `Execute one serialization per line and print the results as a JSON array.
Lines are read from FILE, or from stdin when FILE is omitted or "-". Each
line is KIND INPUT, where KIND is one of

  json     a JSON document
  url      NAME/VALUE/... path
  ops      NAME/-OPERATION/KEY-VALUE/... operation path
  request  form-encoded values

Blank lines and lines starting with "#" are skipped. Every line shares one
result cache, so repeated queries are served from it. The first failing line
stops the batch.

Example:
  dqs batch <<'EOF'
  url people-by-gender/female
  request name=people-by-gender&gender=female
  json {"name": "people-search", "stack": [{"name": "filter", "args": {"param": "ann"}}]}
  EOF`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening batch: %w", err)
			}
			defer func() { _ = f.Close() }()
			in = f
		}

		app, err := openApplication(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		results, err := runBatch(cmd.Context(), app.search, in)
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatValue(results)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

// runBatch executes every line of r against svc in order.
func runBatch(ctx context.Context, svc *search.Service, r io.Reader) ([]presentation.ResultDTO, error) {
	results := []presentation.ResultDTO{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		result, err := executeLine(ctx, svc, line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		dto := toResultDTO(result)
		if dto.People == nil {
			dto.People = []presentation.PersonDTO{}
		}
		results = append(results, dto)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading batch: %w", err)
	}

	log.Debug(log.CatCLI, "Batch finished", "executions", len(results))
	return results, nil
}

func executeLine(ctx context.Context, svc *search.Service, line string) (*search.Result, error) {
	kind, input, _ := strings.Cut(line, " ")
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("expected KIND INPUT, got %q", line)
	}

	switch kind {
	case "json":
		return svc.ExecuteJSON(ctx, []byte(input))
	case "url":
		return svc.ExecutePath(ctx, input, "")
	case "ops":
		return svc.ExecuteOperationPath(ctx, input)
	case "request":
		values, err := url.ParseQuery(input)
		if err != nil {
			return nil, fmt.Errorf("parsing request: %w", err)
		}
		return svc.ExecuteRequest(ctx, values)
	default:
		return nil, fmt.Errorf("unknown batch kind %q", kind)
	}
}
