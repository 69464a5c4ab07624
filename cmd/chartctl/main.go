package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"stock-trend/src/grpc_control"

	"github.com/spf13/cobra"
)

type options struct {
	addr    string
	symbol  string
	source  string
	start   string
	end     string
	preset  string
	figure  bool
	timeout time.Duration
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "chartctl",
	Short: "Fetch one chart from a running stock-trend server",
	Long: `chartctl asks the gRPC chart service for the candlestick series and moving
averages of a symbol and prints the result as JSON. With --figure it prints the
plot figure instead.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChart(cmd.Context(), opts)
	},
}

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Resolve a quick-range preset against the server's reference date",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRange(cmd.Context(), opts)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.addr, "addr", "127.0.0.1:50051", "gRPC address of the chart service")
	pf.StringVar(&opts.preset, "preset", "", "quick range 1M, 6M, 1Y or 5Y; overrides --start and --end")
	pf.DurationVar(&opts.timeout, "timeout", 60*time.Second, "request timeout")

	f := rootCmd.Flags()
	f.StringVar(&opts.symbol, "symbol", "", "ticker, empty for the server default")
	f.StringVar(&opts.source, "source", "", "named data source, empty for the default")
	f.StringVar(&opts.start, "start", "", "start date YYYY-MM-DD")
	f.StringVar(&opts.end, "end", "", "end date YYYY-MM-DD")
	f.BoolVar(&opts.figure, "figure", false, "print the plot figure instead of the chart data")

	rootCmd.AddCommand(rangeCmd)
}

// -----------------------------------------------------------------------------

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "chartctl: %v\n", err)
		os.Exit(1)
	}
}

// -----------------------------------------------------------------------------

func runChart(ctx context.Context, o options) error {
	client, conn, err := grpc_control.Dial(o.addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start, end := o.start, o.end
	if o.preset != "" {
		r, err := client.ResolveRange(ctx, grpc_control.RangeRequest{Preset: o.preset})
		if err != nil {
			return fmt.Errorf("resolve %s: %w", o.preset, err)
		}
		start, end = r.Start, r.End
	}

	req := grpc_control.ChartRequest{Symbol: o.symbol, Source: o.source, Start: start, End: end}

	var out interface{}
	if o.figure {
		out, err = client.GetFigure(ctx, req)
	} else {
		out, err = client.GetChart(ctx, req)
	}
	if err != nil {
		return err
	}
	return printJSON(out)
}

// -----------------------------------------------------------------------------

func runRange(ctx context.Context, o options) error {
	client, conn, err := grpc_control.Dial(o.addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	r, err := client.ResolveRange(ctx, grpc_control.RangeRequest{Preset: o.preset})
	if err != nil {
		return err
	}
	return printJSON(r)
}

// -----------------------------------------------------------------------------

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
