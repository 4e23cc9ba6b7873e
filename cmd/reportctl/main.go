// Command reportctl runs the engagement analytics offline against JSON files.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/engagement-pulse/internal/errors"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/monitoring"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/nlp"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/report"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/security"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/types"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "reportctl:", err)
		os.Exit(1)
	}
}

func inputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "JSON request file, or - for stdin",
		Required: true,
	}
}

func newApp(stdin io.Reader, stdout io.Writer) *cli.App {
	return &cli.App{
		Name:   "reportctl",
		Usage:  "compute engagement reports, trends, drivers and risk from JSON",
		Reader: stdin,
		Writer: stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger := monitoring.NewLoggerWithWriter(c.App.ErrWriter, monitoring.ParseLevel(c.String("log-level")))
			slog.SetDefault(logger.Logger)
			return nil
		},
		Commands: []*cli.Command{
			generateCommand(),
			driversCommand(),
			trendCommand(),
			riskCommand(),
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "generate a cycle report from a precompute request",
		Flags: []cli.Flag{
			inputFlag(),
			&cli.StringFlag{Name: "api-key", EnvVars: []string{"OPENAI_API_KEY"}, Usage: "text-analysis API key; fallback insights when empty"},
			&cli.StringFlag{Name: "nlp-base-url", EnvVars: []string{"NLP_BASE_URL"}, Value: nlp.DefaultBaseURL},
			&cli.StringFlag{Name: "nlp-model", EnvVars: []string{"NLP_MODEL"}, Value: nlp.DefaultModel},
			&cli.DurationFlag{Name: "nlp-timeout", Value: report.DefaultNLPTimeout},
			&cli.BoolFlag{Name: "strict", Usage: "fail instead of using fallback insights"},
			&cli.StringFlag{Name: "model-dir", Usage: "directory holding risk_model.json"},
			&cli.IntFlag{Name: "max-text-length", Value: security.DefaultConfig().MaxTextLength, Usage: "rune cap for each free-text answer"},
		},
		Action: func(c *cli.Context) error {
			var req types.PrecomputeRequest
			if err := readInput(c, &req); err != nil {
				return err
			}
			if problems := req.Validate(); len(problems) > 0 {
				return apperrors.NewValidationErrorWithMap(problems)
			}

			riskModel, err := loadRiskModel(c.String("model-dir"))
			if err != nil {
				return err
			}

			var analyzer nlp.Analyzer = nlp.StaticAnalyzer{}
			if key := c.String("api-key"); key != "" {
				analyzer = nlp.NewClient(nlp.Config{
					APIKey:  key,
					BaseURL: c.String("nlp-base-url"),
					Model:   c.String("nlp-model"),
				})
			}

			orchestrator := report.NewOrchestrator(analyzer, riskModel, report.Config{
				NLPTimeout: c.Duration("nlp-timeout"),
				StrictNLP:  c.Bool("strict"),
			})

			in := report.InputFromRequest(req, c.Int("max-text-length"))

			r, err := orchestrator.Generate(context.Background(), in)
			if err != nil {
				return err
			}
			return writeJSON(c, r)
		},
	}
}

func driversCommand() *cli.Command {
	return &cli.Command{
		Name:  "drivers",
		Usage: "rank theme series by impact on engagement",
		Flags: []cli.Flag{inputFlag()},
		Action: func(c *cli.Context) error {
			var req types.DriverRequest
			if err := readInput(c, &req); err != nil {
				return err
			}
			drivers := analysis.AnalyzeDrivers(req.Themes)
			if drivers == nil {
				drivers = []analysis.DriverImpact{}
			}
			return writeJSON(c, types.DriverResponse{Drivers: drivers})
		},
	}
}

func trendCommand() *cli.Command {
	return &cli.Command{
		Name:  "trend",
		Usage: "bucket dated scores by month or quarter",
		Flags: []cli.Flag{
			inputFlag(),
			&cli.StringFlag{Name: "interval", Usage: "month or quarter; overrides the file"},
		},
		Action: func(c *cli.Context) error {
			var req types.TrendAggregateRequest
			if err := readInput(c, &req); err != nil {
				return err
			}
			if c.IsSet("interval") {
				req.Interval = c.String("interval")
			}

			points, interval, problems := req.ScorePoints()
			if len(problems) > 0 {
				return apperrors.NewValidationErrorWithMap(problems)
			}

			buckets := report.SortedBuckets(analysis.AggregateTimeSeries(points, interval))
			return writeJSON(c, report.TrendResponse{Interval: string(interval), Buckets: buckets})
		},
	}
}

func riskCommand() *cli.Command {
	return &cli.Command{
		Name:  "risk",
		Usage: "attrition risk for one cohort",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "engagement", Required: true},
			&cli.Float64Flag{Name: "tenure", Value: report.DefaultTenureMonths},
			&cli.Float64Flag{Name: "manager-rating", Value: report.DefaultManagerRating},
			&cli.StringFlag{Name: "model-dir", Usage: "directory holding risk_model.json"},
		},
		Action: func(c *cli.Context) error {
			tenure := c.Float64("tenure")
			rating := c.Float64("manager-rating")
			req := types.RiskRequest{EngagementScore: c.Float64("engagement"), TenureMonths: &tenure, ManagerRating: &rating}
			if problems := req.Validate(); len(problems) > 0 {
				return apperrors.NewValidationErrorWithMap(problems)
			}

			model, err := loadRiskModel(c.String("model-dir"))
			if err != nil {
				return err
			}

			score := analysis.AttritionRisk(model, analysis.RiskFeatures{
				EngagementScore: req.EngagementScore,
				TenureMonths:    tenure,
				ManagerRating:   rating,
			})
			return writeJSON(c, types.RiskResponse{RiskScore: score})
		},
	}
}

func loadRiskModel(dir string) (analysis.RiskModel, error) {
	if dir == "" {
		return analysis.DefaultRiskModel, nil
	}
	model, err := analysis.NewRiskModelStore(dir).Load()
	if err != nil {
		return nil, apperrors.NewConfigurationError("load risk model", err)
	}
	return model, nil
}

func readInput(c *cli.Context, dst interface{}) error {
	path := c.String("input")

	var r io.Reader
	if path == "-" {
		r = c.App.Reader
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid JSON input", err.Error())
	}
	return nil
}

func writeJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
