package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/planwell/fincore/internal/calculation"
	"github.com/planwell/fincore/internal/config"
	"github.com/planwell/fincore/internal/domain"
	"github.com/planwell/fincore/internal/output"
	"github.com/planwell/fincore/internal/server"
	"github.com/planwell/fincore/internal/solve"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "fincore",
	Short: "Financial planning calculators",
	Long:  "TVM, loan amortization and retirement projection calculators",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "fincore %s\n", version)
	},
}

var tvmCmd = &cobra.Command{
	Use:   "tvm [scenario-file]",
	Short: "Run the TVM scenarios in a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}
		for _, sc := range file.TVM {
			res, err := runTVMScenario(sc)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			fmt.Fprint(os.Stdout, output.FormatSolve(sc.Name, res))
		}
		return nil
	},
}

var loanCmd = &cobra.Command{
	Use:   "loan [scenario-file]",
	Short: "Run the loan scenarios in a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}
		csvPath, _ := cmd.Flags().GetString("csv")
		pdfPath, _ := cmd.Flags().GetString("pdf")

		for _, sc := range file.Loans {
			if sc.Solve == "" || sc.Solve == config.SolveSchedule {
				rows, err := calculation.BuildSchedule(sc.Input)
				if err != nil {
					return fmt.Errorf("scenario %s: %w", sc.Name, err)
				}
				fmt.Fprint(os.Stdout, output.FormatSchedule(sc.Name, rows))
				if csvPath != "" {
					data, err := output.ScheduleCSV(rows)
					if err != nil {
						return err
					}
					if err := os.WriteFile(csvPath, data, 0644); err != nil {
						return err
					}
				}
				if pdfPath != "" {
					data, err := output.SchedulePDF(sc.Name, rows)
					if err != nil {
						return err
					}
					if err := os.WriteFile(pdfPath, data, 0644); err != nil {
						return err
					}
				}
				continue
			}

			res, err := runLoanSolve(sc)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			fmt.Fprint(os.Stdout, output.FormatLoanSolve(sc.Name, res))
		}
		return nil
	},
}

var retireCmd = &cobra.Command{
	Use:   "retire [scenario-file]",
	Short: "Run the retirement simulation in a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}
		if file.Retirement == nil {
			return fmt.Errorf("scenario file has no retirement section")
		}

		res, err := calculation.RunSimulation(*file.Retirement)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, output.FormatSimulation(res))

		if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
			data, err := output.SimulationCSV(res)
			if err != nil {
				return err
			}
			if err := os.WriteFile(csvPath, data, 0644); err != nil {
				return err
			}
		}
		if pdfPath, _ := cmd.Flags().GetString("pdf"); pdfPath != "" {
			data, err := output.SimulationPDF(res)
			if err != nil {
				return err
			}
			if err := os.WriteFile(pdfPath, data, 0644); err != nil {
				return err
			}
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := server.LoadConfig(configPath)
		if err != nil {
			return err
		}

		logger, err := buildLogger(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		var cache server.Cache
		if cfg.RedisAddr != "" {
			cache = server.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
			logger.Info("using redis cache", zap.String("addr", cfg.RedisAddr))
		} else {
			cache = server.NewMemoryCache()
		}

		handler := server.NewHandler(logger, cache, version)
		logger.Info("listening", zap.String("address", cfg.Address))
		return http.ListenAndServe(cfg.Address, handler)
	},
}

func runTVMScenario(sc config.TVMScenario) (domain.SolveResult, error) {
	switch sc.Solve {
	case "", config.SolveFutureValue:
		return calculation.FutureValue(sc.Input)
	case config.SolvePrincipal:
		return solve.SolvePrincipal(sc.Input, sc.Target)
	case config.SolveContribution:
		return solve.SolveContribution(sc.Input, sc.Target)
	case config.SolveYears:
		return solve.SolveYears(sc.Input, sc.Target)
	default:
		return solve.SolveAnnualRate(sc.Input, sc.Target)
	}
}

func runLoanSolve(sc config.LoanScenario) (domain.LoanSolveResult, error) {
	switch sc.Solve {
	case config.SolveAmount:
		return solve.SolveLoanAmount(sc.Input, sc.TargetPayment)
	case config.SolveTerm:
		return solve.SolveLoanTerm(sc.Input, sc.TargetPayment)
	default:
		return solve.SolveLoanRate(sc.Input, sc.TargetPayment)
	}
}

func buildLogger(level, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "", "info":
		zapLevel = zapcore.InfoLevel
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "", "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	return cfg.Build()
}

func main() {
	loanCmd.Flags().String("csv", "", "write the amortization schedule to a CSV file")
	loanCmd.Flags().String("pdf", "", "write the amortization schedule to a PDF file")
	retireCmd.Flags().String("csv", "", "write the balance series to a CSV file")
	retireCmd.Flags().String("pdf", "", "write the projection report to a PDF file")
	serveCmd.Flags().String("config", "", "server configuration file")

	rootCmd.AddCommand(versionCmd, tvmCmd, loanCmd, retireCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
