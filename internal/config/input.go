// Package config loads and validates scenario files. A scenario file is
// the YAML equivalent of the calculator forms: TVM solves, loan solves and
// an optional retirement simulation, all expressed as plain numeric
// inputs with rates as decimal fractions.
package config

import (
	"fmt"
	"os"

	"github.com/planwell/fincore/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// TVM solve targets accepted in scenario files.
const (
	SolveFutureValue  = "future_value"
	SolvePrincipal    = "principal"
	SolveContribution = "contribution"
	SolveYears        = "years"
	SolveAnnualRate   = "annual_rate"
)

// Loan solve targets accepted in scenario files.
const (
	SolveSchedule = "schedule"
	SolveAmount   = "amount"
	SolveTerm     = "term"
	SolveRate     = "rate"
)

// TVMScenario is one savings calculation request.
type TVMScenario struct {
	Name   string          `yaml:"name"`
	Input  domain.TVMInput `yaml:"input"`
	Solve  string          `yaml:"solve"`
	Target decimal.Decimal `yaml:"target_future_value"`
}

// LoanScenario is one loan calculation request.
type LoanScenario struct {
	Name          string           `yaml:"name"`
	Input         domain.LoanInput `yaml:"input"`
	Solve         string           `yaml:"solve"`
	TargetPayment decimal.Decimal  `yaml:"target_payment"`
}

// ScenarioFile is the root of a scenario YAML document.
type ScenarioFile struct {
	TVM        []TVMScenario           `yaml:"tvm"`
	Loans      []LoanScenario          `yaml:"loans"`
	Retirement *domain.SimulationInput `yaml:"retirement"`
}

// InputParser handles parsing of scenario files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a scenario file.
func (ip *InputParser) LoadFromFile(filename string) (*ScenarioFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.Validate(&file); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}
	return &file, nil
}

// Validate checks the structural shape of a scenario file. The engine
// re-validates numeric ranges on every call; this pass catches malformed
// requests before anything runs.
func (ip *InputParser) Validate(file *ScenarioFile) error {
	if len(file.TVM) == 0 && len(file.Loans) == 0 && file.Retirement == nil {
		return fmt.Errorf("scenario file contains no calculations")
	}

	for i, sc := range file.TVM {
		if sc.Name == "" {
			return fmt.Errorf("tvm scenario %d: name is required", i)
		}
		switch sc.Solve {
		case "", SolveFutureValue:
		case SolvePrincipal, SolveContribution, SolveYears, SolveAnnualRate:
			if sc.Target.LessThanOrEqual(decimal.Zero) {
				return fmt.Errorf("tvm scenario %s: target_future_value is required to solve for %s", sc.Name, sc.Solve)
			}
		default:
			return fmt.Errorf("tvm scenario %s: unknown solve target %q", sc.Name, sc.Solve)
		}
	}

	for i, sc := range file.Loans {
		if sc.Name == "" {
			return fmt.Errorf("loan scenario %d: name is required", i)
		}
		switch sc.Solve {
		case "", SolveSchedule:
		case SolveAmount, SolveTerm, SolveRate:
			if sc.TargetPayment.LessThanOrEqual(decimal.Zero) {
				return fmt.Errorf("loan scenario %s: target_payment is required to solve for %s", sc.Name, sc.Solve)
			}
		default:
			return fmt.Errorf("loan scenario %s: unknown solve target %q", sc.Name, sc.Solve)
		}
	}

	if r := file.Retirement; r != nil {
		if r.Mode != "" && r.Mode != domain.ModeStrict && r.Mode != domain.ModeLenient {
			return fmt.Errorf("retirement: mode must be strict or lenient")
		}
		seen := make(map[string]bool)
		for _, plan := range r.Plans {
			if plan.ID == "" {
				return fmt.Errorf("retirement: every plan needs an id")
			}
			if seen[plan.ID] {
				return fmt.Errorf("retirement: duplicate plan id %s", plan.ID)
			}
			seen[plan.ID] = true
		}
		for _, dp := range r.Dividends {
			if dp.ID == "" {
				return fmt.Errorf("retirement: every dividend plan needs an id")
			}
			if seen[dp.ID] {
				return fmt.Errorf("retirement: duplicate plan id %s", dp.ID)
			}
			seen[dp.ID] = true
		}
	}
	return nil
}
