package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
	"github.com/aisp-lang/aisp/internal/analyzer/errors"
	"github.com/aisp-lang/aisp/internal/analyzer/relational"
	"github.com/aisp-lang/aisp/internal/analyzer/semantic"
	"github.com/aisp-lang/aisp/internal/cli/config"
	"github.com/aisp-lang/aisp/internal/validator"
)

var (
	validateJSON    bool
	validateVerbose bool
	validateDoc     string
)

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output results in JSON format")
	validateCmd.Flags().BoolVar(&validateVerbose, "verbose", false, "Show the full relational analysis report")
	validateCmd.Flags().StringVar(&validateDoc, "doc", "", "Path to a JSON document tree to analyze alongside the source")
}

var validateCmd = &cobra.Command{
	Use:   "validate <source-file>",
	Short: "Validate an AISP document",
	Long: `Run the quality/density classifier over an AISP source file and,
when a document tree of three or more blocks is supplied via --doc,
the relational consistency analyzer on top of it`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		// Without a document tree only the symbol-level analyses apply.
		doc := &ast.Document{}
		if validateDoc != "" {
			data, err := os.ReadFile(validateDoc)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", validateDoc, err)
			}
			doc, err = ast.DecodeDocument(data)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", validateDoc, err)
			}
		}

		v := validator.New(cfg.Analyzer.Thresholds(), cfg.Analyzer.MaxAnalysisTime)
		result, err := v.Validate(doc, string(source))
		if err != nil {
			if diag, ok := err.(*errors.AnalysisError); ok {
				if validateJSON {
					outputDiagnosticJSON(diag)
				} else {
					outputDiagnosticTerminal(diag)
				}
				return fmt.Errorf("validation aborted")
			}
			return err
		}

		if validateJSON {
			return outputResultJSON(result)
		}

		outputResultTerminal(args[0], result)
		if !result.Valid {
			return fmt.Errorf("document is invalid")
		}
		return nil
	},
}

func outputResultJSON(result *validator.Result) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputDiagnosticJSON(diag *errors.AnalysisError) {
	output := struct {
		Success    bool                  `json:"success"`
		Diagnostic *errors.AnalysisError `json:"diagnostic"`
	}{
		Success:    false,
		Diagnostic: diag,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.Encode(output)
}

func outputDiagnosticTerminal(diag *errors.AnalysisError) {
	color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "Validation aborted:")
	fmt.Fprintln(os.Stderr)
	fmt.Fprint(os.Stderr, errors.FormatError(diag))
}

func outputResultTerminal(file string, result *validator.Result) {
	sem := result.Semantic

	fmt.Printf("%s\n", file)
	tierColor(sem.Tier).Printf("  Tier: %s %s\n", sem.Tier.Symbol(), sem.Tier)
	fmt.Printf("  Density δ: %.3f (pure %.3f)\n", sem.Delta, sem.PureDensity)
	fmt.Printf("  Ambiguity: %.3f\n", sem.Ambiguity)
	if result.Relational != nil {
		fmt.Printf("  Consistency: %.2f%%\n", result.Relational.ConsistencyScore*100.0)
	}

	if len(result.Warnings) > 0 {
		fmt.Println()
		fmt.Print(errors.FormatErrorList(result.Warnings))
	}

	if validateVerbose && result.Relational != nil {
		fmt.Println()
		fmt.Print(relational.Report(result.Relational))
	}

	fmt.Println()
	if result.Valid {
		color.New(color.FgGreen, color.Bold).Printf("✓ Valid in %.2fms\n",
			float64(result.Duration.Microseconds())/1000.0)
	} else {
		color.New(color.FgRed, color.Bold).Println("✗ Invalid")
	}
}

func tierColor(t semantic.QualityTier) *color.Color {
	switch t {
	case semantic.Platinum, semantic.Gold:
		return color.New(color.FgGreen, color.Bold)
	case semantic.Silver, semantic.Bronze:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}
