package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/logger"
)

// calcOptions holds the flags of one calc subcommand.
type calcOptions struct {
	master map[string]*string
	items  []string
	file   string
	output string
	save   bool
}

// calcJob is the layout of a --file job. JSON files parse as YAML.
//
//	type: sheets-kg
//	master: {length: 1000, width: 1000, weight: 50}
//	items:
//	  - [2, 500, 250]
type calcJob struct {
	Type   string                          `yaml:"type"`
	Master map[string]domain.NumericString `yaml:"master"`
	Items  [][]domain.NumericString        `yaml:"items"`
}

var calcJobOpts = &calcOptions{}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Run a calculator",
	Long: `Evaluate a worksheet and print the line subtotals and total.

Use one of the subcommands, or pass --file with a job file whose "type"
names the calculator. Master parameters not given keep their configured
defaults. Line items are given as colon-separated values in column order:

  chapas calc sheets-kg --length 1000 --width 1000 --weight 50 --item 2:500:250
  chapas calc bars-kg --weight 24 --item 2:3:500 --save
  chapas calc sheets-un --item 1000:2000:4
  chapas calc paint --item 1000:1000:2 --output json
  chapas calc --file job.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if calcJobOpts.file == "" {
			return cmd.Help()
		}
		job, err := readCalcJob(calcJobOpts.file)
		if err != nil {
			return err
		}
		t, ok := domain.ParseCalculatorType(job.Type)
		if !ok {
			return fmt.Errorf("%w: job file needs a known type, got %q", domain.ErrInvalidInput, job.Type)
		}
		return runCalc(cmd, t, calcJobOpts, job)
	},
}

func init() {
	addOutputFlags(calcCmd, calcJobOpts)
	calcCmd.Flags().StringVarP(&calcJobOpts.file, "file", "f", "", "YAML or JSON job file")

	for _, t := range domain.AllCalculatorTypes() {
		calcCmd.AddCommand(newCalcTypeCmd(t))
	}
	rootCmd.AddCommand(calcCmd)
}

func newCalcTypeCmd(t domain.CalculatorType) *cobra.Command {
	opts := &calcOptions{master: make(map[string]*string)}
	table := domain.Tabulate(mustNewCalculation(t))

	cmd := &cobra.Command{
		Use:   t.Slug(),
		Short: t.Title(),
		Long: fmt.Sprintf("%s.\n\nItem columns: %s.",
			t.Title(), strings.Join(table.Headers, ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var job *calcJob
			if opts.file != "" {
				var err error
				if job, err = readCalcJob(opts.file); err != nil {
					return err
				}
				if jt, ok := domain.ParseCalculatorType(job.Type); job.Type != "" && (!ok || jt != t) {
					return fmt.Errorf("%w: job file is for %q, not %s", domain.ErrInvalidInput, job.Type, t.Slug())
				}
			}
			return runCalc(cmd, t, opts, job)
		},
	}

	for i, key := range domain.MasterKeys(t) {
		opts.master[key] = new(string)
		cmd.Flags().StringVar(opts.master[key], key, "", table.Master[i].Label)
	}
	cmd.Flags().StringArrayVarP(&opts.items, "item", "i", nil,
		"line item as "+strings.Join(table.Headers, ":")+" (repeatable)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "YAML or JSON job file")
	addOutputFlags(cmd, opts)
	return cmd
}

func addOutputFlags(cmd *cobra.Command, opts *calcOptions) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputText, "output format: text, json or yaml")
	cmd.Flags().BoolVarP(&opts.save, "save", "s", false, "save the result to history")
}

func mustNewCalculation(t domain.CalculatorType) domain.Calculation {
	c, err := domain.DefaultAppSettings().Defaults.NewCalculation(t)
	if err != nil {
		panic(err)
	}
	return c
}

func runCalc(cmd *cobra.Command, t domain.CalculatorType, opts *calcOptions, job *calcJob) error {
	if calculatorService == nil {
		return errors.New("calculator service not configured")
	}

	c, err := calculatorService.New(t)
	if err != nil {
		return err
	}
	if err := fillCalculation(c, opts, job); err != nil {
		return err
	}

	logger.Section(t.Title())
	logger.Debug("%d line(s), total %s", c.Len(), t.FormatTotal(c.Total()))

	out := newCalcOutput(c)
	if opts.save {
		rec, err := calculatorService.Save(cmd.Context(), c)
		switch {
		case errors.Is(err, domain.ErrSaveRejected):
			out.Rejected = true
		case err != nil:
			return fmt.Errorf("failed to save calculation: %w", err)
		default:
			out.ID = rec.ID
			out.SavedAt = rec.CreatedAt().Format(dateLayout)
		}
	}

	w := cmd.OutOrStdout()
	if opts.output != outputText {
		return writeStructured(w, opts.output, out)
	}

	writeCalculation(w, c)
	switch {
	case out.Rejected:
		cmd.Println("Not saved: a calculation with a zero result cannot be saved.")
	case out.ID != 0:
		cmd.Printf("Saved to history as %d.\n", out.ID)
	}
	return nil
}

// fillCalculation applies the job file first and the flags second, so flags
// override the file.
func fillCalculation(c domain.Calculation, opts *calcOptions, job *calcJob) error {
	if job != nil {
		for key, v := range job.Master {
			if err := domain.SetMaster(c, key, v); err != nil {
				return err
			}
		}
		for _, values := range job.Items {
			if err := domain.AppendRow(c, calculatorService.NextItemID(), values); err != nil {
				return err
			}
		}
	}

	for key, v := range opts.master {
		if v == nil || *v == "" {
			continue
		}
		if err := domain.SetMaster(c, key, domain.NumericString(*v)); err != nil {
			return err
		}
	}
	for _, item := range opts.items {
		if err := domain.AppendRow(c, calculatorService.NextItemID(), parseItem(item)); err != nil {
			return fmt.Errorf("item %q: %w", item, err)
		}
	}
	return nil
}

// parseItem splits "2:500:250" into raw values. Blank fields stay blank
// and count as zero.
func parseItem(s string) []domain.NumericString {
	parts := strings.Split(s, ":")
	values := make([]domain.NumericString, len(parts))
	for i, p := range parts {
		values[i] = domain.NumericString(strings.TrimSpace(p))
	}
	return values
}

func readCalcJob(path string) (*calcJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	var job calcJob
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("%w: job file %s: %w", domain.ErrInvalidInput, path, err)
	}
	return &job, nil
}
