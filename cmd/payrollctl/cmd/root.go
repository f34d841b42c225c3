// Package cmd provides CLI commands for payrollctl.
package cmd

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/warp/payroll-ledger/config"
	"github.com/warp/payroll-ledger/generic"
	"github.com/warp/payroll-ledger/payroll"
	"github.com/warp/payroll-ledger/store"
)

// app is the state shared by every subcommand once the ledger is open.
type app struct {
	cfgFile string
	storage string
	data    string
	debug   bool

	now    func() time.Time
	log    *logrus.Logger
	ledger *payroll.Store
	close  func() error
}

// Execute runs the CLI against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	rootCmd := &cobra.Command{
		Use:   "payrollctl",
		Short: "Operate the payroll ledger from the command line",
		Long: `payrollctl reads and writes the same ledger as the HTTP server.

It supports:
- Salary reports as text, Excel or PDF
- Attendance reports and payslips
- Bulk import of employees and attendance from CSV or XLSX
- Changing the operator password

Example:
  payrollctl report --year 2024 --month 3
  payrollctl report --from 2024-01-01 --to 2024-03-31 --format xlsx --out q1.xlsx
  payrollctl import employees staff.csv`,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.close == nil {
				return nil
			}
			return a.close()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.storage, "storage", "", "storage backend: json, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&a.data, "data", "", "ledger file or database path")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(newReportCmd(a))
	rootCmd.AddCommand(newAttendanceCmd(a))
	rootCmd.AddCommand(newPayslipCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newPasswdCmd(a))
	return rootCmd
}

func (a *app) open(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.storage != "" {
		cfg.Storage.Backend = a.storage
	}
	if a.data != "" {
		cfg.Storage.Path = a.data
	}
	if a.debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.log, err = config.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{"backend": cfg.Storage.Backend, "path": cfg.Storage.Path}).Debug("opening ledger")

	a.ledger, a.close, err = store.OpenLedger(cmd.Context(), cfg, a.log)
	return err
}

// periodFlags are the report window options shared by several commands.
type periodFlags struct {
	from, to    string
	year, month int
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&p.to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().IntVar(&p.year, "year", 0, "report year when no bounds are given (default current)")
	cmd.Flags().IntVar(&p.month, "month", 0, "report month when no bounds are given (default current)")
}

func (p *periodFlags) period(now time.Time) (generic.Period, error) {
	return generic.ReportPeriod(p.from, p.to, p.year, p.month, now)
}

// output opens path for writing, or returns the command's stdout when path
// is empty.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
