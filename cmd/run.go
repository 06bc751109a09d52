package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"optibatch/internal/batch"
	"optibatch/internal/config"
	"optibatch/internal/execx"
	"optibatch/internal/tui"
	"optibatch/pkg/logger"
)

var (
	runPlain   bool
	runVerbose bool
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <dir>",
	Short: "Optimize a tree of images into a destination directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}

		// Verbose logging and the live progress view fight over the
		// terminal, so --verbose implies --plain.
		plain := runPlain || runVerbose
		level := zapcore.ErrorLevel
		if plain {
			level = zapcore.InfoLevel
			if runVerbose {
				level = zapcore.DebugLevel
			}
		}
		log, err := logger.New(level)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var res batch.Result
		var runErr error
		if plain {
			res, runErr = batch.Run(ctx, cfg, execx.ExecRunner{}, log, nil)
		} else {
			updates := make(chan batch.ProgressUpdate, 64)
			program := tea.NewProgram(tui.NewModel(updates))

			uiDone := make(chan struct{})
			go func() {
				_, _ = program.Run()
				close(uiDone)
			}()

			res, runErr = batch.Run(ctx, cfg, execx.ExecRunner{}, log, updates)
			close(updates)
			<-uiDone
		}

		rows := []tui.SummaryRow{
			{Label: "Optimized", Value: strconv.Itoa(res.Optimized)},
			{Label: "Copied", Value: strconv.Itoa(res.Copied)},
			{Label: "Skipped", Value: strconv.Itoa(res.Skipped)},
			{Label: "Failed", Value: strconv.Itoa(res.Failed), Bad: res.Failed > 0},
			{Label: "Duration", Value: res.Elapsed.Round(time.Millisecond).String()},
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))

		return runErr
	},
}

func init() {
	runCmd.Flags().StringP("to", "o", "", "destination directory (defaults to the source directory)")
	runCmd.Flags().StringP("process", "p", config.DefaultProcess, "optimization policy: yes (required), no (copy only), try (fall back to copy)")
	runCmd.Flags().String("command", config.DefaultCommand, "optimizer command to execute")
	runCmd.Flags().Int64("timeout", config.DefaultTimeoutMS, "per-invocation timeout in milliseconds (0 or lower disables it)")
	runCmd.Flags().StringArray("include", nil, "glob pattern of files to process (repeatable, default all)")
	runCmd.Flags().StringArray("exclude", nil, "glob pattern of files to skip (repeatable)")
	runCmd.Flags().IntP("jobs", "j", 1, "number of concurrent optimizer invocations")
	runCmd.Flags().BoolVar(&runPlain, "plain", false, "disable the progress UI, log plainly instead")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "log per-file events (implies --plain)")

	for _, name := range []string{"to", "process", "command", "timeout", "include", "exclude", "jobs"} {
		_ = viper.BindPFlag(name, runCmd.Flags().Lookup(name))
	}

	rootCmd.AddCommand(runCmd)
}
