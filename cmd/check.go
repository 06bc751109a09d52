package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"optibatch/internal/config"
	"optibatch/internal/execx"
	"optibatch/internal/optimizer"
	"optibatch/pkg/logger"
)

var (
	checkCommand   string
	checkTimeoutMS int64
)

// check verifies the optimizer is runnable before a build wires it in,
// without touching any files.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the optimizer command is usable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logger.New(zapcore.InfoLevel)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		path, err := exec.LookPath(checkCommand)
		if err != nil {
			return fmt.Errorf("%q not found on PATH", checkCommand)
		}

		var timeout time.Duration
		if checkTimeoutMS > 0 {
			timeout = time.Duration(checkTimeoutMS) * time.Millisecond
		}

		_, version, err := optimizer.Probe(cmd.Context(), execx.ExecRunner{}, checkCommand, optimizer.ModeMust, timeout, log)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "%s: OK (version %s)\n", path, version)
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkCommand, "command", config.DefaultCommand, "optimizer command to probe")
	checkCmd.Flags().Int64Var(&checkTimeoutMS, "timeout", config.DefaultTimeoutMS, "probe timeout in milliseconds (0 or lower disables it)")

	rootCmd.AddCommand(checkCmd)
}
