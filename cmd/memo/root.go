package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"voice-memo-go/internal/config"
	"voice-memo-go/internal/logger"
	"voice-memo-go/internal/pipeline"
	"voice-memo-go/internal/ui"
)

var version = "dev"

const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	cfgFile  string
	queueDir string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg *config.Config
	log *logger.Logger
	ui  *ui.Printer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}
	code := exitCode(err)
	if code != exitInterrupted && !errors.Is(err, errReported) {
		if a.ui == nil {
			a.ui = ui.New(stderr)
		}
		a.ui.Fail("%v", err)
	}
	return code
}

// errReported marks an error whose details were already printed.
var errReported = errors.New("reported")

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, pipeline.ErrInterrupted):
		return exitInterrupted
	default:
		return exitFailure
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "memo",
		Short:         "Record, transcribe and file voice memos",
		Long:          longRoot,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is .aura/memo.yaml or $HOME/.memo/memo.yaml)")
	root.PersistentFlags().StringVarP(&a.queueDir, "queue-dir", "q", "", "queue directory (default .aura/queue)")

	root.AddCommand(
		newRecordCmd(a),
		newClassifyCmd(a),
		newResolveCmd(a),
		newCheckCmd(a),
		newQueueCmd(a),
		newInitCmd(a),
		newMCPCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	a.ui = ui.New(a.stderr)
	a.log = logger.NewWithOutput(a.stderr)

	if _, err := config.LoadEnv("."); err != nil {
		return err
	}
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("queue-dir") {
		if a.queueDir == "" {
			return errors.New("--queue-dir must not be empty")
		}
		cfg.QueueDir = a.queueDir
	}
	a.cfg = cfg
	a.log.Logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	a.log.WithField("config_file", cfg.File).WithField("queue_dir", cfg.QueueDir).Debug("config loaded")
	return nil
}

var longRoot = `
memo records a voice note from the microphone, transcribes it with an
external transcriber, names it with an external title generator and files
it under the queue directory as <title>/audio.wav and <title>/transcript.txt.

The filed directory is printed on stdout; progress goes to stderr.
`
