package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"voice-memo-go/internal/correction"
	"voice-memo-go/internal/intent"
)

var errNoInput = errors.New("no input text: pass --text, --file, arguments or pipe it on stdin")

// textInput holds the flags shared by the pure text commands.
type textInput struct {
	text string
	file string
}

func (in *textInput) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.text, "text", "t", "", "transcript text")
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "read the transcript from a file (e.g. transcript.txt)")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
}

// read resolves the input from --text, --file, positional args or stdin, in
// that order.
func (in *textInput) read(stdin io.Reader, args []string) (string, error) {
	var text string
	switch {
	case in.text != "":
		text = in.text
	case in.file != "":
		b, err := os.ReadFile(in.file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", in.file, err)
		}
		text = string(b)
	case len(args) > 0:
		text = strings.Join(args, " ")
	case stdin != nil:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(b)
	}
	if strings.TrimSpace(text) == "" {
		return "", errNoInput
	}
	return text, nil
}

func newClassifyCmd(a *app) *cobra.Command {
	in := &textInput{}
	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Print the intent label of a transcript",
		Long: `Print one of research, summary, code, paraphrase or default.
Groups are checked in that order, so a transcript asking to research some
code is labelled research.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := in.read(a.stdin, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, intent.Classify(text))
			return nil
		},
	}
	in.bind(cmd)
	return cmd
}

func newResolveCmd(a *app) *cobra.Command {
	in := &textInput{}
	cmd := &cobra.Command{
		Use:   "resolve [text...]",
		Short: "Drop retracted speech from a transcript",
		Long: `Print the transcript with everything before the last correction
marker removed ("... actually,", "no, I mean", "never mind").`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := in.read(a.stdin, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, correction.Resolve(text))
			return nil
		},
	}
	in.bind(cmd)
	return cmd
}
