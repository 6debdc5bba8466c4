package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tdavis6/myqrkit/internal/contract"
	"github.com/tdavis6/myqrkit/internal/output"
	"github.com/tdavis6/myqrkit/internal/payload"
)

var newEncoder = func() *payload.Encoder { return payload.New() }

type globalOptions struct {
	JSON          bool
	Plain         bool
	Fields        string
	Quiet         bool
	Verbose       bool
	Profile       string
	Config        string
	TZ            string
	ECLevel       string
	NoHistory     bool
	HistoryDB     string
	SchemaVersion string
}

func Execute() int {
	loadDotEnv()
	cmd := NewRootCommand()
	err := cmd.Execute()
	if err != nil {
		renderTopLevelError(cmd, err)
	}
	return ExitCode(err)
}

func NewRootCommand() *cobra.Command {
	opts := &globalOptions{
		Profile:       "default",
		ECLevel:       string(payload.DefaultECLevel),
		SchemaVersion: contract.SchemaVersion,
	}

	root := &cobra.Command{
		Use:           "qrkit",
		Short:         "Encode structured input into QR code payload text",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       BuildVersionString(),
	}
	root.SetVersionTemplate("qrkit {{.Version}}\n")

	root.PersistentFlags().BoolVar(&opts.JSON, "json", false, "Output structured JSON")
	root.PersistentFlags().BoolVar(&opts.Plain, "plain", false, "Output stable plain text")
	root.PersistentFlags().StringVar(&opts.Fields, "fields", "", "Projected fields, comma-separated")
	root.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Reduce success output")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose diagnostics")
	root.PersistentFlags().StringVar(&opts.Profile, "profile", "default", "Config profile")
	root.PersistentFlags().StringVar(&opts.Config, "config", "", "Config file path")
	root.PersistentFlags().StringVar(&opts.TZ, "tz", "", "IANA timezone for event times without an offset")
	root.PersistentFlags().StringVar(&opts.ECLevel, "ec-level", string(payload.DefaultECLevel), "QR error-correction level used for the capacity check: L|M|Q|H")
	root.PersistentFlags().BoolVar(&opts.NoHistory, "no-history", false, "Do not record encoded payloads")
	root.PersistentFlags().StringVar(&opts.SchemaVersion, "schema-version", contract.SchemaVersion, "Output schema version")

	root.AddCommand(newEncodeCmd(opts))
	root.AddCommand(newTypesCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newVersionCmd())
	root.AddCommand(newCompletionCmd(root))

	return root
}

func buildContext(cmd *cobra.Command, opts *globalOptions, command string) (output.Printer, *globalOptions, error) {
	resolved, err := resolveGlobalOptions(cmd, opts)
	if err != nil {
		return output.Printer{}, nil, Wrap(exitInvalidUsage, err)
	}
	if resolved.JSON && resolved.Plain {
		return output.Printer{}, nil, Wrap(exitInvalidUsage, errors.New("--json and --plain are mutually exclusive"))
	}
	mode := output.ModeAuto
	if resolved.JSON {
		mode = output.ModeJSON
	} else if resolved.Plain {
		mode = output.ModePlain
	}

	printer := output.Printer{
		Mode:          mode,
		Command:       command,
		Fields:        splitCSV(resolved.Fields),
		Quiet:         resolved.Quiet,
		SchemaVersion: resolved.SchemaVersion,
		Out:           cmd.OutOrStdout(),
		Err:           cmd.ErrOrStderr(),
	}
	if _, err := payload.ParseECLevel(resolved.ECLevel); err != nil {
		return printer, nil, failWithHint(printer, contract.ErrInvalidUsage, err, "Use --ec-level L, M, Q or H", exitInvalidUsage)
	}
	if resolved.Verbose {
		_, _ = fmt.Fprintf(printer.Err, "qrkit: command=%s mode=%s tz=%s profile=%s ec_level=%s history=%t\n", command, mode, resolved.TZ, resolved.Profile, resolved.ECLevel, !resolved.NoHistory)
	}
	return printer, resolved, nil
}

func renderTopLevelError(cmd *cobra.Command, err error) {
	var appErr AppError
	if errors.As(err, &appErr) && appErr.Printed {
		return
	}
	if wantsStructuredErrorOutput(os.Args[1:]) {
		printer := output.Printer{
			Mode:          output.ModeJSON,
			SchemaVersion: contract.SchemaVersion,
			Err:           cmd.ErrOrStderr(),
		}
		_ = printer.Error(errorCodeForExit(ExitCode(err)), err.Error(), "")
		return
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", err.Error())
}

func wantsStructuredErrorOutput(args []string) bool {
	for _, arg := range args {
		switch {
		case arg == "--":
			return false
		case arg == "--json", strings.HasPrefix(arg, "--json="):
			return true
		}
	}
	return false
}

func readTextInput(in io.Reader, path string) (string, error) {
	if strings.TrimSpace(path) == "-" {
		b, err := io.ReadAll(in)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
