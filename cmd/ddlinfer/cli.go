package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nao1215/ddlinfer"
	"github.com/nao1215/ddlinfer/config"
	"github.com/nao1215/ddlinfer/ddl"
)

// version is overwritten at build time.
var version = "dev"

// ErrConfigExists is returned by init when the target file is already present
var ErrConfigExists = errors.New("configuration file already exists")

// Globals holds the state shared by all commands.
type Globals struct {
	Ctx     context.Context
	Config  string
	Verbose bool
	Quiet   bool
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *zap.Logger
}

// CLI represents the command-line interface
type CLI struct {
	Config  string `help:"Configuration file path (.yaml, .yml or .hcl)" short:"c" type:"path"`
	Verbose bool   `help:"Print detection details and debug logs" short:"v"`
	Quiet   bool   `help:"Suppress notes on standard error" short:"q"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Infer a CREATE TABLE statement from a tabular file"`
	Dialects DialectsCmd `cmd:"" help:"List the supported SQL dialects"`
	Init     InitCmd     `cmd:"" help:"Write a configuration file with the default settings"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// GenerateCmd represents the generate command
type GenerateCmd struct {
	Input       string `arg:"" optional:"" default:"-" help:"Input file, or - to read standard input"`
	Dialect     string `short:"d" help:"SQL dialect (${dialects})"`
	TableName   string `short:"t" help:"Table name (defaults to the file name without extensions)"`
	PrimaryKey  string `short:"p" help:"Primary key column (inferred when omitted)"`
	Address     string `short:"a" help:"Sheet or table to read, by name or 1-based index"`
	ContentType string `help:"Content type of the input (csv, ods, application/json, ...)"`
	Encoding    string `help:"Text encoding of delimited input"`
	Backend     string `short:"b" help:"Backend to prefer: direct or general"`
	Output      string `short:"o" type:"path" help:"Write the statement to a file; .gz, .xz and .zst compress it"`
	Verify      bool   `help:"Execute sqlite output against an in-memory database before printing it"`
	Sanitize    bool   `name:"sanitize-table-name" help:"Replace characters that need quoting in derived table names"`
}

// Run executes the generate command
func (cmd *GenerateCmd) Run(g *Globals) error {
	cfg := config.DefaultConfig()
	if g.Config != "" {
		loaded, err := config.Load(g.Config)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	opts := []ddlinfer.Option{ddlinfer.WithLogger(g.Logger), ddlinfer.WithConfig(cfg)}
	if cmd.Backend != "" {
		opts = append(opts, ddlinfer.WithBackend(cmd.Backend))
	}
	if cmd.Verify {
		opts = append(opts, ddlinfer.WithVerification())
	}
	if cmd.Sanitize {
		opts = append(opts, ddlinfer.WithSanitizedTableName())
	}

	resource := &ddlinfer.Resource{
		Path:        cmd.Input,
		Address:     cmd.Address,
		ContentType: cmd.ContentType,
		Encoding:    cmd.Encoding,
	}
	if cmd.Input == ddlinfer.StdinPath {
		resource.Data = g.Stdin
	}
	target := &ddlinfer.SQLTarget{Dialect: cmd.Dialect, TableName: cmd.TableName}
	if cmd.PrimaryKey != "" {
		target.PrimaryKey = &cmd.PrimaryKey
	}

	generator, err := ddlinfer.NewSchemaGenerator(resource, target, opts...)
	if err != nil {
		return err
	}
	result, err := generator.Generate(g.Ctx)
	if err != nil {
		return err
	}

	if !g.Quiet {
		if generator.Fallback() {
			color.New(color.FgYellow).Fprintf(g.Stderr,
				"note: could not detect the content type of %s, used the general backend\n", cmd.Input)
		}
		if g.Verbose {
			pk := "none"
			if target.PrimaryKey != nil {
				pk = *target.PrimaryKey
			}
			color.New(color.FgCyan).Fprintf(g.Stderr, "content type: %s, backend: %s, table: %s, primary key: %s\n",
				resource.Type, generator.SelectedBackend(), target.TableName, pk)
		}
	}

	if cmd.Output != "" {
		if err := ddlinfer.SaveResult(cmd.Output, result); err != nil {
			return err
		}
		if g.Verbose && !g.Quiet {
			color.New(color.FgGreen).Fprintf(g.Stderr, "wrote %s\n", cmd.Output)
		}
		return nil
	}
	return ddlinfer.WriteResult(g.Stdout, result)
}

// DialectsCmd represents the dialects command
type DialectsCmd struct{}

// Run executes the dialects command
func (cmd *DialectsCmd) Run(g *Globals) error {
	for _, name := range ddl.Dialects() {
		if _, err := fmt.Fprintln(g.Stdout, name); err != nil {
			return err
		}
	}
	return nil
}

// InitCmd represents the init command
type InitCmd struct {
	Path  string `arg:"" optional:"" default:"ddlinfer.hcl" help:"Configuration file to write"`
	Force bool   `help:"Overwrite an existing file"`
}

// Run executes the init command
func (cmd *InitCmd) Run(g *Globals) error {
	if _, err := os.Stat(cmd.Path); err == nil && !cmd.Force {
		return fmt.Errorf("%w: %s", ErrConfigExists, cmd.Path)
	}
	if err := config.Export(cmd.Path, config.DefaultConfig()); err != nil {
		return err
	}
	if !g.Quiet {
		color.New(color.FgGreen).Fprintf(g.Stderr, "created %s\n", cmd.Path)
	}
	return nil
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(g *Globals) error {
	_, err := fmt.Fprintf(g.Stdout, "ddlinfer %s\n", version)
	return err
}

// newLogger writes console-encoded logs to w. Debug logs are only enabled in verbose mode.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core).Named("ddlinfer")
}

// run parses args, executes the selected command and returns the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cli CLI
	exitCode := -1
	parser, err := kong.New(&cli,
		kong.Name("ddlinfer"),
		kong.Description("Infer a SQL CREATE TABLE statement from a CSV, TSV, LTSV, JSON, YAML, spreadsheet, Parquet or HTML table."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) {
			if exitCode < 0 {
				exitCode = code
			}
		}),
		kong.Vars{"dialects": joinDialects()},
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger := newLogger(stderr, cli.Verbose)
	defer func() { _ = logger.Sync() }()

	globals := &Globals{
		Ctx:     context.Background(),
		Config:  cli.Config,
		Verbose: cli.Verbose,
		Quiet:   cli.Quiet,
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  logger,
	}
	if err := kctx.Run(globals); err != nil {
		color.New(color.FgRed).Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func joinDialects() string {
	return strings.Join(ddl.Dialects(), ", ")
}
