package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rowtree/rowtree/internal/config"
	"github.com/rowtree/rowtree/internal/decoder"
	"github.com/rowtree/rowtree/internal/encoder"
	"github.com/rowtree/rowtree/internal/errors"
	"github.com/rowtree/rowtree/internal/models"
	"github.com/rowtree/rowtree/internal/parser"
	"github.com/rowtree/rowtree/internal/rows"
)

// CLI defines the command-line interface
var CLI struct {
	Encode EncodeCmd `cmd:"" help:"Flatten a JSON document into node rows."`
	Decode DecodeCmd `cmd:"" help:"Rebuild a JSON document from node rows."`

	Config  string           `help:"Path to config file. Searched upward from the working directory when omitted." type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`
}

// Context holds the runtime context shared by the commands
type Context struct {
	Debug  bool
	Config *config.Config
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("rowtree"),
		kong.Description("A tool to flatten JSON trees into node rows and back"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("rowtree version %s", Version)},
	)

	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage was already shown by kong.UsageOnError()
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
	if CLI.Debug {
		cfg.Dev.Debug = true
	}

	err = ctx.Run(&Context{Debug: cfg.Dev.Debug, Config: cfg})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: rowtree --help\n")
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: an explicit --config
// path, else the nearest config file up the directory tree, else defaults.
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		return config.NewConfig(), nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to load config from '%s'", path), err)
	}
	return cfg, nil
}

// EncodeCmd flattens a JSON document into node rows
type EncodeCmd struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output row file. If not specified, writes to stdout." short:"o" type:"path"`
	Format      string `help:"Row output format." enum:"json,csv" default:"json"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Run executes the encode command
func (c *EncodeCmd) Run(ctx *Context) error {
	ir, err := c.parseInput()
	if err != nil {
		return err
	}

	nodes, err := encoder.New(ctx.Config).Encode(ir)
	if err != nil {
		return err
	}

	return writeOutput(c.Output, func(w io.Writer) error {
		if c.Format == "csv" {
			return rows.WriteCSV(w, nodes)
		}
		return rows.WriteJSON(w, nodes)
	})
}

// parseInput reads JSON from file or stdin
func (c *EncodeCmd) parseInput() (models.IntermediateRepresentation, error) {
	if c.Input != "" {
		return parser.ParseFile(c.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if c.Interactive {
			return readInteractiveInput()
		}
		return models.IntermediateRepresentation{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read from stdin", err)
	}
	if len(jsonData) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// DecodeCmd rebuilds a JSON document from node rows
type DecodeCmd struct {
	Input    string   `help:"Path to node-row file (.json or .csv). If not specified, reads JSON rows from stdin." short:"i" type:"path"`
	Output   string   `help:"Path to output JSON file. If not specified, writes to stdout." short:"o" type:"path"`
	Select   []string `help:"Seed paths to restrict reconstruction to a subgraph. Empty selects everything." short:"s"`
	Siblings bool     `help:"Include the siblings of each selected path."`
	Depth    int      `help:"How many descendant levels of each selected path to include." default:"1"`
}

// Run executes the decode command
func (c *DecodeCmd) Run(ctx *Context) error {
	nodeRows, err := c.readRows()
	if err != nil {
		return err
	}

	paths, names, values := rows.Columns(nodeRows)
	query := models.SelectionQuery{
		SelectedPaths:   c.Select,
		IncludeSiblings: c.Siblings,
		DescendantDepth: c.Depth,
	}

	text, err := decoder.New(ctx.Config).Decode(paths, names, values, query)
	if err != nil {
		return err
	}

	return writeOutput(c.Output, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, text)
		return err
	})
}

// readRows loads node rows from the input file or stdin, picking the CSV
// reader for .csv files.
func (c *DecodeCmd) readRows() (models.NodeList, error) {
	if c.Input == "" {
		return rows.ReadJSON(os.Stdin)
	}

	file, err := os.Open(c.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", c.Input),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(fmt.Sprintf("failed to open file '%s'", c.Input), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	if strings.EqualFold(filepath.Ext(c.Input), ".csv") {
		return rows.ReadCSV(file)
	}
	return rows.ReadJSON(file)
}

// writeOutput writes through the given writer function to a file or stdout
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to create file '%s'", path), err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
	}
	fmt.Fprintf(os.Stderr, "Output written to %s\n", path)
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.IntermediateRepresentation, error) {
	fmt.Fprintln(os.Stderr, "rowtree Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.IntermediateRepresentation{}, errors.NewInputError("error reading input", err)
		}
		jsonBuilder.WriteString(line)
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
