package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/kvtable/internal/dataset"
	"github.com/calvinalkan/kvtable/internal/session"
	"github.com/calvinalkan/kvtable/internal/table"
)

// exitInterrupted is the conventional exit code for SIGINT.
const exitInterrupted = 130

type globalFlags struct {
	set *flag.FlagSet

	workDir     string
	configPath  string
	outputDir   string
	defaultsDir string
	seed        uint64
	noLock      bool
	verbose     bool
	quiet       bool
	printConfig bool
	help        bool
}

func newGlobalFlags() *globalFlags {
	g := &globalFlags{set: flag.NewFlagSet("kvt", flag.ContinueOnError)}
	g.set.SetOutput(&strings.Builder{}) // discard pflag output
	g.set.SortFlags = false

	g.set.StringVarP(&g.workDir, "cwd", "C", "", "Run as if started in `dir`")
	g.set.StringVarP(&g.configPath, "config", "c", "", "Use specified config `file`")
	g.set.StringVarP(&g.outputDir, "output-dir", "o", "", "Resolve relative table paths under `dir`")
	g.set.StringVar(&g.defaultsDir, "defaults-dir", "", "Read the default table from `dir` instead of the bundled copy")
	g.set.Uint64Var(&g.seed, "seed", 0, "Seed the random generator for reproducible tables")
	g.set.BoolVar(&g.noLock, "no-lock", false, "Do not lock the table file")
	g.set.BoolVarP(&g.verbose, "verbose", "v", false, "Log debug details to stderr")
	g.set.BoolVarP(&g.quiet, "quiet", "q", false, "Only log errors")
	g.set.BoolVar(&g.printConfig, "print-config", false, "Show resolved configuration and exit")
	g.set.BoolVarP(&g.help, "help", "h", false, "Show help")

	return g
}

func (g *globalFlags) level() slog.Level {
	switch {
	case g.verbose:
		return slog.LevelDebug
	case g.quiet:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Run is the main entry point. Returns exit code.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	flags := newGlobalFlags()

	if len(args) > 0 {
		args = args[1:]
	}

	err := flags.set.Parse(args)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, flags)

		return 1
	}

	if flags.help {
		printUsage(out, flags)

		return 0
	}

	positional := flags.set.Args()
	if len(positional) > 1 {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", ErrTooManyArgs, strings.Join(positional[1:], " ")))
		printUsage(errOut, flags)

		return 1
	}

	cfgInput := LoadConfigInput{
		WorkDirOverride: flags.workDir,
		ConfigPath:      flags.configPath,
		Env:             env,
	}

	if flags.set.Changed("output-dir") {
		cfgInput.OutputDirOverride = &flags.outputDir
	}

	cfg, err := LoadConfig(cfgInput)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, flags)

		return 1
	}

	ioCtx := NewIO(out, errOut)

	if flags.printConfig {
		execPrintConfig(ioCtx, cfg)

		return 0
	}

	logger := newLogger(errOut, flags.level())

	candidate := cfg.File
	if len(positional) == 1 {
		candidate = positional[0]
	}

	sess := session.New(session.Options{
		Source:    newSource(flags.defaultsDir, cfg.EffectiveCwd),
		Generator: newGenerator(flags),
		OutputDir: cfg.OutputDirAbs,
		Lock:      cfg.Lock && !flags.noLock,
		Logger:    logger,
	})

	defer func() {
		closeErr := sess.Close()
		if closeErr != nil {
			logger.Warn("releasing table lock", "error", closeErr)
		}
	}()

	m := &menu{sess: sess, io: ioCtx}

	err = sess.Initialize(candidate)

	switch {
	case err == nil:
		m.save()
	case errors.Is(err, session.ErrDefaultUnavailable):
		logger.Debug("default table unavailable", "error", err)
		ioCtx.Banner("\nResource not found.")
	case errors.Is(err, session.ErrLoad):
		ioCtx.Banner("An error occurred while reading the table: %v", err)
	case m.reportSave(err):
	default:
		ioCtx.ErrPrintln("error:", err)

		return 1
	}

	logger.Debug("session ready", "path", sess.Path(), "rows", sess.Table().Len())

	prompter := newPrompter(stdin, out, sigCh, cfg, sess)
	m.in = &input{p: prompter, io: ioCtx}

	err = m.run()

	closeErr := prompter.Close()
	if closeErr != nil {
		logger.Warn("closing prompt", "error", closeErr)
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, io.EOF):
		ioCtx.Println()
		ioCtx.Banner("Exiting program. Goodbye!")

		return 0
	case errors.Is(err, ErrInterrupted):
		ioCtx.Println()
		ioCtx.ErrPrintln("error:", err)

		return exitInterrupted
	default:
		ioCtx.ErrPrintln("error: reading input:", err)

		return 1
	}
}

func newSource(defaultsDir, workDir string) dataset.Source {
	if defaultsDir == "" {
		return dataset.Embedded()
	}

	if !filepath.IsAbs(defaultsDir) {
		defaultsDir = filepath.Join(workDir, defaultsDir)
	}

	return dataset.FromFS(os.DirFS(defaultsDir))
}

func newGenerator(flags *globalFlags) table.RowGenerator {
	if flags.set.Changed("seed") {
		return table.NewSeededGenerator(flags.seed)
	}

	return table.NewGenerator()
}

// newPrompter uses liner when both stdin and stdout are terminals, and a
// plain line reader otherwise.
func newPrompter(stdin io.Reader, out io.Writer, sigCh <-chan os.Signal, cfg Config, sess *session.Session) Prompter {
	if isTerminal(stdin) && isTerminal(out) {
		return newLinerPrompter(cfg.HistoryPath, keyCompleter(sess))
	}

	return newLinePrompter(stdin, out, sigCh)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

// keyCompleter completes table keys by prefix.
func keyCompleter(sess *session.Session) func(line string) []string {
	return func(line string) []string {
		var matches []string

		seen := make(map[string]struct{})

		for _, row := range sess.Table().Rows() {
			for _, key := range row.Keys() {
				if _, dup := seen[key]; dup || !strings.HasPrefix(key, line) {
					continue
				}

				seen[key] = struct{}{}
				matches = append(matches, key)
			}
		}

		return matches
	}
}

func execPrintConfig(o *IO, cfg Config) {
	o.Println("effective_cwd=" + cfg.EffectiveCwd)
	o.Println("output_dir=" + cfg.OutputDirAbs)
	o.Println("file=" + cfg.File)
	o.Printf("lock=%t\n", cfg.Lock)
	o.Printf("history=%t\n", cfg.History)

	if cfg.HistoryPath != "" {
		o.Println("history_file=" + cfg.HistoryPath)
	}

	o.Println("")
	o.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" && !cfg.Sources.Env {
		o.Println("(defaults only)")

		return
	}

	if cfg.Sources.Global != "" {
		o.Println("global_config=" + cfg.Sources.Global)
	}

	if cfg.Sources.Project != "" {
		o.Println("project_config=" + cfg.Sources.Project)
	}

	if cfg.Sources.Env {
		o.Println("env=" + envOutputDirectory)
	}
}

func printUsage(w io.Writer, flags *globalFlags) {
	fprintln(w, "kvt - interactive key/value table editor")
	fprintln(w)
	fprintln(w, "Usage: kvt [flags] [file]")
	fprintln(w)
	fprintln(w, "Opens the table in [file] (default: "+dataset.DefaultName+"). Relative paths")
	fprintln(w, "resolve under the output directory (default: "+session.DefaultOutputDir+"). A missing file")
	fprintln(w, "is created from the default table.")
	fprintln(w)
	fprintln(w, "Global flags:")
	fprint(w, flags.set.FlagUsages())
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func fprint(w io.Writer, a ...any) {
	_, _ = fmt.Fprint(w, a...)
}
