// Package main provides the vox CLI, a line-oriented front end for the
// voxcmd command pipeline. It exists for development and demonstration; the
// production host is the editor application, which embeds the pipeline as a
// library.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"voxcmd/internal/catalog"
	"voxcmd/internal/config"
	"voxcmd/internal/executor"
	"voxcmd/internal/fallback"
	"voxcmd/internal/logger"
	"voxcmd/internal/registry"
	"voxcmd/internal/session"
	"voxcmd/internal/version"
)

var (
	logLevel   string
	logFile    string
	threshold  float64
	macroStore string
	mute       bool
)

var rootCmd = &cobra.Command{
	Use:   "vox",
	Short: "vox - natural-language command pipeline for the editor",
	Long: `Vox parses free-form utterances into editor commands. It matches text
against a template catalog, resolves pronouns from workspace state, chains
multi-step utterances, and replays recorded macros.`,
	Run: runRepl,
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive utterance loop",
	Run:   runRepl,
}

var execCmd = &cobra.Command{
	Use:   "exec <utterance>",
	Short: "Execute a single utterance and exit",
	Args:  cobra.MinimumNArgs(1),
	Run:   runExec,
}

var macrosCmd = &cobra.Command{
	Use:   "macros",
	Short: "List saved macros",
	Run:   runMacros,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.Formatted())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().Float64Var(&threshold, "confidence-threshold", 0, "Override the match confidence threshold")
	rootCmd.PersistentFlags().StringVar(&macroStore, "macro-store", "", "Path to the macro store file")
	rootCmd.PersistentFlags().BoolVar(&mute, "mute", false, "Suppress audio feedback")

	for _, name := range []string{"log-level", "log-file", "confidence-threshold", "macro-store", "mute"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", name, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(replCmd, execCmd, macrosCmd, versionCmd)
}

func newSession() (*session.Session, error) {
	if err := logger.Configure(viper.GetString("log-level"), viper.GetString("log-file")); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if t := viper.GetFloat64("confidence-threshold"); t > 0 {
		cfg.ConfidenceThreshold = t
	}
	if p := viper.GetString("macro-store"); p != "" {
		cfg.MacroStorePath = p
	}
	if viper.GetBool("mute") {
		cfg.Mute = true
	}

	reg := registry.New()
	if err := catalog.Register(reg, demoHandlers()); err != nil {
		return nil, err
	}

	opts := session.Options{
		Config:    cfg,
		Registry:  reg,
		Confirmer: &terminalConfirmer{},
	}

	if cfg.FallbackProvider != "" {
		client, err := fallback.NewFactory().ClientFor(cfg.FallbackProvider, config.APIKeyFor(cfg.FallbackProvider), cfg.FallbackModel)
		if err != nil {
			logger.Warn("Fallback disabled", "error", err)
		} else {
			opts.Fallback = client
		}
	}

	return session.New(opts)
}

func runRepl(_ *cobra.Command, _ []string) {
	sess, err := newSession()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer sess.Close()

	fmt.Println("vox repl. Try \"spawn a cube and play the game\". Type \"help\" for commands, \"quit\" to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if handled := handleReplBuiltin(ctx, sess, line); handled {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		result := sess.Execute(ctx, line, executor.Options{Silent: true})
		printResult(result.Success, result.Message)
	}

	if err := sess.Macros().Save(); err != nil {
		logger.Warn("Failed to save macros", "error", err)
	}
}

// handleReplBuiltin intercepts recorder and help controls before the line
// reaches the matcher.
func handleReplBuiltin(ctx context.Context, sess *session.Session, line string) bool {
	switch {
	case line == "help":
		fmt.Print(sess.CommandsHelp())
	case strings.HasPrefix(line, "record "):
		name := strings.TrimSpace(strings.TrimPrefix(line, "record "))
		if err := sess.StartRecording(name); err != nil {
			printResult(false, err.Error())
		} else {
			printResult(true, fmt.Sprintf("recording macro %q; say \"stop recording\" when done", name))
		}
	case line == "stop recording":
		m, err := sess.StopRecording()
		if err != nil {
			printResult(false, err.Error())
		} else {
			printResult(true, fmt.Sprintf("saved macro %q with %d commands", m.Name, len(m.Commands)))
		}
	case line == "cancel recording":
		sess.CancelRecording()
		printResult(true, "recording discarded")
	case strings.HasPrefix(line, "play "):
		name := strings.TrimSpace(strings.TrimPrefix(line, "play "))
		chainResult, err := sess.PlayMacro(ctx, name, executor.Options{Silent: true})
		if err != nil {
			printResult(false, err.Error())
		} else {
			printResult(!chainResult.Aborted, fmt.Sprintf("macro ran %d of %d commands", chainResult.Completed, len(chainResult.Fragments)))
		}
	default:
		return false
	}
	return true
}

func runExec(_ *cobra.Command, args []string) {
	sess, err := newSession()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer sess.Close()

	result := sess.Execute(context.Background(), strings.Join(args, " "), executor.Options{Silent: true})
	printResult(result.Success, result.Message)
	if !result.Success {
		os.Exit(1)
	}
}

func runMacros(_ *cobra.Command, _ []string) {
	sess, err := newSession()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer sess.Close()

	macros := sess.Macros().All()
	if len(macros) == 0 {
		fmt.Println("no macros saved")
		return
	}
	for _, m := range macros {
		fmt.Printf("%s (%d commands, used %d times)\n", m.Name, len(m.Commands), m.UsageCount)
		for _, c := range m.Commands {
			fmt.Printf("  %s\n", c)
		}
	}
}

func printResult(ok bool, msg string) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	fmt.Printf("[%s] %s\n", status, msg)
}

// terminalConfirmer prompts on stdout and reads one line from stdin.
type terminalConfirmer struct{}

func (t *terminalConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
