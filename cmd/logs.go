package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotforge/dotkit/cli"
	"github.com/dotforge/dotkit/config"
	"github.com/dotforge/dotkit/logging"
	"github.com/dotforge/dotkit/tui/theme"
	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show dotkit log output",
		Long: `Prints the project's dotkit log file. Logs are written per component to
.dotkit/logs/ in the project root, or to logging.file.path from dotkit.yml
when file logging is configured there.

Examples:
  # Print the latest log file
  dotkit logs

  # Follow log output
  dotkit logs -f

  # Last 100 lines as JSON Lines
  dotkit logs --tail 100 --json

  # Only lines from the linker component
  dotkit logs --component linker
`,
		RunE: runLogsE,
	}

	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().Int("tail", -1, "Number of lines to show from the end of the logs (default: all)")
	cmd.Flags().StringSlice("component", []string{}, "Only show lines from these components")

	return cmd
}

func runLogsE(cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd)
	opts := cli.GetOptions(cmd)

	follow, _ := cmd.Flags().GetBool("follow")
	tailLines, _ := cmd.Flags().GetInt("tail")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	components, _ := cmd.Flags().GetStringSlice("component")

	logFile, err := findLogFile(cmd)
	if err != nil {
		return err
	}
	logger.WithField("log_file", logFile).Debug("Reading log file")

	componentFilter := make(map[string]bool, len(components))
	for _, c := range components {
		componentFilter[c] = true
	}

	emit := func(line string) {
		if len(componentFilter) > 0 && !lineMatchesComponent(line, componentFilter) {
			return
		}
		if jsonOutput || opts.JSONOutput {
			printLogJSON(line)
		} else {
			printLogText(line)
		}
	}

	// Without follow the file is read once, a straight replay.
	if !follow {
		lines, err := readLogLines(logFile, tailLines)
		if err != nil {
			return err
		}
		for _, line := range lines {
			emit(line)
		}
		return nil
	}

	// With follow, replay the requested lines first, then stream from the
	// end of the file so nothing prints twice.
	location := &tail.SeekInfo{Offset: 0, Whence: io.SeekStart}
	if tailLines >= 0 {
		lines, err := readLogLines(logFile, tailLines)
		if err != nil {
			return err
		}
		for _, line := range lines {
			emit(line)
		}
		location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(logFile, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: location,
		Logger:   stdlog.New(io.Discard, "", 0), // Suppress tail library debug output
	})
	if err != nil {
		return fmt.Errorf("cannot tail %s: %w", logFile, err)
	}

	for line := range t.Lines {
		if line.Err != nil {
			logger.Debugf("Error reading line: %v", line.Err)
			continue
		}
		emit(line.Text)
	}

	return nil
}

// findLogFile resolves which log file to read: the configured file sink if
// one is set, otherwise the latest file under .dotkit/logs/ in the project
// root.
func findLogFile(cmd *cobra.Command) (string, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err == nil {
		var logCfg logging.Config
		if err := cfg.UnmarshalExtension("logging", &logCfg); err == nil {
			if logCfg.File.Enabled && logCfg.File.Path != "" {
				return logCfg.File.Path, nil
			}
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	root, err := config.FindProjectRoot(cwd)
	if err != nil {
		root = cwd
	}

	return findLatestLogFile(filepath.Join(root, ".dotkit", "logs"))
}

// findLatestLogFile finds the most recently modified non-empty file in a
// directory. Prefers files with content over empty files.
func findLatestLogFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("could not read log directory %s: %w", dir, err)
	}

	var latestFile os.FileInfo
	var latestPath string
	var latestNonEmptyFile os.FileInfo
	var latestNonEmptyPath string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latestFile == nil || info.ModTime().After(latestFile.ModTime()) {
			latestFile = info
			latestPath = filepath.Join(dir, entry.Name())
		}
		if info.Size() > 0 {
			if latestNonEmptyFile == nil || info.ModTime().After(latestNonEmptyFile.ModTime()) {
				latestNonEmptyFile = info
				latestNonEmptyPath = filepath.Join(dir, entry.Name())
			}
		}
	}

	if latestNonEmptyFile != nil {
		return latestNonEmptyPath, nil
	}
	if latestFile == nil {
		return "", fmt.Errorf("no log files found in %s", dir)
	}
	return latestPath, nil
}

// readLogLines reads a log file, returning at most tailLines lines from the
// end. A negative tailLines returns the whole file.
func readLogLines(path string, tailLines int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}

	if tailLines >= 0 && tailLines < len(lines) {
		lines = lines[len(lines)-tailLines:]
	}
	return lines, nil
}

// lineMatchesComponent reports whether a structured log line carries one of
// the wanted component names. Unstructured lines never match.
func lineMatchesComponent(line string, wanted map[string]bool) bool {
	var logMap map[string]interface{}
	if err := json.Unmarshal([]byte(line), &logMap); err != nil {
		return false
	}
	component, _ := logMap["component"].(string)
	return wanted[component]
}

// printLogJSON prints a log line in JSON Lines format.
func printLogJSON(line string) {
	var logMap map[string]interface{}
	if err := json.Unmarshal([]byte(line), &logMap); err != nil {
		// Fallback for non-JSON lines
		fallback := map[string]interface{}{
			"raw_line": line,
			"error":    "failed to parse original log line as JSON",
		}
		jsonData, _ := json.Marshal(fallback)
		fmt.Println(string(jsonData))
		return
	}

	jsonData, _ := json.Marshal(logMap)
	fmt.Println(string(jsonData))
}

// printLogText pretty-prints a log line for human consumption.
func printLogText(line string) {
	var logMap map[string]interface{}
	if err := json.Unmarshal([]byte(line), &logMap); err != nil {
		fmt.Println(line)
		return
	}

	ts, _ := logMap["time"].(string)
	level, _ := logMap["level"].(string)
	msg, _ := logMap["msg"].(string)
	component, _ := logMap["component"].(string)

	parsedTime, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		parsedTime, _ = time.Parse(time.RFC3339, ts)
	}
	timeStr := parsedTime.Format("15:04:05")

	var levelStyle lipgloss.Style
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		levelStyle = theme.DefaultTheme.Error
	case "warning":
		levelStyle = theme.DefaultTheme.Warning
	case "info":
		levelStyle = theme.DefaultTheme.Info
	default:
		levelStyle = theme.DefaultTheme.Muted
	}
	levelStr := levelStyle.Render(strings.ToUpper(level))

	sortedKeys := []string{}
	for k := range logMap {
		if k != "time" && k != "level" && k != "msg" && k != "component" {
			sortedKeys = append(sortedKeys, k)
		}
	}
	sort.Strings(sortedKeys)

	otherFields := []string{}
	for _, k := range sortedKeys {
		otherFields = append(otherFields, fmt.Sprintf("%s=%v", theme.DefaultTheme.Muted.Render(k), logMap[k]))
	}
	fieldsStr := strings.Join(otherFields, " ")

	fmt.Printf("%s %s %s [%s] %s\n",
		timeStr,
		levelStr,
		msg,
		theme.DefaultTheme.Muted.Render(component),
		fieldsStr,
	)
}
