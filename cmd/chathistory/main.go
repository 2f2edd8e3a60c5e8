package main

import (
	"os"
	"path/filepath"
	"strings"

	"chathistory/internal/cli"
)

func isDatabasePath(s string) bool {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(s))) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func rewriteDatabaseArg(argv []string) []string {
	// Convenience: `chathistory path/to/chat_history.db` works like `chathistory --db path/to/chat_history.db`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `chathistory --refresh 2s x.db`), so we look for
	// the first positional token rather than argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--db":          true,
		"--refresh":     true,
		"--log-file":    true,
		"--format":      true,
		"--header-rule": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		if isDatabasePath(a) {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "--db")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDatabaseArg(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
