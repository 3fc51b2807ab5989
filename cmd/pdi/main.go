// PDI: local docs cache + CLAUDE.md index for JS/TS frameworks.
//
// PDI fetches framework documentation from Context7 (HTTP when an API
// key is configured, MCP subprocess fallback otherwise), stores it
// under docs/pdi/, and maintains a compressed index block inside
// CLAUDE.md so coding assistants can navigate the cached docs.
//
// Usage:
//
//	pdi init            # scaffold .pdi/ and the CLAUDE.md index
//	pdi add react next  # fetch and index framework docs
//	pdi status --check  # CI freshness gate (exit codes 0-5)
package main

import (
	"os"

	"github.com/pdi-dev/pdi/internal/cli"
	"github.com/pdi-dev/pdi/internal/logging"
)

func main() {
	logging.Init()
	defer logging.Sync()

	app := cli.NewApp()
	os.Exit(app.Run(os.Args[1:]))
}
