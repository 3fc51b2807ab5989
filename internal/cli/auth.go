package cli

import (
	"flag"
	"fmt"
)

// Auth stores or clears the Context7 API key in the project config.
// With no flags it reports whether a key is configured.
func (a *App) Auth(args []string) error {
	fs := flag.NewFlagSet("auth", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	key := fs.String("key", "", "Context7 API key to store")
	clear := fs.Bool("clear", false, "remove the stored API key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := a.Store.Load(a.Root)
	if err != nil {
		return err
	}

	switch {
	case *clear:
		cfg.APIKey = ""
		if err := a.Store.Save(a.Root, cfg); err != nil {
			return err
		}
		fmt.Fprintln(a.Stdout, "API key cleared; fetches will use the MCP fallback.")
	case *key != "":
		cfg.APIKey = *key
		if err := a.Store.Save(a.Root, cfg); err != nil {
			return err
		}
		fmt.Fprintln(a.Stdout, "API key stored; fetches will use the HTTP transport.")
	default:
		if cfg.APIKey != "" {
			fmt.Fprintln(a.Stdout, "API key is configured (HTTP transport).")
		} else {
			fmt.Fprintln(a.Stdout, "No API key configured (MCP fallback transport).")
		}
	}
	return nil
}
