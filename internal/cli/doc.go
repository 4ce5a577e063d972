// Package cli implements the gsconsole command-line interface.
//
// Each subcommand resolves a server from config, builds one session for it
// and hands the session to a consumer:
//
//	gsconsole console [server]          - full-screen dashboard
//	gsconsole tail [server]             - stream console lines to stdout
//	gsconsole send <server> <command>   - send one console command
//	gsconsole power <server> <action>   - start, stop, restart or kill
//	gsconsole init                      - write a starter .gsconsole.yaml
//	gsconsole version                   - build information
//
// Global flags (--config, --verbose, --no-color, --log-file) are defined on
// the root command and available to all subcommands.
package cli
