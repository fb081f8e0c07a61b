// Command popetl loads the geonames cities dataset into a database, keeps the
// countries whose largest city stays under a population threshold and exports
// them as a TSV file.
//
// Usage:
//
//	popetl                 # same as `popetl run` with the default settings
//	popetl run [flags]
//	popetl validate --config popetl.json
//	popetl probe --url https://...
//
// Settings come from, in increasing precedence: built-in defaults, the JSON
// file given by --config, POPETL_* environment variables (a .env file in the
// working directory is read first) and command-line flags.
package main

import "os"

func main() {
	os.Exit(Execute(os.Args[1:], os.Stdout, os.Stderr))
}
