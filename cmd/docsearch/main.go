// docsearch searches a folder of documents for a pattern using isolated workers and concurrent tasks.
package main

import (
	"os"

	"github.com/gcbaptista/go-doc-search/cmd/docsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
