// Command jcat prints JSON files as syntax highlighted, width aware literal
// notation.
package main

import (
	"os"
)

func main() {
	os.Exit(Main())
}
