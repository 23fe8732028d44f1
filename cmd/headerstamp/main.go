// Headerstamp writes standardized documentation headers into source files.
package main

import "github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/cli"

func main() {
	cli.Execute()
}
