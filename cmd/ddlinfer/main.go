// Command ddlinfer prints a CREATE TABLE statement inferred from a tabular file.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
