// Command tablecsv reads a delimited file and logs a one-line summary of
// what it inferred: row count, column names, and their materialized types.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := Execute(); err != nil {
		logrus.StandardLogger().Error(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
