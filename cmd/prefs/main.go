package main

import (
	"errors"
	"fmt"
	"os"
)

var version = "dev"

func main() {
	err := rootCmd.Execute()
	if cerr := closeSession(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
