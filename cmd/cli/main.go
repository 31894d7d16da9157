package main

import (
	"github.com/scisight/interdisc/pkg/cli"
)

func main() {
	cli.Execute()
}
