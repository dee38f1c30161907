package main

import (
	"github.com/mchmarny/churn/pkg/cli"
)

func main() {
	cli.Execute()
}
