//go:build cli
// +build cli

package main

import (
	_ "vansales.GO/custom"

	"vansales.GO/cmd"
	"vansales.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
