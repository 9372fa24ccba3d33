/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/mpriess/scrobblekit/cmd"

func main() {
	cmd.Execute()
}
