package main

import (
	"fmt"
	"io"
)

const version = "1.0.0"

const versionTemplate = `gpuinfo version {{.Version}}
A macOS GPU usage monitoring tool
Copyright (c) 2025 The gpuinfo Authors
Licensed under MIT License
`

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `gpuinfo v%s - macOS GPU Usage Monitor

Usage: gpuinfo [options]
  -h, --help                 Show this help message
  -v, --version              Show version information
  -w, --watch                Watch GPU usage continuously
  -i, --interval <seconds>   Set update interval in seconds (default: 1)
  -p, --percent              Show only the percentage number
  -f, --full                 Show full GPU information
      --json                 Print each snapshot as a JSON object
      --config <path>        Read settings from a YAML file (reloaded while watching)
      --metrics-addr <addr>  Serve Prometheus metrics while watching (e.g. 127.0.0.1:9400)
      --log-level <level>    Diagnostics on stderr: debug, info, warn, error (default: warn)
`, version)
}
