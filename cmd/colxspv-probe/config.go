// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultLogFilename = "colxspv-probe.log"
	defaultLogLevel    = "info"
)

// config defines the command-line options for colxspv-probe, a demo CLI
// that connects to a single remote peer and logs sync traffic.
type config struct {
	Peer      string `short:"p" long:"peer" description:"Remote peer address (host:port) to connect to" required:"true"`
	TestNet   bool   `long:"testnet" description:"Use the test network"`
	Proxy     string `long:"proxy" description:"Connect through a SOCKS5 proxy"`
	LogDir    string `long:"logdir" description:"Directory to log output to"`
	LogLevel  string `long:"loglevel" description:"Logging level: trace, debug, info, warn, error, critical"`
	UserAgent string `long:"useragent" description:"Override the reported user agent string"`
}

func loadConfig() (*config, error) {
	cfg := config{
		LogLevel: defaultLogLevel,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if ferr, ok := err.(*flags.Error); ok && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	if cfg.LogDir == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			dir = "."
		}
		cfg.LogDir = filepath.Join(dir, ".colxspv-probe")
	}
	if err := os.MkdirAll(cfg.LogDir, 0700); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %v", err)
	}

	return &cfg, nil
}

func (c *config) logFile() string {
	return filepath.Join(c.LogDir, defaultLogFilename)
}
