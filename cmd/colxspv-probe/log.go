// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
	"github.com/tinhnguyenhn/colxspv/peer"
	"github.com/tinhnguyenhn/colxspv/wire"
)

var (
	backendLog = btclog.NewBackend(logWriter{})
	log        = backendLog.Logger("PROB")
)

// logWriter fans out written bytes to both stdout and the rotator, the
// same split colxwallet's own daemons use.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

var logRotator *rotator.Rotator

func initLogRotator(logFile string) error {
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return err
	}
	logRotator = r
	return nil
}

// setLogLevels parses level and wires it into every package-level logger
// this binary touches.
func setLogLevels(level string) {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		lvl = btclog.LevelInfo
	}
	log.SetLevel(lvl)

	peerLog := backendLog.Logger("PEER")
	peerLog.SetLevel(lvl)
	peer.UseLogger(peerLog)

	wireLog := backendLog.Logger("WIRE")
	wireLog.SetLevel(lvl)
	wire.UseLogger(wireLog)
}
