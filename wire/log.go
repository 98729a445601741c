// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "github.com/btcsuite/btclog"

// log is the package-level logger used to report frame-level events such
// as magic-number resyncs. Disabled by default.
var log = btclog.Disabled

// UseLogger lets a calling application specify which logger to use.
func UseLogger(logger btclog.Logger) {
	log = logger
}
