// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import "github.com/btcsuite/btclog"

// log is the package-level logger used throughout peer. It is disabled by
// default so importers that never call UseLogger see no output, matching
// the convention btcd/colxd's own peer package uses.
var log = btclog.Disabled

// UseLogger lets a calling application specify which logger to use.
func UseLogger(logger btclog.Logger) {
	log = logger
}
