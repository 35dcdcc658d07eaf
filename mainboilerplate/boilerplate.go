// Package mainboilerplate contains shared boilerplate for this project's
// programs. The idea is to provide a selection of narrowly scoped methods so
// callers do not have to buy-in to an all-or-nothing approach.
package mainboilerplate

import (
	log "github.com/sirupsen/logrus"
)

// Version is populated at build time with the current git version.
var Version = "development"

// BuildDate is populated at build time with the current build date.
var BuildDate = "unknown"

// Must panics if |err| is non-nil, supplying |msg| and |extra| as
// formatted log context.
func Must(err error, msg string, extra ...interface{}) {
	if err == nil {
		return
	}

	var f = log.Fields{"err": err}
	for i := 0; i+1 < len(extra); i += 2 {
		f[extra[i].(string)] = extra[i+1]
	}
	log.WithFields(f).Fatal(msg)
}
