// Package applog provides the runtime's leveled logger.
//
// The logger is a process-wide singleton built on zap. Records carry a
// timestamp, a bracketed level tag, a right-justified owner column
// (augmented with the calling goroutine's name when the app package
// has installed its label function), and the message.
//
//	applog.SetLevel(applog.LevelDebug)
//	applog.Infof("app.Builder", "starting render loop")
//
// Output goes to the console by default (errors to stderr, styled
// level tags) or to an append-mode file via SetFile. Records below the
// configured minimum level are dropped before any formatting happens.
package applog
