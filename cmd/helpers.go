package main

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
)

func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	app.errorLog.Output(2, trace)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

// appLogger adapts the INFO and ERROR loggers to the Infof/Errorf
// interface the internal packages take.
type appLogger struct {
	info   *log.Logger
	errLog *log.Logger
}

func newAppLogger(info, errLog *log.Logger) *appLogger {
	return &appLogger{info: info, errLog: errLog}
}

func (l *appLogger) Infof(format string, args ...interface{}) {
	l.info.Output(2, fmt.Sprintf(format, args...))
}

func (l *appLogger) Errorf(format string, args ...interface{}) {
	l.errLog.Output(2, fmt.Sprintf(format, args...))
}
