package logging

import (
    "os"

    "github.com/op/go-logging"
)

var Log = logging.MustGetLogger("regiondb")

var loggingBackend logging.LeveledBackend

func init() {
    var format = logging.MustStringFormatter(`%{color}%{time:15:04:05.000} ▶ %{level:.4s} %{shortfile}%{color:reset} %{message}`)
    var backend = logging.NewLogBackend(os.Stdout, "", 0)
    backendFormatter := logging.NewBackendFormatter(backend, format)

    loggingBackend = logging.AddModuleLevel(backendFormatter)
    loggingBackend.SetLevel(logging.INFO, "")

    logging.SetBackend(loggingBackend)
}

func SetLoggingLevel(ll string) {
    logLevel, err := logging.LogLevel(ll)

    if err != nil {
        logLevel = logging.INFO
    }

    loggingBackend.SetLevel(logLevel, "")
}
