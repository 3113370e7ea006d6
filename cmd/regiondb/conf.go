package main

import (
    "fmt"
)

func init() {
    registerCommand("conf", printTemplateConfig, confUsage)
}

var confUsage string =
`Usage: regiondb conf
`

var templateConfig string =
`# The port the master listens on for status and recovery requests
port: 8080
# The directory holding the metadata store
metaStore: /var/lib/regiondb/meta
# Endpoints of the coordination service holding transition markers
coordinationEndpoints:
    - http://localhost:2379
# Worker pool reserved for recovering nodes that carry the metadata region
metaRecoveryWorkers: 2
# Worker pool for recovering ordinary nodes
nodeRecoveryWorkers: 8
# Queued recovery tasks allowed per pool
recoveryQueueDepth: 64
# ex: critical, error, warning, notice, info, debug
logLevel: info
`

func printTemplateConfig() {
    fmt.Print(templateConfig)
}
