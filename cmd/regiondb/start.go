package main

import (
    "fmt"

    "regiondb/assignment"
    "regiondb/master"
    "regiondb/shared"
    "regiondb/table"
)

func init() {
    registerCommand("start", startMaster, startUsage)
}

var startUsage string =
`Usage: regiondb start -conf=[config file]
`

func startMaster() {
    var mc shared.YAMLMasterConfig

    err := mc.LoadFromFile(*optConfigFile)

    if err != nil {
        fmt.Printf("Unable to load config file: %s\n", err.Error())

        return
    }

    engine := assignment.NewEngine(assignment.NewTransitionTable(), nil)

    masterServer, err := master.NewMaster(master.MasterConfig{
        Port: mc.Port,
        MetaStoreFile: mc.MetaStoreFile,
        CoordinationEndpoints: mc.CoordinationEndpoints,
        MetaRecoveryWorkers: mc.MetaRecoveryWorkers,
        NodeRecoveryWorkers: mc.NodeRecoveryWorkers,
        RecoveryQueueDepth: mc.RecoveryQueueDepth,
        Assignment: engine,
        Tables: table.NewStateStore(),
    })

    if err != nil {
        fmt.Printf("Unable to create master: %s\n", err.Error())

        return
    }

    masterServer.MetaStore().SetReady()
    masterServer.Start()
}
