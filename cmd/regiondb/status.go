package main

import (
    "encoding/json"
    "fmt"
    "net/http"
    "os"
    "strconv"

    "github.com/olekukonko/tablewriter"

    "regiondb/routes"
)

func init() {
    registerCommand("status", recoveryStatus, statusUsage)
}

var statusUsage string =
`Usage: regiondb status -host=[master host] -port=[master port]
`

func recoveryStatus() {
    response, err := http.Get(fmt.Sprintf("http://%s:%d/recovery/deadnodes", *optHost, *optPort))

    if err != nil {
        fmt.Fprintf(os.Stderr, "Unable to contact master: %s\n", err.Error())

        return
    }

    defer response.Body.Close()

    if response.StatusCode != http.StatusOK {
        fmt.Fprintf(os.Stderr, "Master responded with status %d\n", response.StatusCode)

        return
    }

    var deadNodes []routes.DeadNodeModel

    if err := json.NewDecoder(response.Body).Decode(&deadNodes); err != nil {
        fmt.Fprintf(os.Stderr, "Unable to parse response: %s\n", err.Error())

        return
    }

    table := tablewriter.NewWriter(os.Stdout)
    table.SetHeader([]string{ "Host", "Port", "Start Timestamp", "Recovery In Progress" })

    for _, deadNode := range deadNodes {
        table.Append([]string{
            deadNode.Host,
            strconv.Itoa(deadNode.Port),
            strconv.FormatUint(deadNode.StartTimestamp, 10),
            strconv.FormatBool(deadNode.RecoveryInProgress),
        })
    }

    table.Render()
}
