package main

import (
    "flag"
    "fmt"
    "os"
    "sort"
)

var commands map[string]func() = make(map[string]func())
var commandUsages map[string]string = make(map[string]string)

var optConfigFile *string = flag.String("conf", "", "Config file to use for the master")
var optHost *string = flag.String("host", "localhost", "Host of a running master")
var optPort *uint = flag.Uint("port", 8080, "Port of a running master")

func registerCommand(name string, command func(), usage string) {
    commands[name] = command
    commandUsages[name] = usage
}

func usage() {
    fmt.Fprintf(os.Stderr, "Usage: regiondb <command> [arguments]\n\nCommands:\n")

    names := make([]string, 0, len(commandUsages))

    for name, _ := range commandUsages {
        names = append(names, name)
    }

    sort.Strings(names)

    for _, name := range names {
        fmt.Fprintf(os.Stderr, "%s", commandUsages[name])
    }
}

func main() {
    if len(os.Args) < 2 {
        usage()

        os.Exit(1)
    }

    command, ok := commands[os.Args[1]]

    if !ok {
        fmt.Fprintf(os.Stderr, "%s is not a valid command\n\n", os.Args[1])
        usage()

        os.Exit(1)
    }

    os.Args = append(os.Args[:1], os.Args[2:]...)
    flag.Parse()

    command()
}
