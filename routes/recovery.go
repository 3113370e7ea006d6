package routes

import (
    "encoding/json"
    "io"
    "net/http"

    "github.com/gorilla/mux"

    . "regiondb/cluster"
    . "regiondb/logging"
)

type RecoveryFacade interface {
    DeadNodes() []DeadNodeEntry
    RunningRecoveries() []RecoveryTaskModel
    RecoverDeadNode(node NodeIdentity, splitLogs bool) error
}

type RecoveryEndpoint struct {
    RecoveryFacade RecoveryFacade
}

func (recoveryEndpoint *RecoveryEndpoint) Attach(router *mux.Router) {
    // List the nodes whose recovery has not yet completed
    router.HandleFunc("/recovery/deadnodes", func(w http.ResponseWriter, r *http.Request) {
        entries := recoveryEndpoint.RecoveryFacade.DeadNodes()
        deadNodes := make([]DeadNodeModel, 0, len(entries))

        for _, entry := range entries {
            deadNodes = append(deadNodes, DeadNodeModel{
                Host: entry.Node.Host,
                Port: entry.Node.Port,
                StartTimestamp: entry.Node.StartTimestamp,
                RecoveryInProgress: entry.RecoveryInProgress,
            })
        }

        encodedDeadNodes, _ := json.Marshal(deadNodes)

        w.Header().Set("Content-Type", "application/json; charset=utf8")
        w.WriteHeader(http.StatusOK)
        io.WriteString(w, string(encodedDeadNodes) + "\n")
    }).Methods("GET")

    // List the recovery tasks currently executing
    router.HandleFunc("/recovery/tasks", func(w http.ResponseWriter, r *http.Request) {
        encodedTasks, _ := json.Marshal(recoveryEndpoint.RecoveryFacade.RunningRecoveries())

        w.Header().Set("Content-Type", "application/json; charset=utf8")
        w.WriteHeader(http.StatusOK)
        io.WriteString(w, string(encodedTasks) + "\n")
    }).Methods("GET")

    // Submit a node for dead node recovery
    router.HandleFunc("/recovery/deadnodes", func(w http.ResponseWriter, r *http.Request) {
        var recoverNodeRequest RecoverNodeRequest

        if err := json.NewDecoder(r.Body).Decode(&recoverNodeRequest); err != nil {
            Log.Warningf("POST /recovery/deadnodes: Unable to parse request body: %v", err)

            w.Header().Set("Content-Type", "application/json; charset=utf8")
            w.WriteHeader(http.StatusBadRequest)
            io.WriteString(w, "\n")

            return
        }

        node := NodeIdentity{
            Host: recoverNodeRequest.Host,
            Port: recoverNodeRequest.Port,
            StartTimestamp: recoverNodeRequest.StartTimestamp,
        }

        if err := recoveryEndpoint.RecoveryFacade.RecoverDeadNode(node, recoverNodeRequest.SplitLogs); err != nil {
            Log.Warningf("POST /recovery/deadnodes: %v", err)

            w.Header().Set("Content-Type", "application/json; charset=utf8")
            w.WriteHeader(http.StatusInternalServerError)
            io.WriteString(w, "\n")

            return
        }

        w.Header().Set("Content-Type", "application/json; charset=utf8")
        w.WriteHeader(http.StatusOK)
        io.WriteString(w, "\n")
    }).Methods("POST")
}
