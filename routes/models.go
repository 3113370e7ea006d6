package routes

type DeadNodeModel struct {
    Host string `json:"host"`
    Port int `json:"port"`
    StartTimestamp uint64 `json:"startTimestamp"`
    RecoveryInProgress bool `json:"recoveryInProgress"`
}

type RecoveryTaskModel struct {
    Pool string `json:"pool"`
    Name string `json:"name"`
}

type RecoverNodeRequest struct {
    Host string `json:"host"`
    Port int `json:"port"`
    StartTimestamp uint64 `json:"startTimestamp"`
    SplitLogs bool `json:"splitLogs"`
}
