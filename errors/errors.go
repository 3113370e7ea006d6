package errors

type RecoveryError struct {
    message string
    code int
}

func (recoveryError RecoveryError) Error() string {
    return recoveryError.message
}

func (recoveryError RecoveryError) Code() int {
    return recoveryError.code
}

const (
    eSTORAGE = iota
    eSPLIT_LOG = iota
    eSTOPPED = iota
    eMARKER = iota
    eASSIGN = iota
    eMETA = iota
    eQUEUE_FULL = iota
    eNO_POOL = iota
)

var (
    EStorage         = RecoveryError{ "The storage driver experienced an error", eSTORAGE }
    ESplitLog        = RecoveryError{ "Write-ahead log splitting failed and the recovery task was requeued", eSPLIT_LOG }
    EStopped         = RecoveryError{ "The process is shutting down", eSTOPPED }
    EMarkerDelete    = RecoveryError{ "A transition marker for a region could not be deleted", eMARKER }
    EAssignInterrupted = RecoveryError{ "Bulk region assignment was interrupted", eASSIGN }
    EMetaRead        = RecoveryError{ "The metadata table could not be read", eMETA }
    EQueueFull       = RecoveryError{ "The task queue is full", eQUEUE_FULL }
    ENoSuchPool      = RecoveryError{ "No task pool with that name exists", eNO_POOL }
)
