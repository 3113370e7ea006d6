package coordination

// Client talks to the coordination service that holds the ephemeral
// transition markers regions leave behind while an open, close, or split
// is in flight on some node.
//
// DeleteTransitionMarker must be idempotent: deleting a marker that is
// already absent is success, not an error. A marker vanishes on its own
// when the node that created it dies, so recovery frequently races the
// coordination service's own session expiry.
type Client interface {
    CreateTransitionMarker(regionID string, data []byte) error
    DeleteTransitionMarker(regionID string) error
}
