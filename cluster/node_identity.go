package cluster

import (
    "fmt"
)

// NodeIdentity identifies one incarnation of a storage node. The start
// timestamp is part of the identity so a restarted process on the same
// host and port compares as a different node.
type NodeIdentity struct {
    Host string
    Port int
    StartTimestamp uint64
}

func (nodeIdentity NodeIdentity) Equals(otherNodeIdentity NodeIdentity) bool {
    return nodeIdentity.Host == otherNodeIdentity.Host &&
        nodeIdentity.Port == otherNodeIdentity.Port &&
        nodeIdentity.StartTimestamp == otherNodeIdentity.StartTimestamp
}

func (nodeIdentity NodeIdentity) String() string {
    return fmt.Sprintf("%s,%d,%d", nodeIdentity.Host, nodeIdentity.Port, nodeIdentity.StartTimestamp)
}
