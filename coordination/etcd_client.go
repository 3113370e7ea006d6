package coordination

import (
    "context"
    "time"

    . "regiondb/logging"

    "github.com/coreos/etcd/clientv3"
)

const (
    EtcdDialTimeoutSeconds = 5
    EtcdRequestTimeoutSeconds = 10
    MarkerLeaseTTLSeconds = 30
)

var markerKeyPrefix string = "regiondb/transition-markers/"

func markerKey(regionID string) string {
    return markerKeyPrefix + regionID
}

// EtcdCoordinationClient keeps transition markers as leased keys so a
// marker disappears when the session of the node that wrote it lapses.
type EtcdCoordinationClient struct {
    client *clientv3.Client
}

func NewEtcdCoordinationClient(endpoints []string) (*EtcdCoordinationClient, error) {
    client, err := clientv3.New(clientv3.Config{
        Endpoints: endpoints,
        DialTimeout: time.Second * EtcdDialTimeoutSeconds,
    })

    if err != nil {
        Log.Errorf("Unable to connect to the coordination service at %v: %v", endpoints, err.Error())

        return nil, err
    }

    return &EtcdCoordinationClient{ client: client }, nil
}

func (coordinationClient *EtcdCoordinationClient) CreateTransitionMarker(regionID string, data []byte) error {
    ctx, cancel := context.WithTimeout(context.Background(), time.Second * EtcdRequestTimeoutSeconds)
    defer cancel()

    lease, err := coordinationClient.client.Grant(ctx, MarkerLeaseTTLSeconds)

    if err != nil {
        Log.Errorf("Unable to obtain a lease for the transition marker for region %s: %v", regionID, err.Error())

        return err
    }

    _, err = coordinationClient.client.Put(ctx, markerKey(regionID), string(data), clientv3.WithLease(lease.ID))

    if err != nil {
        Log.Errorf("Unable to write the transition marker for region %s: %v", regionID, err.Error())

        return err
    }

    return nil
}

// DeleteTransitionMarker removes the marker for a region. Etcd reports a
// delete of a missing key as success with zero keys deleted, which gives
// the idempotency the recovery path depends on.
func (coordinationClient *EtcdCoordinationClient) DeleteTransitionMarker(regionID string) error {
    ctx, cancel := context.WithTimeout(context.Background(), time.Second * EtcdRequestTimeoutSeconds)
    defer cancel()

    response, err := coordinationClient.client.Delete(ctx, markerKey(regionID))

    if err != nil {
        Log.Errorf("Unable to delete the transition marker for region %s: %v", regionID, err.Error())

        return err
    }

    if response.Deleted == 0 {
        Log.Debugf("Transition marker for region %s was already absent", regionID)
    }

    return nil
}

func (coordinationClient *EtcdCoordinationClient) Close() error {
    return coordinationClient.client.Close()
}
