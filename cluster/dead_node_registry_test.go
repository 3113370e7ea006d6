package cluster_test

import (
    . "regiondb/cluster"

    . "github.com/onsi/ginkgo"
    . "github.com/onsi/gomega"
)

var _ = Describe("DeadNodeRegistry", func() {
    var deadNodeRegistry *DeadNodeRegistry
    var node NodeIdentity

    BeforeEach(func() {
        deadNodeRegistry = NewDeadNodeRegistry()
        node = NodeIdentity{ Host: "node1.example.com", Port: 9090, StartTimestamp: 1000 }
    })

    Describe("#Add", func() {
        It("should make the node a member", func() {
            deadNodeRegistry.Add(node)

            Expect(deadNodeRegistry.IsMember(node)).Should(BeTrue())
            Expect(deadNodeRegistry.Count()).Should(Equal(1))
        })

        It("should keep the existing entry when the node is already a member", func() {
            deadNodeRegistry.Add(node)
            deadNodeRegistry.StartRecovery(node)
            deadNodeRegistry.Add(node)

            entries := deadNodeRegistry.Entries()

            Expect(len(entries)).Should(Equal(1))
            Expect(entries[0].RecoveryInProgress).Should(BeTrue())
        })

        It("should treat a restarted node as a distinct identity", func() {
            restartedNode := NodeIdentity{ Host: node.Host, Port: node.Port, StartTimestamp: 2000 }

            deadNodeRegistry.Add(node)
            deadNodeRegistry.Add(restartedNode)

            Expect(deadNodeRegistry.Count()).Should(Equal(2))
        })
    })

    Describe("#Finish", func() {
        It("should remove the node from the registry", func() {
            deadNodeRegistry.Add(node)
            deadNodeRegistry.Finish(node)

            Expect(deadNodeRegistry.IsMember(node)).Should(BeFalse())
        })

        It("should be a no-op when the node is not a member", func() {
            Expect(func() {
                deadNodeRegistry.Finish(node)
            }).ShouldNot(Panic())

            Expect(deadNodeRegistry.Count()).Should(Equal(0))
        })

        It("should be idempotent", func() {
            deadNodeRegistry.Add(node)
            deadNodeRegistry.Finish(node)
            deadNodeRegistry.Finish(node)

            Expect(deadNodeRegistry.IsMember(node)).Should(BeFalse())
        })
    })

    Describe("#StartRecovery", func() {
        It("should flag the entry as having an active recovery attempt", func() {
            deadNodeRegistry.Add(node)

            Expect(deadNodeRegistry.Entries()[0].RecoveryInProgress).Should(BeFalse())

            deadNodeRegistry.StartRecovery(node)

            Expect(deadNodeRegistry.Entries()[0].RecoveryInProgress).Should(BeTrue())
        })

        It("should not add the node when it is not a member", func() {
            deadNodeRegistry.StartRecovery(node)

            Expect(deadNodeRegistry.IsMember(node)).Should(BeFalse())
        })
    })
})

var _ = Describe("NodeIdentity", func() {
    Describe("#Equals", func() {
        It("should require the start timestamp to match", func() {
            node := NodeIdentity{ Host: "a", Port: 1, StartTimestamp: 1 }
            restartedNode := NodeIdentity{ Host: "a", Port: 1, StartTimestamp: 2 }

            Expect(node.Equals(restartedNode)).Should(BeFalse())
            Expect(node.Equals(node)).Should(BeTrue())
        })
    })
})
