package shared

import (
    "errors"
    "fmt"
    "io/ioutil"

    "gopkg.in/yaml.v2"

    . "regiondb/logging"
)

const (
    DefaultMetaRecoveryWorkers = 2
    DefaultNodeRecoveryWorkers = 8
    DefaultRecoveryQueueDepth = 64
)

type YAMLMasterConfig struct {
    Port int `yaml:"port"`
    MetaStoreFile string `yaml:"metaStore"`
    CoordinationEndpoints []string `yaml:"coordinationEndpoints"`
    MetaRecoveryWorkers int `yaml:"metaRecoveryWorkers"`
    NodeRecoveryWorkers int `yaml:"nodeRecoveryWorkers"`
    RecoveryQueueDepth int `yaml:"recoveryQueueDepth"`
    LogLevel string `yaml:"logLevel"`
}

func (ymc *YAMLMasterConfig) LoadFromFile(file string) error {
    rawConfig, err := ioutil.ReadFile(file)

    if err != nil {
        return err
    }

    err = yaml.Unmarshal(rawConfig, ymc)

    if err != nil {
        return err
    }

    if err := ymc.Validate(); err != nil {
        return err
    }

    SetLoggingLevel(ymc.LogLevel)

    return nil
}

func (ymc *YAMLMasterConfig) Validate() error {
    if !isValidPort(ymc.Port) {
        return errors.New(fmt.Sprintf("%d is an invalid port for the master server", ymc.Port))
    }

    if len(ymc.MetaStoreFile) == 0 {
        return errors.New("No metadata store directory was specified")
    }

    if len(ymc.CoordinationEndpoints) == 0 {
        return errors.New("No coordination service endpoints were specified")
    }

    if ymc.MetaRecoveryWorkers < 0 || ymc.NodeRecoveryWorkers < 0 || ymc.RecoveryQueueDepth < 0 {
        return errors.New("Worker and queue sizes cannot be negative")
    }

    if ymc.MetaRecoveryWorkers == 0 {
        ymc.MetaRecoveryWorkers = DefaultMetaRecoveryWorkers
    }

    if ymc.NodeRecoveryWorkers == 0 {
        ymc.NodeRecoveryWorkers = DefaultNodeRecoveryWorkers
    }

    if ymc.RecoveryQueueDepth == 0 {
        ymc.RecoveryQueueDepth = DefaultRecoveryQueueDepth
    }

    return nil
}

func isValidPort(p int) bool {
    return p > 0 && p < (1 << 16)
}
