// main is the entry point for the schoolfit CLI.
package main

import (
	"github.com/huangsam/schoolfit/cmd"
	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)

	err := cmd.Execute()

	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	iocache.CloseStore()

	if err != nil {
		contract.LogFatal("Cannot run command", err)
	}
}
