// Command seedadmin creates administrator accounts, which have no public sign-up.
package main

import (
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
