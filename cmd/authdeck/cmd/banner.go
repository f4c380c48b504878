package cmd

import (
	"fmt"
)

const banner = `
    _         _   _     ____            _
   / \  _   _| |_| |__ |  _ \  ___  ___| | __
  / _ \| | | | __| '_ \| | | |/ _ \/ __| |/ /
 / ___ \ |_| | |_| | | | |_| |  __/ (__|   <
/_/   \_\__,_|\__|_| |_|____/ \___|\___|_|\_\

`

func printBanner() {
	fmt.Printf("\x1b[34m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  Session Dashboard - Version %s\x1b[0m\n\n", Version)
}
