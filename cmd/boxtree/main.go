// Command boxtree builds FMM interaction lists for box trees and inspects
// the result.
package main

import (
	"github.com/bssrdf/boxtree/cmd/boxtree/cmd"
)

func main() {
	cmd.Execute()
}
