package main

import (
	"github.com/lehigh-university-libraries/orcidator/cmd"

	// Register output formats
	_ "github.com/lehigh-university-libraries/orcidator/format/qsjson"
	_ "github.com/lehigh-university-libraries/orcidator/format/qstext"
	_ "github.com/lehigh-university-libraries/orcidator/format/qsurl"
)

func main() {
	cmd.Execute()
}
