package cli

import (
	"fmt"

	"github.com/diillson/electricity-dashboard-go/pkg/console"
	"github.com/diillson/electricity-dashboard-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
   _____ _           _        _      _ _
  | ____| | ___  ___| |_ _ __(_) ___(_) |_ _   _
  |  _| | |/ _ \/ __| __| '__| |/ __| | __| | | |
  | |___| |  __/ (__| |_| |  | | (__| | |_| |_| |
  |_____|_|\___|\___|\__|_|  |_|\___|_|\__|\__, |
                                           |___/
        `
	fmt.Println(console.BrightYellow(banner))

	// Obtem a string formatada da versão através do pacote version
	formattedVersion := version.FormatVersion()
	fmt.Println(console.BrightCyan(fmt.Sprintf("Electricity Dashboard CLI (v%s)", formattedVersion)))
	fmt.Println(console.BrightMagenta("Household usage explorer and bill estimator"))
}
