package location

import (
	"strings"

	"github.com/fansense/fansense-cli/internal/model"
)

// DecomposeAddress splits a geocoded display-name of the form
// "..., city, state, country" into its trailing components. Shorter inputs
// degrade to fewer populated fields; there is no failure mode.
func DecomposeAddress(address string) model.AddressParts {
	if address == "" {
		return model.AddressParts{}
	}

	parts := strings.Split(address, ", ")
	switch {
	case len(parts) >= 3:
		return model.AddressParts{
			City:    parts[len(parts)-3],
			State:   parts[len(parts)-2],
			Country: parts[len(parts)-1],
		}
	case len(parts) == 2:
		return model.AddressParts{
			State:   parts[0],
			Country: parts[1],
		}
	default:
		return model.AddressParts{Country: parts[0]}
	}
}
