// Package privacy reduces client identifiers to coarse network prefixes.
// The collector keys its per-endpoint aggregates by these values, so nothing
// stored by the admission layer can be traced back to a single machine.
package privacy

import (
	"fmt"
	"net/netip"
)

// AnonymizeIP masks the host bits of an address: IPv4 keeps the /24 network,
// IPv6 keeps the /48 prefix. Empty input maps to "unknown", unparseable
// input to "invalid"; both stay stable keys for aggregation.
func AnonymizeIP(raw string) string {
	if raw == "" || raw == "unknown" {
		return "unknown"
	}

	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return "invalid"
	}

	if addr.Is4() || addr.Is4In6() {
		b := addr.As4()
		return fmt.Sprintf("%d.%d.%d.0", b[0], b[1], b[2])
	}

	b := addr.As16()
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::", b[0], b[1], b[2], b[3], b[4], b[5])
}
