package stockscanner

import (
	"fmt"
	"strings"
)

// AssetType tags the class of an Asset.
type AssetType int

const (
	Equity AssetType = iota
	Debt
	Cash
	Gold
)

// AssetTypes lists every asset type in rebalance order.
var AssetTypes = []AssetType{Equity, Debt, Gold, Cash}

func (t AssetType) String() string {
	switch t {
	case Equity:
		return "equity"
	case Debt:
		return "debt"
	case Cash:
		return "cash"
	case Gold:
		return "gold"
	default:
		return "unknown"
	}
}

// ParseAssetType parses a string into an AssetType.
func ParseAssetType(s string) (AssetType, error) {
	switch strings.ToLower(s) {
	case "equity", "eq":
		return Equity, nil
	case "debt":
		return Debt, nil
	case "cash":
		return Cash, nil
	case "gold":
		return Gold, nil
	default:
		return 0, fmt.Errorf("unknown asset type: %q", s)
	}
}

func (t AssetType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *AssetType) UnmarshalText(b []byte) error {
	v, err := ParseAssetType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
