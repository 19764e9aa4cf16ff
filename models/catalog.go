package models

// Category identifiers. The set is fixed; new categories are added here
// together with their catalog entry.
const (
	CategoryProtocols   = "protocols"
	CategoryDex         = "dex"
	CategoryYields      = "yields"
	CategoryStablecoins = "stablecoins"
)

// Data type labels for source_info.data_type.
const (
	DataTypeRaw        = "raw"
	DataTypeAggregated = "aggregated"
)

// CategoryDescriptor describes one data category: what it covers, its named
// subcategories and the meaning of each data type it can produce.
type CategoryDescriptor struct {
	Description   string
	Subcategories map[string]string
	DataTypes     map[string]string
}

// Categories is the static catalog of data categories and their
// descriptions. It is never mutated at runtime.
var Categories = map[string]CategoryDescriptor{
	CategoryProtocols: {
		Description: "Protocol TVL and general information",
		Subcategories: map[string]string{
			"tvl":     "Total Value Locked data for all protocols",
			"fees":    "Protocol fee and revenue data for all protocols",
			"details": "Detailed protocol information",
		},
		DataTypes: map[string]string{
			DataTypeRaw:        "Complete listing of all protocols with basic metrics (TVL, changes, chains)",
			DataTypeAggregated: "Detailed metrics for specific protocols including historical data",
		},
	},
	CategoryDex: {
		Description: "Decentralized Exchange data and metrics",
		Subcategories: map[string]string{
			"volumes":   "Trading volume data across all DEXs",
			"liquidity": "Liquidity pool information and depth",
			"details":   "Detailed DEX-specific metrics and performance",
		},
		DataTypes: map[string]string{
			DataTypeRaw:        "Complete listing of all DEXs with basic volume and TVL metrics",
			DataTypeAggregated: "Detailed metrics for specific DEXs including TVL, volume trends, and fee data",
		},
	},
	CategoryYields: {
		Description: "Yield farming and staking opportunities data",
		Subcategories: map[string]string{
			"pools": "Yield pool information across protocols",
			"rates": "Current and historical yield rates and APY data",
		},
		DataTypes: map[string]string{
			DataTypeRaw: "Complete listing of all yield pools with current rates and TVL",
		},
	},
	CategoryStablecoins: {
		Description: "Stablecoin market data and metrics",
		Subcategories: map[string]string{
			"market": "Market capitalization and supply data for stablecoins",
			"peg":    "Price stability and peg maintenance metrics",
		},
		DataTypes: map[string]string{
			DataTypeRaw: "Complete listing of all stablecoins with market caps, supplies, and chains",
		},
	},
}

// CategoryDescription returns the description for a category, or "N/A" for
// an unknown category.
func CategoryDescription(category string) string {
	if desc, ok := Categories[category]; ok {
		return desc.Description
	}
	return "N/A"
}

// SubcategoryDescription returns the description for a subcategory of a
// category, or "N/A" when the subcategory is empty or unknown.
func SubcategoryDescription(category, subcategory string) string {
	if desc, ok := Categories[category]; ok {
		if sub, ok := desc.Subcategories[subcategory]; ok {
			return sub
		}
	}
	return "N/A"
}

// DataTypeDescription returns the description for a data type of a
// category, or "N/A" when the data type is not defined for that category.
func DataTypeDescription(category, dataType string) string {
	if desc, ok := Categories[category]; ok {
		if dt, ok := desc.DataTypes[dataType]; ok {
			return dt
		}
	}
	return "N/A"
}

// MetricsIncluded lists the metrics covered by snapshots of a category.
// The lists are fixed, not derived from payloads.
func MetricsIncluded(category string) []string {
	if category == CategoryDex {
		return []string{"TVL", "Volume", "Fees"}
	}
	return []string{"TVL", "Market Metrics"}
}
