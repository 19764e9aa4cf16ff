package models

import "encoding/json"

// Summary aggregates the outcome of one full collection run. It is printed
// at the end of a run but never persisted.
type Summary struct {
	CollectionSummary CollectionSummary `json:"collection_summary"`
	DataSummary       DataSummary       `json:"data_summary"`
}

type CollectionSummary struct {
	Timestamp       string   `json:"timestamp"`
	CollectionID    string   `json:"collection_id"`
	TotalCategories int      `json:"total_categories"`
	Status          string   `json:"status"`
	DexCount        int      `json:"dex_count"`
	SupportedDexs   []string `json:"supported_dexs"`
}

type DataSummary struct {
	Protocols   CategorySummary `json:"protocols"`
	Dex         DexSummary      `json:"dex"`
	Yields      CategorySummary `json:"yields"`
	Stablecoins CategorySummary `json:"stablecoins"`
	Fees        CategorySummary `json:"fees"`
}

// CategorySummary reports one category fetch: how many records came back
// and where they came from. Source is nil when the fetch failed.
type CategorySummary struct {
	Count    int         `json:"count"`
	Source   *SourceInfo `json:"source"`
	DataType string      `json:"data_type"`
}

type DexSummary struct {
	Count     int                    `json:"count"`
	Source    *SourceInfo            `json:"source"`
	MajorDexs map[string]*SourceInfo `json:"major_dexs"`
	DataTypes map[string]string      `json:"data_types"`
}

// CountElements returns the number of top-level elements in a payload:
// array length for arrays, key count for objects, zero otherwise.
func CountElements(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		return len(arr)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		return len(obj)
	}
	return 0
}

// CountProtocols returns the length of the nested "protocols" array carried
// by DEX volume and fee overview payloads, or zero when absent.
func CountProtocols(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var obj struct {
		Protocols []json.RawMessage `json:"protocols"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0
	}
	return len(obj.Protocols)
}
