package models

import "encoding/json"

// Envelope is the persisted unit: descriptive metadata wrapped around the
// raw payload returned by the API. The payload is kept opaque and is never
// validated against a schema.
type Envelope struct {
	Metadata Metadata        `json:"metadata"`
	Data     json.RawMessage `json:"data"`
}

type Metadata struct {
	CollectionInfo CollectionInfo `json:"collection_info"`
	SourceInfo     SourceInfo     `json:"source_info"`
	CategoryInfo   CategoryInfo   `json:"category_info"`
	ProtocolInfo   *ProtocolInfo  `json:"protocol_info,omitempty"`
}

type CollectionInfo struct {
	Timestamp        string `json:"timestamp"`
	CollectionID     string `json:"collection_id"`
	CollectionMethod string `json:"collection_method"`
	CollectionStatus string `json:"collection_status"`
	DataFreshness    string `json:"data_freshness"`
}

type SourceInfo struct {
	APIBase             string `json:"api_base"`
	Endpoint            string `json:"endpoint"`
	DataType            string `json:"data_type"`
	DataTypeDescription string `json:"data_type_description"`
	DataFormat          string `json:"data_format"`
}

type CategoryInfo struct {
	MainCategory           string   `json:"main_category"`
	Subcategory            string   `json:"subcategory"`
	Description            string   `json:"description"`
	SubcategoryDescription string   `json:"subcategory_description"`
	MetricsIncluded        []string `json:"metrics_included"`
}

// ProtocolInfo is present only on aggregated per-protocol snapshots.
type ProtocolInfo struct {
	Slug               string   `json:"slug"`
	ProtocolType       string   `json:"protocol_type"`
	DataTypes          []string `json:"data_types"`
	MetricsDescription string   `json:"metrics_description"`
	UpdateFrequency    string   `json:"update_frequency"`
}

// DexDetail bundles the three per-DEX fetches into one composite payload.
// Any of the fields may be null when its fetch failed.
type DexDetail struct {
	TVL    json.RawMessage `json:"tvl"`
	Volume json.RawMessage `json:"volume"`
	Fees   json.RawMessage `json:"fees"`
}
