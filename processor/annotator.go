package processor

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"llamaflow/config"
	"llamaflow/models"
)

// Fixed labels stamped into every envelope.
const (
	collectionMethod = "DeFi Llama API request"
	dataFreshness    = "Real-time market data"
	dataFormat       = "Structured JSON with standardized metrics"

	StatusSuccess = "success"
	StatusPartial = "partial"
)

// TimestampLayout matches ISO-8601 local time with microsecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Request identifies what a payload is: which category and subcategory it
// belongs to, the optional protocol slug for aggregated fetches, and the
// endpoint it was fetched from.
type Request struct {
	Category    string
	Subcategory string
	Slug        string
	Endpoint    string
	// Status defaults to success; the DEX detail fetch marks envelopes
	// partial when one of its sub-fetches failed.
	Status string
}

// Annotator derives metadata envelopes for fetched payloads. Metadata is
// computed once at annotation time and never mutated afterwards.
type Annotator struct {
	config *config.Config
	runID  string
	now    func() time.Time
}

// NewAnnotator creates an Annotator stamping runID into every envelope.
func NewAnnotator(cfg *config.Config, runID string) *Annotator {
	return &Annotator{config: cfg, runID: runID, now: time.Now}
}

// Annotate wraps data in a metadata envelope and returns it together with
// the snapshot filename derived from the request and the same timestamp.
func (a *Annotator) Annotate(data json.RawMessage, req Request) (models.Envelope, string) {
	timestamp := a.now().Format(TimestampLayout)

	dataType := models.DataTypeRaw
	if req.Slug != "" {
		dataType = models.DataTypeAggregated
	}

	status := req.Status
	if status == "" {
		status = StatusSuccess
	}

	metadata := models.Metadata{
		CollectionInfo: models.CollectionInfo{
			Timestamp:        timestamp,
			CollectionID:     a.runID,
			CollectionMethod: collectionMethod,
			CollectionStatus: status,
			DataFreshness:    dataFreshness,
		},
		SourceInfo: models.SourceInfo{
			APIBase:             a.apiBase(req.Category),
			Endpoint:            a.endpoint(req),
			DataType:            dataType,
			DataTypeDescription: models.DataTypeDescription(req.Category, dataType),
			DataFormat:          dataFormat,
		},
		CategoryInfo: models.CategoryInfo{
			MainCategory:           req.Category,
			Subcategory:            req.Subcategory,
			Description:            models.CategoryDescription(req.Category),
			SubcategoryDescription: models.SubcategoryDescription(req.Category, req.Subcategory),
			MetricsIncluded:        models.MetricsIncluded(req.Category),
		},
	}

	if req.Slug != "" {
		metadata.ProtocolInfo = &models.ProtocolInfo{
			Slug:               req.Slug,
			ProtocolType:       "DEX",
			DataTypes:          []string{"tvl", "volume", "fees"},
			MetricsDescription: "Detailed protocol-specific metrics including TVL, trading volume, and fee data",
			UpdateFrequency:    "Real-time with slight delay",
		}
	}

	return models.Envelope{Metadata: metadata, Data: data}, Filename(req, timestamp)
}

// apiBase follows a fixed rule: the stablecoins and yields categories have
// dedicated API roots, everything else uses the general root.
func (a *Annotator) apiBase(category string) string {
	switch category {
	case models.CategoryStablecoins:
		return a.config.API.StablecoinsURL
	case models.CategoryYields:
		return a.config.API.YieldsURL
	default:
		return a.config.API.BaseURL
	}
}

func (a *Annotator) endpoint(req Request) string {
	if req.Endpoint != "" {
		return req.Endpoint
	}
	return req.Category
}

// Filename derives the snapshot file name: slug wins over subcategory,
// subcategory over category, with the timestamp appended. Colons are
// replaced so the name is safe on every filesystem.
func Filename(req Request, timestamp string) string {
	name := req.Category
	if req.Subcategory != "" {
		name = req.Subcategory
	}
	if req.Slug != "" {
		name = req.Slug
	}
	return strings.ReplaceAll(fmt.Sprintf("%s_%s", name, timestamp), ":", "-") + ".json"
}
