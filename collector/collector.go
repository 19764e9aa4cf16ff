package collector

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"llamaflow/config"
	"llamaflow/logger"
	"llamaflow/models"
	"llamaflow/processor"
	"llamaflow/reader/llama"
	"llamaflow/writer"
)

// Fixed descriptive labels echoed into the collection summary.
const (
	protocolsSummaryLabel   = "Raw protocol listing with basic metrics"
	yieldsSummaryLabel      = "Raw yield pool listing"
	stablecoinsSummaryLabel = "Raw stablecoin market data"
	feesSummaryLabel        = "Raw protocol fee data"
)

// Collector runs one full collection: the five category fetches, the
// per-DEX detail fetches and the final summary. Every Collector carries a
// fresh collection id; scheduled runs construct a new Collector per run.
//
// Execution is strictly sequential. Fetch failures degrade to missing
// snapshots and zero counts; persistence failures abort the run.
type Collector struct {
	config    *config.Config
	client    *llama.Client
	annotator *processor.Annotator
	writer    *writer.SnapshotWriter
	log       *logger.Log
	runID     string
}

// New creates a Collector for a single collection run.
func New(cfg *config.Config, client *llama.Client, w *writer.SnapshotWriter) *Collector {
	runID := uuid.NewString()
	return &Collector{
		config:    cfg,
		client:    client,
		annotator: processor.NewAnnotator(cfg, runID),
		writer:    w,
		log:       logger.GetLogger(),
		runID:     runID,
	}
}

// Run executes the whole collection and returns its summary. The returned
// error is fatal only: a malformed API payload or a filesystem failure.
func (c *Collector) Run(ctx context.Context) (*models.Summary, error) {
	log := c.log.WithComponent("collector").WithFields(logger.Fields{"collection_id": c.runID})
	log.Info("starting collection run")

	protocols, err := c.FetchProtocolTVL(ctx)
	if err != nil {
		return nil, err
	}
	dexVolumes, err := c.FetchDexVolumes(ctx)
	if err != nil {
		return nil, err
	}
	yieldPools, err := c.FetchYieldPools(ctx)
	if err != nil {
		return nil, err
	}
	stablecoins, err := c.FetchStablecoinData(ctx)
	if err != nil {
		return nil, err
	}
	fees, err := c.FetchFeeData(ctx)
	if err != nil {
		return nil, err
	}

	log.Info("fetching data for all major DEXs")
	dexDetails := make(map[string]*models.Envelope, len(c.config.Dexs))
	for _, slug := range c.config.Dexs {
		env, err := c.FetchDexDetails(ctx, slug)
		if err != nil {
			return nil, err
		}
		dexDetails[slug] = env
	}

	log.Info("all data fetching completed")
	return c.buildSummary(protocols, dexVolumes, yieldPools, stablecoins, fees, dexDetails), nil
}

// FetchProtocolTVL captures the protocol TVL listing under protocols/tvl.
func (c *Collector) FetchProtocolTVL(ctx context.Context) (*models.Envelope, error) {
	c.log.WithComponent("collector").Info("fetching protocol TVL data")
	data, err := c.client.Protocols(ctx)
	if err != nil {
		return nil, err
	}
	return c.persist(ctx, data, processor.Request{
		Category:    models.CategoryProtocols,
		Subcategory: "tvl",
		Endpoint:    "protocols",
	})
}

// FetchDexVolumes captures the DEX volume overview under dex/volumes.
func (c *Collector) FetchDexVolumes(ctx context.Context) (*models.Envelope, error) {
	c.log.WithComponent("collector").Info("fetching DEX volume data")
	data, err := c.client.DexOverview(ctx)
	if err != nil {
		return nil, err
	}
	return c.persist(ctx, data, processor.Request{
		Category:    models.CategoryDex,
		Subcategory: "volumes",
		Endpoint:    "dexs",
	})
}

// FetchYieldPools captures the yield pool listing under yields/pools.
func (c *Collector) FetchYieldPools(ctx context.Context) (*models.Envelope, error) {
	c.log.WithComponent("collector").Info("fetching yield pool data")
	data, err := c.client.YieldPools(ctx)
	if err != nil {
		return nil, err
	}
	return c.persist(ctx, data, processor.Request{
		Category:    models.CategoryYields,
		Subcategory: "pools",
		Endpoint:    "pools",
	})
}

// FetchStablecoinData captures the stablecoin listing under
// stablecoins/market.
func (c *Collector) FetchStablecoinData(ctx context.Context) (*models.Envelope, error) {
	c.log.WithComponent("collector").Info("fetching stablecoin data")
	data, err := c.client.Stablecoins(ctx)
	if err != nil {
		return nil, err
	}
	return c.persist(ctx, data, processor.Request{
		Category:    models.CategoryStablecoins,
		Subcategory: "market",
		Endpoint:    "stablecoins",
	})
}

// FetchFeeData captures the fee overview under protocols/fees.
func (c *Collector) FetchFeeData(ctx context.Context) (*models.Envelope, error) {
	c.log.WithComponent("collector").Info("fetching protocol fee data")
	data, err := c.client.FeesOverview(ctx)
	if err != nil {
		return nil, err
	}
	return c.persist(ctx, data, processor.Request{
		Category:    models.CategoryProtocols,
		Subcategory: "fees",
		Endpoint:    "fees",
	})
}

// FetchDexDetails bundles the three per-DEX fetches into one aggregated
// snapshot under dex/details. Each sub-fetch is independently nullable;
// the envelope is written even when some of them failed and its collection
// status reflects that.
func (c *Collector) FetchDexDetails(ctx context.Context, slug string) (*models.Envelope, error) {
	c.log.WithComponent("collector").WithFields(logger.Fields{"dex": slug}).Info("fetching detailed DEX data")

	tvl, err := c.client.Protocol(ctx, slug)
	if err != nil {
		return nil, err
	}
	volume, err := c.client.DexSummary(ctx, slug)
	if err != nil {
		return nil, err
	}
	fees, err := c.client.FeeSummary(ctx, slug)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(models.DexDetail{TVL: tvl, Volume: volume, Fees: fees})
	if err != nil {
		return nil, err
	}

	status := processor.StatusSuccess
	if tvl == nil || volume == nil || fees == nil {
		status = processor.StatusPartial
	}

	env, filename := c.annotator.Annotate(payload, processor.Request{
		Category:    models.CategoryDex,
		Subcategory: "details",
		Slug:        slug,
		Endpoint:    slug,
		Status:      status,
	})
	if _, err := c.writer.Write(ctx, env, models.CategoryDex, "details", filename); err != nil {
		return nil, err
	}
	return &env, nil
}

// persist annotates and writes one successful category fetch. A nil
// payload means the fetch failed; no file is produced and no error raised.
func (c *Collector) persist(ctx context.Context, data json.RawMessage, req processor.Request) (*models.Envelope, error) {
	if data == nil {
		return nil, nil
	}
	env, filename := c.annotator.Annotate(data, req)
	if _, err := c.writer.Write(ctx, env, req.Category, req.Subcategory, filename); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *Collector) buildSummary(protocols, dexVolumes, yieldPools, stablecoins, fees *models.Envelope, dexDetails map[string]*models.Envelope) *models.Summary {
	majorDexs := make(map[string]*models.SourceInfo, len(dexDetails))
	for slug, env := range dexDetails {
		if env != nil {
			majorDexs[slug] = &env.Metadata.SourceInfo
		}
	}

	return &models.Summary{
		CollectionSummary: models.CollectionSummary{
			Timestamp:       time.Now().Format(processor.TimestampLayout),
			CollectionID:    c.runID,
			TotalCategories: len(models.Categories),
			Status:          "completed",
			DexCount:        len(c.config.Dexs),
			SupportedDexs:   c.config.Dexs,
		},
		DataSummary: models.DataSummary{
			Protocols: models.CategorySummary{
				Count:    envelopeCount(protocols),
				Source:   sourceOf(protocols),
				DataType: protocolsSummaryLabel,
			},
			Dex: models.DexSummary{
				Count:     nestedProtocolCount(dexVolumes),
				Source:    sourceOf(dexVolumes),
				MajorDexs: majorDexs,
				DataTypes: map[string]string{
					models.DataTypeRaw:        "Complete DEX listing with volume data",
					models.DataTypeAggregated: "Detailed metrics for major DEXs",
				},
			},
			Yields: models.CategorySummary{
				Count:    envelopeCount(yieldPools),
				Source:   sourceOf(yieldPools),
				DataType: yieldsSummaryLabel,
			},
			Stablecoins: models.CategorySummary{
				Count:    envelopeCount(stablecoins),
				Source:   sourceOf(stablecoins),
				DataType: stablecoinsSummaryLabel,
			},
			Fees: models.CategorySummary{
				Count:    nestedProtocolCount(fees),
				Source:   sourceOf(fees),
				DataType: feesSummaryLabel,
			},
		},
	}
}

func envelopeCount(env *models.Envelope) int {
	if env == nil {
		return 0
	}
	return models.CountElements(env.Data)
}

func nestedProtocolCount(env *models.Envelope) int {
	if env == nil {
		return 0
	}
	return models.CountProtocols(env.Data)
}

func sourceOf(env *models.Envelope) *models.SourceInfo {
	if env == nil {
		return nil
	}
	return &env.Metadata.SourceInfo
}
