package search

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/procurement/config"
	"example.com/procurement/internal/models"
)

// ElasticClient indexes posted goods receipts for warehouse reporting.
// Indexing is best-effort; the receipt of record lives in the database.
type ElasticClient struct {
	client *elasticsearch.Client
	config config.ElasticConfig
}

// NewElasticClient creates a new Elasticsearch client
func NewElasticClient(cfg config.ElasticConfig) (*ElasticClient, error) {
	esConfig := elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	}

	client, err := elasticsearch.NewClient(esConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Elasticsearch client")
	}

	return &ElasticClient{
		client: client,
		config: cfg,
	}, nil
}

// IndexGoodsReceipt indexes a posted goods receipt together with the derived
// purchase order status at posting time.
func (c *ElasticClient) IndexGoodsReceipt(ctx context.Context, gr *models.GoodsReceipt, poStatus models.PurchaseOrderStatus) error {
	if c == nil {
		return nil
	}

	lines := make([]map[string]interface{}, 0, len(gr.Lines))
	for _, line := range gr.Lines {
		lines = append(lines, map[string]interface{}{
			"sku":          line.SKU,
			"name":         line.Name,
			"qty_received": line.QtyReceived.String(),
			"uom":          line.UOM,
		})
	}

	doc := map[string]interface{}{
		"id":        gr.ID.String(),
		"po_id":     gr.POID.String(),
		"po_status": poStatus,
		"source":    gr.Source,
		"lines":     lines,
		"posted_at": gr.CreatedAt,
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal goods receipt document")
	}

	indexName := config.FormatIndex(c.config, c.config.Index)
	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: gr.ID.String(),
		Body:       bytes.NewReader(docJSON),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return errors.Wrap(err, "failed to execute Elasticsearch index request")
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return errors.Wrap(err, "failed to parse Elasticsearch error response")
		}
		return errors.Errorf("Elasticsearch index error: %v", e)
	}

	log.Debug().Str("gr_id", gr.ID.String()).Msg("Goods receipt indexed")
	return nil
}
