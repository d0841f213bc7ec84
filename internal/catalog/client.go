package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"vitrine-storefront/internal/domain"
)

// Client fetches public catalog snapshots from the catalog backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type catalogPayload struct {
	Collection struct {
		Name     string `json:"name"`
		WhatsApp string `json:"whatsapp"`
	} `json:"collection"`
	Products []productPayload `json:"products"`
}

type productPayload struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Images []imagePayload  `json:"images"`
	Sizes  string          `json:"sizes"`
}

type imagePayload struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// Load fetches the snapshot for token. Unknown tokens map to
// domain.ErrNotFound.
func (c *Client) Load(ctx context.Context, token string) (*Snapshot, error) {
	url := fmt.Sprintf("%s/public/catalogs/%s", c.baseURL, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog backend returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload catalogPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	title := payload.Collection.Name
	if title == "" {
		title = "Vitrine"
	}

	products := make([]domain.Product, 0, len(payload.Products))
	for _, p := range payload.Products {
		images := make([]domain.Image, 0, len(p.Images))
		for _, img := range p.Images {
			images = append(images, domain.Image{URL: img.URL, Position: img.Position})
		}
		sort.SliceStable(images, func(i, j int) bool { return images[i].Position < images[j].Position })
		products = append(products, domain.Product{
			ID:     p.ID,
			Name:   p.Name,
			Price:  p.Price,
			Images: images,
			Sizes:  domain.SortSizes(domain.ParseSizes(p.Sizes)),
		})
	}

	c.logger.WithFields(logrus.Fields{"token": token, "products": len(products)}).Debug("catalog snapshot loaded")
	return NewSnapshot(token, title, Merchant{WhatsAppPhone: payload.Collection.WhatsApp}, products), nil
}
